package template

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/bbq191/egovgen/internal/catalog"
	"github.com/bbq191/egovgen/internal/generr"
)

// Generator 单文件生成流水线：展开 → 渲染 → 命名 → 写入
type Generator struct {
	fs       afero.Fs       // 模板与产物所在文件系统
	resolver *Resolver      // include 解析器
	engine   *Engine        // 底层模板引擎
	writer   *Writer        // 产物写入器
	logger   *logrus.Logger // 日志记录器
}

// NewGenerator 创建生成器，模板读取和产物写入都经由 fs
func NewGenerator(fs afero.Fs, logger *logrus.Logger) *Generator {
	return &Generator{
		fs:       fs,
		resolver: NewResolver(fs, logger),
		engine:   NewEngine(logger),
		writer:   NewWriter(fs, logger),
		logger:   logger,
	}
}

// Render 生成产物文本和文件名，不写盘
func (g *Generator) Render(desc catalog.TemplateDescriptor, kind catalog.ArtifactKind, fields FieldValues) (*Artifact, error) {
	if kind == "" {
		kind = desc.DefaultKind()
	}

	templatePath := desc.TemplateFor(kind)
	if templatePath == "" {
		return nil, generr.New(generr.TemplateNotFound, "generate", "",
			fmt.Sprintf("模板 %s 未提供 %s 类别的模板文件", desc.ID, kind))
	}

	resolved, err := g.resolver.Resolve(templatePath)
	if err != nil {
		return nil, err
	}

	text, err := g.engine.Render(filepath.Base(templatePath), resolved.Text, fields)
	if err != nil {
		return nil, err
	}

	fileName, err := DeriveFileName(desc, fields, kind)
	if err != nil {
		return nil, err
	}

	if kind != catalog.KindJavaConfig {
		g.checkXML(fileName, text)
	}

	return &Artifact{
		Kind:     kind,
		FileName: fileName,
		Text:     text,
		Sources:  resolved.Sources,
	}, nil
}

// Generate 渲染并写入 targetDir
func (g *Generator) Generate(desc catalog.TemplateDescriptor, kind catalog.ArtifactKind, fields FieldValues, targetDir string) (*Artifact, error) {
	artifact, err := g.Render(desc, kind, fields)
	if err != nil {
		return nil, err
	}

	if err := g.WriteArtifact(artifact, targetDir); err != nil {
		return nil, err
	}

	g.logger.Infof("✅ %s 生成成功: %s", desc.ID, artifact.Path)
	return artifact, nil
}

// WriteArtifact 将产物写入 targetDir 并记录路径
func (g *Generator) WriteArtifact(artifact *Artifact, targetDir string) error {
	path := filepath.Join(targetDir, artifact.FileName)
	if err := g.writer.Write(path, artifact.Text); err != nil {
		return err
	}
	artifact.Path = path
	return nil
}

// Validate 展开并解析模板引用的每个模板文件，不执行渲染
func (g *Generator) Validate(desc catalog.TemplateDescriptor) error {
	for _, kind := range desc.Kinds() {
		templatePath := desc.TemplateFor(kind)

		resolved, err := g.resolver.Resolve(templatePath)
		if err != nil {
			return fmt.Errorf("模板 %s (%s): %w", desc.ID, kind, err)
		}
		if _, err := g.engine.Parse(filepath.Base(templatePath), resolved.Text); err != nil {
			return fmt.Errorf("模板 %s (%s): %w", desc.ID, kind, err)
		}

		g.logger.Debugf("模板验证通过: %s (%s)", desc.ID, kind)
	}

	if desc.IsProject() {
		if _, err := g.fs.Stat(desc.Archive); err != nil {
			return generr.Wrapf(generr.TemplateNotFound, "validate", desc.Archive, err, "项目骨架不存在")
		}
	}
	return nil
}

// Preview 返回模板展开后的前 maxLines 行
func (g *Generator) Preview(desc catalog.TemplateDescriptor, kind catalog.ArtifactKind, maxLines int) (string, error) {
	if kind == "" {
		kind = desc.DefaultKind()
	}
	templatePath := desc.TemplateFor(kind)
	if templatePath == "" {
		return "", generr.New(generr.TemplateNotFound, "preview", "",
			fmt.Sprintf("模板 %s 未提供 %s 类别的模板文件", desc.ID, kind))
	}

	resolved, err := g.resolver.Resolve(templatePath)
	if err != nil {
		return "", err
	}

	lines := strings.Split(resolved.Text, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = append(lines[:maxLines], "...")
	}
	return strings.Join(lines, "\n"), nil
}

// checkXML 模板可信，格式问题只记录警告
func (g *Generator) checkXML(name, text string) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(text); err != nil {
		g.logger.Warnf("⚠️ %s 不是格式良好的 XML: %v", name, err)
	}
}
