// Package project 负责完整项目生成：展开骨架并覆盖渲染后的构建描述
package project

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/codeclysm/extract/v3"
	"github.com/otiai10/copy"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/bbq191/egovgen/internal/catalog"
	"github.com/bbq191/egovgen/internal/generr"
	"github.com/bbq191/egovgen/internal/template"
)

// Step 项目生成的步骤
type Step string

const (
	StepPrepare Step = "prepare" // 创建目标目录
	StepExtract Step = "extract" // 展开骨架
	StepOverlay Step = "overlay" // 渲染并写入构建描述
)

// Steps 按执行顺序排列的全部步骤
var Steps = []Step{StepPrepare, StepExtract, StepOverlay}

const defaultPermissions = os.FileMode(0755)

// Observer 步骤开始时的回调，用于进度显示
type Observer func(step Step)

// Result 项目生成结果
type Result struct {
	ProjectDir string             // 项目目录
	Descriptor *template.Artifact // 写入的构建描述
	Entries    int                // 骨架中的条目数
}

// Materializer 项目生成器
type Materializer struct {
	fs        afero.Fs
	generator *template.Generator
	logger    *logrus.Logger
	observer  Observer
}

// NewMaterializer 创建项目生成器，骨架展开和复制总是作用于本地文件系统
func NewMaterializer(logger *logrus.Logger) *Materializer {
	fs := afero.NewOsFs()
	return &Materializer{
		fs:        fs,
		generator: template.NewGenerator(fs, logger),
		logger:    logger,
	}
}

// SetObserver 设置步骤回调
func (m *Materializer) SetObserver(observer Observer) {
	m.observer = observer
}

// Materialize 在 targetDir 中生成完整项目
func (m *Materializer) Materialize(desc catalog.TemplateDescriptor, fields template.FieldValues, targetDir string) (*Result, error) {
	if !desc.IsProject() {
		return nil, generr.New(generr.InvalidRequest, "materialize", "", fmt.Sprintf("模板 %s 不是项目模板", desc.ID))
	}

	m.notify(StepPrepare)
	if err := m.prepareTarget(targetDir); err != nil {
		return nil, err
	}

	m.notify(StepExtract)
	skeleton, cleanup, err := m.stageSkeleton(desc.Archive)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	entries, err := m.checkConflicts(skeleton, targetDir)
	if err != nil {
		return nil, err
	}

	m.logger.Debugf("复制骨架 %s → %s (%d 个条目)", skeleton, targetDir, entries)
	opts := copy.Options{
		OnDirExists: func(src, dest string) copy.DirExistsAction {
			return copy.Merge
		},
	}
	if err := copy.Copy(skeleton, targetDir, opts); err != nil {
		return nil, stepError(StepExtract, generr.IoError, targetDir, err, "骨架复制失败", true)
	}

	m.notify(StepOverlay)
	artifact, err := m.generator.Render(desc, catalog.KindBuildDescriptor, fields.Restrict(desc.Overlay()))
	if err != nil {
		return nil, stepError(StepOverlay, generr.KindOf(err), targetDir, err, "构建描述渲染失败", true)
	}
	if err := m.generator.WriteArtifact(artifact, targetDir); err != nil {
		return nil, stepError(StepOverlay, generr.IoError, targetDir, err, "构建描述写入失败", true)
	}

	m.logger.Infof("✅ 项目 %s 生成完成: %s", desc.ID, targetDir)
	return &Result{ProjectDir: targetDir, Descriptor: artifact, Entries: entries}, nil
}

// prepareTarget 创建目标目录，已存在的目录直接复用
func (m *Materializer) prepareTarget(targetDir string) error {
	info, err := m.fs.Stat(targetDir)
	switch {
	case err == nil && !info.IsDir():
		return stepError(StepPrepare, generr.TargetExists, targetDir, nil, "目标路径已存在且不是目录", false)
	case err == nil:
		m.logger.Debugf("目标目录已存在: %s", targetDir)
		return nil
	case !errors.Is(err, fs.ErrNotExist):
		return stepError(StepPrepare, generr.IoError, targetDir, err, "无法访问目标路径", false)
	}

	if err := m.fs.MkdirAll(targetDir, defaultPermissions); err != nil {
		return stepError(StepPrepare, generr.IoError, targetDir, err, "创建目标目录失败", false)
	}
	return nil
}

// stageSkeleton 返回骨架目录；压缩包会先展开到临时目录
func (m *Materializer) stageSkeleton(source string) (string, func(), error) {
	noop := func() {}

	info, err := m.fs.Stat(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", noop, stepError(StepExtract, generr.TemplateNotFound, source, err, "项目骨架不存在", false)
		}
		return "", noop, stepError(StepExtract, generr.IoError, source, err, "无法访问项目骨架", false)
	}
	if info.IsDir() {
		return source, noop, nil
	}

	archive, err := m.fs.Open(source)
	if err != nil {
		return "", noop, stepError(StepExtract, generr.IoError, source, err, "打开骨架压缩包失败", false)
	}
	defer archive.Close()

	staging, err := afero.TempDir(m.fs, "", "egovgen-skeleton-")
	if err != nil {
		return "", noop, stepError(StepExtract, generr.IoError, source, err, "创建临时目录失败", false)
	}
	cleanup := func() {
		if err := m.fs.RemoveAll(staging); err != nil {
			m.logger.Warnf("⚠️ 清理临时目录失败 %s: %v", staging, err)
		}
	}

	// 生成请求不支持取消，展开过程不设超时
	if err := extract.Archive(context.Background(), archive, staging, func(s string) string { return s }); err != nil {
		cleanup()
		return "", noop, stepError(StepExtract, generr.IoError, source, err, "骨架压缩包展开失败", false)
	}

	m.logger.Debugf("骨架已展开到临时目录: %s", staging)
	return staging, cleanup, nil
}

// checkConflicts 检查骨架条目与目标目录中已有内容的冲突，返回骨架条目数
func (m *Materializer) checkConflicts(skeleton, targetDir string) (int, error) {
	entries := 0
	err := afero.Walk(m.fs, skeleton, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(skeleton, path)
		if err != nil || rel == "." {
			return err
		}
		entries++

		dest := filepath.Join(targetDir, rel)
		existing, err := m.fs.Stat(dest)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if info.IsDir() && existing.IsDir() {
			return nil
		}
		return generr.New(generr.TargetExists, "materialize", dest, fmt.Sprintf("目标中已存在 %s", rel))
	})
	if err == nil {
		return entries, nil
	}

	var ge *generr.Error
	if errors.As(err, &ge) {
		ge.Step = string(StepExtract)
		return 0, ge
	}
	return 0, stepError(StepExtract, generr.IoError, targetDir, err, "检查目标目录失败", false)
}

func (m *Materializer) notify(step Step) {
	m.logger.Debugf("项目生成步骤: %s", step)
	if m.observer != nil {
		m.observer(step)
	}
}

// stepError 构造带步骤信息的错误
func stepError(step Step, kind generr.Kind, path string, err error, msg string, partial bool) error {
	return &generr.Error{
		Kind:    kind,
		Op:      "materialize",
		Path:    path,
		Msg:     msg,
		Err:     err,
		Step:    string(step),
		Partial: partial,
	}
}
