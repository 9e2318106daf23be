// Package service 实现生成请求的入口：校验请求、查找模板并分派到单文件或项目生成
package service

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/bbq191/egovgen/internal/catalog"
	"github.com/bbq191/egovgen/internal/generr"
	"github.com/bbq191/egovgen/internal/project"
	"github.com/bbq191/egovgen/internal/template"
)

// Request 一次生成请求
type Request struct {
	TemplateID      string               `yaml:"templateId" json:"templateId" mapstructure:"templateId" validate:"required"`
	Fields          template.FieldValues `yaml:"fieldValues" json:"fieldValues" mapstructure:"fieldValues"`
	TargetDirectory string               `yaml:"targetDirectory" json:"targetDirectory" mapstructure:"targetDirectory" validate:"required"`
	ArtifactKind    catalog.ArtifactKind `yaml:"artifactKind" json:"artifactKind" mapstructure:"artifactKind" validate:"omitempty,oneof=xml javaConfig buildDescriptor"`
}

// Result 生成成功的结果
type Result struct {
	RequestID  string               // 请求标识，与日志中的 request 字段一致
	OutputPath string               // 写入的产物路径
	Kind       catalog.ArtifactKind // 实际生成的产物类别
	ProjectDir string               // 项目生成时的项目目录
}

// Service 生成服务，多个请求可以并发执行
type Service struct {
	store        *catalog.Store
	generator    *template.Generator
	materializer *project.Materializer
	validator    *validator.Validate
	logger       *logrus.Logger
}

// New 创建生成服务
func New(store *catalog.Store, logger *logrus.Logger) *Service {
	return &Service{
		store:        store,
		generator:    template.NewGenerator(afero.NewOsFs(), logger),
		materializer: project.NewMaterializer(logger),
		validator:    validator.New(),
		logger:       logger,
	}
}

// SetProjectObserver 设置项目生成的步骤回调
func (s *Service) SetProjectObserver(observer project.Observer) {
	s.materializer.SetObserver(observer)
}

// Catalog 返回当前模板目录
func (s *Service) Catalog() (*catalog.Catalog, error) {
	return s.store.Get()
}

// CatalogPath 模板目录文件路径
func (s *Service) CatalogPath() string {
	return s.store.Path()
}

// Generator 返回单文件生成器，供校验与预览使用
func (s *Service) Generator() *template.Generator {
	return s.generator
}

// Execute 执行一次生成请求
func (s *Service) Execute(req Request) (*Result, error) {
	id := uuid.New().String()
	log := s.logger.WithFields(logrus.Fields{"request": id, "template": req.TemplateID})

	if err := s.validator.Struct(req); err != nil {
		log.Warnf("请求校验失败: %v", err)
		return nil, generr.Wrapf(generr.InvalidRequest, "request", "", formatValidationError(err), "请求参数无效")
	}

	cat, err := s.store.Get()
	if err != nil {
		return nil, err
	}
	desc, err := cat.FindByID(req.TemplateID)
	if err != nil {
		log.Warn("模板不存在")
		return nil, err
	}

	fields, err := ApplyFieldDefaults(desc, req.Fields)
	if err != nil {
		log.Warnf("表单字段不完整: %v", err)
		return nil, err
	}

	kind := req.ArtifactKind
	if kind == "" {
		kind = desc.DefaultKind()
	}
	log = log.WithField("kind", kind)
	log.Infof("🚀 开始生成: %s → %s", desc.DisplayName, req.TargetDirectory)

	if desc.IsProject() && kind == catalog.KindBuildDescriptor {
		res, err := s.materializer.Materialize(desc, fields, req.TargetDirectory)
		if err != nil {
			log.Errorf("❌ 项目生成失败: %v", err)
			return nil, err
		}
		return &Result{
			RequestID:  id,
			OutputPath: res.Descriptor.Path,
			Kind:       kind,
			ProjectDir: res.ProjectDir,
		}, nil
	}

	artifact, err := s.generator.Generate(desc, kind, fields, req.TargetDirectory)
	if err != nil {
		log.Errorf("❌ 生成失败: %v", err)
		return nil, err
	}
	return &Result{RequestID: id, OutputPath: artifact.Path, Kind: kind}, nil
}

// ApplyFieldDefaults 用模板声明的默认值补齐缺失字段，并检查必填字段
func ApplyFieldDefaults(desc catalog.TemplateDescriptor, fields template.FieldValues) (template.FieldValues, error) {
	out := make(template.FieldValues, len(fields)+len(desc.Fields))
	for k, v := range fields {
		out[k] = v
	}

	var missing []string
	for _, f := range desc.Fields {
		if v, ok := out[f.Name]; ok && !isBlank(v) {
			continue
		}
		if f.Default != "" {
			out[f.Name] = f.Default
			continue
		}
		if f.Required {
			missing = append(missing, f.Name)
		}
	}

	if len(missing) > 0 {
		return nil, generr.New(generr.InvalidRequest, "request", "",
			fmt.Sprintf("模板 %s 缺少必填字段: %s", desc.ID, strings.Join(missing, ", ")))
	}
	return out, nil
}

// isBlank 未填写的表单值：nil 或空白字符串
func isBlank(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

// formatValidationError 格式化校验错误
func formatValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var messages []string
	for _, fieldErr := range validationErrors {
		switch fieldErr.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("字段 %s 是必需的", fieldErr.Field()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("字段 %s 必须是以下值之一: %s", fieldErr.Field(), fieldErr.Param()))
		default:
			messages = append(messages, fmt.Sprintf("字段 %s 验证失败: %s", fieldErr.Field(), fieldErr.Tag()))
		}
	}
	return fmt.Errorf("%s", strings.Join(messages, "; "))
}
