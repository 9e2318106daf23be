package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/bbq191/egovgen/internal/generr"
)

// Loader 目录文件加载器
type Loader struct {
	fs        afero.Fs
	validator *validator.Validate
	logger    *logrus.Logger
}

// NewLoader 创建目录加载器
func NewLoader(fs afero.Fs, logger *logrus.Logger) *Loader {
	return &Loader{
		fs:        fs,
		validator: validator.New(),
		logger:    logger,
	}
}

// Load 读取并解析目录文件，单个条目不合法时跳过并记录警告
func (l *Loader) Load(path string) (*Catalog, error) {
	l.logger.Debugf("开始加载模板目录: %s", path)

	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, generr.Wrapf(generr.IoError, "catalog", path, err, "读取模板目录失败")
	}

	raw, err := decodeDocument(path, data)
	if err != nil {
		return nil, generr.Wrapf(generr.IoError, "catalog", path, err, "解析模板目录失败")
	}

	items, err := entryList(raw)
	if err != nil {
		return nil, generr.Wrapf(generr.IoError, "catalog", path, err, "模板目录结构无效")
	}

	baseDir := filepath.Dir(path)
	var (
		valid   []TemplateDescriptor
		skipped []SkippedEntry
	)
	for i, item := range items {
		desc, err := l.decodeEntry(item)
		if err != nil {
			entry := SkippedEntry{Index: i, ID: peekID(item), Reason: err.Error()}
			l.logger.Warnf("跳过无效模板条目 #%d (%s): %s", i, entry.ID, entry.Reason)
			skipped = append(skipped, entry)
			continue
		}
		valid = append(valid, absolutize(desc, baseDir))
	}

	c := New(valid)
	for _, dup := range c.skipped {
		l.logger.Warnf("跳过重复的模板 id: %s", dup.ID)
	}
	c.skipped = append(skipped, c.skipped...)
	c.source = path

	l.logger.Infof("模板目录加载完成: %d 个模板, %d 个条目被跳过", c.Len(), len(c.skipped))
	return c, nil
}

// decodeEntry 将单个条目解码为描述结构并校验
func (l *Loader) decodeEntry(item interface{}) (TemplateDescriptor, error) {
	var desc TemplateDescriptor

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &desc,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return desc, err
	}
	if err := decoder.Decode(item); err != nil {
		return desc, fmt.Errorf("解码失败: %w", err)
	}

	if err := l.validator.Struct(desc); err != nil {
		return desc, formatValidationError(err)
	}

	if desc.OutputNameField == "" && !desc.IsProject() {
		l.logger.Debugf("模板 %s 未配置 outputNameField，将使用默认文件名", desc.ID)
	}
	return desc, nil
}

// decodeDocument 按扩展名选择解析器，JSON 作为 YAML 的子集处理
func decodeDocument(path string, data []byte) (interface{}, error) {
	var raw interface{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case ".yaml", ".yml", ".json", "":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("不支持的目录文件格式: %s", filepath.Ext(path))
	}
	return raw, nil
}

// entryList 支持顶层列表或带 templates 键的映射
func entryList(raw interface{}) ([]interface{}, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []interface{}:
		return v, nil
	case map[string]interface{}:
		templates, ok := v["templates"]
		if !ok {
			return nil, fmt.Errorf("缺少 templates 键")
		}
		list, ok := templates.([]interface{})
		if !ok {
			return nil, fmt.Errorf("templates 必须是列表，实际为 %T", templates)
		}
		return list, nil
	default:
		return nil, fmt.Errorf("顶层必须是列表或映射，实际为 %T", raw)
	}
}

func peekID(item interface{}) string {
	if m, ok := item.(map[string]interface{}); ok {
		if id, ok := m["id"].(string); ok {
			return id
		}
	}
	return ""
}

// absolutize 将相对路径转换为相对目录文件所在目录的路径
func absolutize(d TemplateDescriptor, baseDir string) TemplateDescriptor {
	join := func(ref string) string {
		if ref == "" || filepath.IsAbs(ref) {
			return ref
		}
		return filepath.Join(baseDir, ref)
	}
	d.Template = join(d.Template)
	d.AltTemplate = join(d.AltTemplate)
	d.Archive = join(d.Archive)
	return d
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
		default:
			messages = append(messages, fmt.Sprintf("字段 %s 验证失败: %s", fieldErr.Field(), fieldErr.Tag()))
		}
	}
	return fmt.Errorf("%s", strings.Join(messages, "; "))
}
