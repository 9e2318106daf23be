package interactive

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bbq191/egovgen/internal/catalog"
	"github.com/bbq191/egovgen/internal/generr"
	"github.com/bbq191/egovgen/internal/template"
)

// Form 终端表单
type Form struct {
	prompter Prompter
	logger   *logrus.Logger
}

// NewForm 创建终端表单
func NewForm(prompter Prompter, logger *logrus.Logger) *Form {
	return &Form{prompter: prompter, logger: logger}
}

// PickTemplate 按分类列出模板供选择，projectsOnly 时只列出项目模板
func (f *Form) PickTemplate(cat *catalog.Catalog, projectsOnly bool) (catalog.TemplateDescriptor, error) {
	var candidates []catalog.TemplateDescriptor
	for _, desc := range cat.List() {
		if projectsOnly && !desc.IsProject() {
			continue
		}
		candidates = append(candidates, desc)
	}
	if len(candidates) == 0 {
		return catalog.TemplateDescriptor{}, generr.New(generr.TemplateNotFound, "pick", cat.Source(), "模板目录中没有可用的模板")
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Category < candidates[j].Category
	})

	options := make([]string, len(candidates))
	byLabel := make(map[string]catalog.TemplateDescriptor, len(candidates))
	for i, desc := range candidates {
		options[i] = optionLabel(desc)
		byLabel[options[i]] = desc
	}

	selection, err := f.prompter.Select("请选择要生成的模板:", options, "")
	if err != nil {
		return catalog.TemplateDescriptor{}, err
	}

	desc, ok := byLabel[selection]
	if !ok {
		return catalog.TemplateDescriptor{}, generr.New(generr.TemplateNotFound, "pick", "", fmt.Sprintf("未知的选择: %s", selection))
	}
	f.logger.Debugf("已选择模板: %s", desc.ID)
	return desc, nil
}

// FillFields 逐项询问 preset 中尚未提供的字段
func (f *Form) FillFields(desc catalog.TemplateDescriptor, preset template.FieldValues) (template.FieldValues, error) {
	values := make(template.FieldValues, len(preset)+len(desc.Fields))
	for k, v := range preset {
		values[k] = v
	}

	for _, field := range desc.Fields {
		if v, ok := values[field.Name]; ok && !isBlank(v) {
			continue
		}

		message := field.Prompt
		if message == "" {
			message = field.Name
		}
		message += ":"

		var (
			answer string
			err    error
		)
		if len(field.Options) > 0 {
			def := ""
			for _, opt := range field.Options {
				if opt == field.Default {
					def = opt
				}
			}
			answer, err = f.prompter.Select(message, field.Options, def)
		} else {
			answer, err = f.prompter.Input(message, field.Default, field.Required)
		}
		if err != nil {
			return nil, fmt.Errorf("读取字段 %s 失败: %w", field.Name, err)
		}

		if answer != "" {
			values[field.Name] = answer
		}
	}
	return values, nil
}

// ConfirmTarget 确认输出位置
func (f *Form) ConfirmTarget(path string) (bool, error) {
	return f.prompter.Confirm(fmt.Sprintf("生成到 %s ?", path), true)
}

// isBlank nil 或空白字符串视为未填写
func isBlank(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

// optionLabel 模板在选择列表中的显示文本
func optionLabel(desc catalog.TemplateDescriptor) string {
	if desc.Category == "" {
		return fmt.Sprintf("%s (%s)", desc.DisplayName, desc.ID)
	}
	return fmt.Sprintf("[%s] %s (%s)", desc.Category, desc.DisplayName, desc.ID)
}
