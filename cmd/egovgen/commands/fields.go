package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bbq191/egovgen/internal/catalog"
	"github.com/bbq191/egovgen/internal/interactive"
	"github.com/bbq191/egovgen/internal/service"
	"github.com/bbq191/egovgen/internal/template"
)

// fieldFlags 生成类命令共用的字段参数
type fieldFlags struct {
	sets        []string
	valuesFile  string
	interactive bool
}

func (f *fieldFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.sets, "set", nil, "设置字段值 key=value，可重复")
	cmd.Flags().StringVar(&f.valuesFile, "values", "", "字段值文件 (YAML/JSON)")
	cmd.Flags().BoolVarP(&f.interactive, "interactive", "i", false, "交互式填写缺失字段")
}

// collect 合并字段值文件和 --set 参数，后者优先
func (f *fieldFlags) collect() (template.FieldValues, error) {
	values := template.FieldValues{}

	if f.valuesFile != "" {
		data, err := afero.ReadFile(afero.NewOsFs(), f.valuesFile)
		if err != nil {
			return nil, fmt.Errorf("读取字段值文件失败: %w", err)
		}
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("解析字段值文件失败: %w", err)
		}
	}

	for _, set := range f.sets {
		key, value, ok := strings.Cut(set, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("无效的 --set 参数: %q，应为 key=value", set)
		}
		values[strings.TrimSpace(key)] = value
	}
	return values, nil
}

// wantInteractive 是否进入交互模式
func (f *fieldFlags) wantInteractive() bool {
	if f.interactive {
		if reason := interactive.DisabledReason(); reason != "" {
			rootLogger.Warnf("⚠️ 无法进入交互模式: %s", reason)
			return false
		}
		return true
	}
	return false
}

// resolveTemplate 确定模板与字段值：命令行给出 id 时直接查找，否则在交互模式下选择
func resolveTemplate(svc *service.Service, args []string, flags *fieldFlags, projectsOnly bool) (catalog.TemplateDescriptor, template.FieldValues, error) {
	var desc catalog.TemplateDescriptor

	fields, err := flags.collect()
	if err != nil {
		return desc, nil, err
	}

	cat, err := svc.Catalog()
	if err != nil {
		return desc, nil, err
	}

	ask := flags.wantInteractive() || (len(args) == 0 && interactive.IsEnabled(appConfig.Interactive))
	form := interactive.NewForm(interactive.NewSurveyPrompter(), rootLogger)

	switch {
	case len(args) > 0:
		desc, err = cat.FindByID(args[0])
	case ask:
		desc, err = form.PickTemplate(cat, projectsOnly)
	default:
		return desc, nil, fmt.Errorf("未指定模板 id，且当前环境不支持交互选择")
	}
	if err != nil {
		return desc, nil, err
	}

	if ask {
		fields, err = form.FillFields(desc, fields)
		if err != nil {
			return desc, nil, err
		}
	}
	return desc, fields, nil
}
