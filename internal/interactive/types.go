// Package interactive 在终端中代替表单界面：选择模板并逐项填写字段
package interactive

import (
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
)

// EnvInteractive 控制交互模式的环境变量，设为 false 或 0 时禁用
const EnvInteractive = "EGOVGEN_INTERACTIVE"

// Prompter 终端提问接口
type Prompter interface {
	Select(message string, options []string, def string) (string, error)
	Input(message, def string, required bool) (string, error)
	Confirm(message string, def bool) (bool, error)
}

// SurveyPrompter 基于 survey 的提问实现
type SurveyPrompter struct {
	opts []survey.AskOpt
}

// NewSurveyPrompter 创建 survey 提问器
func NewSurveyPrompter(opts ...survey.AskOpt) *SurveyPrompter {
	return &SurveyPrompter{opts: opts}
}

// Select 单选
func (p *SurveyPrompter) Select(message string, options []string, def string) (string, error) {
	prompt := &survey.Select{
		Message: message,
		Options: options,
	}
	if def != "" {
		prompt.Default = def
	}

	var selection string
	if err := survey.AskOne(prompt, &selection, p.opts...); err != nil {
		return "", err
	}
	return selection, nil
}

// Input 文本输入
func (p *SurveyPrompter) Input(message, def string, required bool) (string, error) {
	prompt := &survey.Input{
		Message: message,
		Default: def,
	}

	opts := p.opts
	if required {
		opts = append(append([]survey.AskOpt{}, opts...), survey.WithValidator(survey.Required))
	}

	var value string
	if err := survey.AskOne(prompt, &value, opts...); err != nil {
		return "", err
	}
	return value, nil
}

// Confirm 确认
func (p *SurveyPrompter) Confirm(message string, def bool) (bool, error) {
	var ok bool
	if err := survey.AskOne(&survey.Confirm{Message: message, Default: def}, &ok, p.opts...); err != nil {
		return false, err
	}
	return ok, nil
}

// IsEnabled 检查是否启用交互功能，configured 为配置中的 interactive 开关
func IsEnabled(configured bool) bool {
	return configured && DisabledReason() == ""
}

// DisabledReason 返回交互功能被禁用的原因，可用时返回空串
func DisabledReason() string {
	if v := os.Getenv(EnvInteractive); v != "" {
		if strings.EqualFold(v, "false") || v == "0" {
			return "环境变量 " + EnvInteractive + " 被设置为禁用"
		}
	}

	if !isTerminal(os.Stdin) {
		return "标准输入不是终端设备，请在真正的终端中运行此命令"
	}
	if !isTerminal(os.Stdout) {
		return "标准输出不是终端设备，当前环境不支持交互模式"
	}
	return ""
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
