package template

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/sirupsen/logrus"

	"github.com/bbq191/egovgen/internal/generr"
)

// Engine 模板引擎，负责展平后模板的解析和渲染
type Engine struct {
	funcMap template.FuncMap // 全局模板函数映射
	logger  *logrus.Logger   // 日志记录器
}

// NewEngine 创建新的模板引擎实例
func NewEngine(logger *logrus.Logger) *Engine {
	return &Engine{
		funcMap: createFuncMap(),
		logger:  logger,
	}
}

// createFuncMap 创建全局模板函数映射表
func createFuncMap() template.FuncMap {
	funcMap := sprig.TxtFuncMap() // 加载 Sprig 标准函数库

	funcMap["packagePath"] = packagePath // 包名转目录
	funcMap["xmlEscape"] = xmlEscape     // 显式 XML 转义

	return funcMap
}

// Parse 解析模板文本，不执行
func (e *Engine) Parse(name, text string) (*template.Template, error) {
	tmpl, err := template.New(name).
		Funcs(e.funcMap).
		Option("missingkey=default").
		Parse(text)
	if err != nil {
		return nil, generr.Wrapf(generr.TemplateSyntaxError, "parse", name, err, "模板语法错误")
	}
	return tmpl, nil
}

// Render 使用字段值渲染模板，失败时不产生任何输出
func (e *Engine) Render(name, text string, fields FieldValues) (string, error) {
	tmpl, err := e.Parse(name, collapseBlankLines(text))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, withMissingFields(tmpl, fields)); err != nil {
		return "", generr.Wrapf(generr.TemplateSyntaxError, "render", name, err, "模板执行失败")
	}
	out := buf.String()

	e.logger.Debugf("模板渲染完成: %s (%d 字节)", name, len(out))
	return out, nil
}

// packagePath 将 Java 包名转换为目录路径，如 org.egovframe -> org/egovframe
func packagePath(pkg string) string {
	return strings.ReplaceAll(strings.TrimSpace(pkg), ".", "/")
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// xmlEscape 渲染默认不转义，模板作者需要时显式调用
func xmlEscape(s string) string {
	return xmlReplacer.Replace(s)
}

// collapseBlankLines 清理模板文本中的连续空行，最多保留一个
//
// 只作用于执行前的模板文本，字段值原样输出，也保留文件末尾的换行。
func collapseBlankLines(content string) string {
	if content == "" {
		return content
	}

	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))
	consecutiveEmpty := 0

	for i, line := range lines {
		if strings.TrimSpace(line) == "" && i != len(lines)-1 {
			consecutiveEmpty++
			if consecutiveEmpty > 1 {
				continue
			}
			result = append(result, "")
			continue
		}
		consecutiveEmpty = 0
		result = append(result, line)
	}

	return strings.Join(result, "\n")
}
