// Package generr 定义生成流程中统一的错误分类
package generr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind 错误类别，对应宿主侧展示的失败标签
type Kind string

const (
	TemplateNotFound    Kind = "TemplateNotFound"    // 模板描述或模板文件不存在
	IncludeNotFound     Kind = "IncludeNotFound"     // include 指令指向的片段不存在
	CircularInclude     Kind = "CircularInclude"     // include 链出现环
	TemplateSyntaxError Kind = "TemplateSyntaxError" // 模板语法错误或执行失败
	InvalidOutputName   Kind = "InvalidOutputName"   // 输出文件名包含路径分隔符
	TargetExists        Kind = "TargetExists"        // 目标路径与现有文件冲突
	InvalidRequest      Kind = "InvalidRequest"      // 生成请求字段校验失败
	IoError             Kind = "IoError"             // 底层文件系统错误
)

// Error 携带类别信息的生成错误
type Error struct {
	Kind Kind   // 错误类别
	Op   string // 出错的操作，如 resolve、render、write
	Path string // 相关文件路径
	Msg  string // 可读描述
	Err  error  // 底层错误

	Step    string // 项目生成时失败的步骤
	Partial bool   // 目标目录是否残留了部分内容
}

// Error 实现 error 接口
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Step != "" {
		fmt.Fprintf(&b, " [%s]", e.Step)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Path != "" && !strings.Contains(e.Msg, e.Path) {
		fmt.Fprintf(&b, " (%s)", e.Path)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Partial {
		b.WriteString("；目标目录已保留部分生成内容，未执行回滚")
	}
	return b.String()
}

// Unwrap 返回底层错误
func (e *Error) Unwrap() error {
	return e.Err
}

// New 创建指定类别的错误
func New(kind Kind, op, path, msg string) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Msg: msg}
}

// Wrap 用指定类别包装底层错误，err 为 nil 时返回 nil
func Wrap(kind Kind, op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// Wrapf 包装底层错误并附加描述
func Wrapf(kind Kind, op, path string, err error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err, Msg: fmt.Sprintf(format, args...)}
}

// KindOf 返回错误链中第一个 *Error 的类别，找不到时视为 IoError
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return IoError
}

// Is 判断错误链中是否包含指定类别
func Is(err error, kind Kind) bool {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind == kind
	}
	return false
}
