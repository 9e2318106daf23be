// Package template 提供模板解析与生成流水线：include 展开、渲染、输出命名和写入
package template

import (
	"github.com/bbq191/egovgen/internal/catalog"
)

// FieldValues 表单提交的字段值，不做 schema 约束
type FieldValues map[string]interface{}

// Restrict 只保留指定字段，返回新的映射
func (f FieldValues) Restrict(keys []string) FieldValues {
	out := make(FieldValues, len(keys))
	for _, k := range keys {
		if v, ok := f[k]; ok {
			out[k] = v
		}
	}
	return out
}

// ResolvedTemplate 展开全部 include 后的模板文本，仅在一次生成内有效
type ResolvedTemplate struct {
	Root    string   // 根模板路径
	Text    string   // 展平后的模板文本
	Sources []string // 参与拼装的文件，按首次读取顺序
}

// Artifact 一次生成得到的产物
type Artifact struct {
	Kind     catalog.ArtifactKind // 产物类别
	FileName string               // 输出文件名
	Path     string               // 写入路径，未写入时为空
	Text     string               // 渲染结果
	Sources  []string             // 使用到的模板文件
}
