package catalog

import (
	"fmt"

	"github.com/bbq191/egovgen/internal/generr"
)

// Catalog 只读的模板目录，加载完成后不再修改
type Catalog struct {
	source  string
	entries []TemplateDescriptor
	byID    map[string]int
	skipped []SkippedEntry
}

// New 基于已校验的描述列表构建目录，id 重复时保留第一个
func New(entries []TemplateDescriptor) *Catalog {
	c := &Catalog{byID: make(map[string]int, len(entries))}
	for i, d := range entries {
		if _, exists := c.byID[d.ID]; exists {
			c.skipped = append(c.skipped, SkippedEntry{Index: i, ID: d.ID, Reason: "id 重复"})
			continue
		}
		c.byID[d.ID] = len(c.entries)
		c.entries = append(c.entries, d)
	}
	return c
}

// List 按文件中的顺序返回全部模板描述
func (c *Catalog) List() []TemplateDescriptor {
	out := make([]TemplateDescriptor, len(c.entries))
	copy(out, c.entries)
	return out
}

// FindByID 按 id 查找模板描述
func (c *Catalog) FindByID(id string) (TemplateDescriptor, error) {
	idx, ok := c.byID[id]
	if !ok {
		return TemplateDescriptor{}, generr.New(generr.TemplateNotFound, "lookup", "",
			fmt.Sprintf("模板 %q 不存在于目录中", id))
	}
	return c.entries[idx], nil
}

// Len 目录中有效模板数量
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Skipped 返回加载时被跳过的条目
func (c *Catalog) Skipped() []SkippedEntry {
	out := make([]SkippedEntry, len(c.skipped))
	copy(out, c.skipped)
	return out
}

// Source 目录文件路径，程序化构建时为空
func (c *Catalog) Source() string {
	return c.source
}
