// Package batch 并发执行多个互不相关的生成请求
package batch

import (
	"time"

	"github.com/bbq191/egovgen/internal/service"
)

// Executor 执行单个生成请求
type Executor interface {
	Execute(req service.Request) (*service.Result, error)
}

// Item 单个请求的执行结果
type Item struct {
	Index    int             // 请求在输入中的序号
	Request  service.Request // 原始请求
	Result   *service.Result // 成功时的结果
	Err      error           // 失败原因
	Skipped  bool            // 批次中断时未开始执行
	Duration time.Duration   // 执行耗时
}

// Success 请求是否成功
func (i *Item) Success() bool {
	return i.Err == nil && !i.Skipped
}

// Summary 批量执行总结，Items 与输入顺序一致
type Summary struct {
	Items      []*Item
	Successful int
	Failed     int
	Skipped    int
	Duration   time.Duration
}

// Options 批量执行选项
type Options struct {
	MaxWorkers int  // 最大并发数，0 表示按 CPU 核心数
	Quiet      bool // 不显示进度条
}
