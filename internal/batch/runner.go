package batch

import (
	"context"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/bbq191/egovgen/internal/service"
)

// Runner 并行执行生成请求，单个请求失败不影响其它请求
type Runner struct {
	executor Executor
	logger   *logrus.Logger
	opts     Options
	out      io.Writer
}

// NewRunner 创建批量执行器
func NewRunner(executor Executor, opts Options, logger *logrus.Logger) *Runner {
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = runtime.NumCPU()
	}
	return &Runner{
		executor: executor,
		logger:   logger,
		opts:     opts,
		out:      os.Stdout,
	}
}

// SetOutput 设置进度条与总结表的输出位置
func (r *Runner) SetOutput(w io.Writer) {
	r.out = w
}

// Run 执行全部请求。ctx 取消后尚未开始的请求被跳过，已开始的请求照常完成
func (r *Runner) Run(ctx context.Context, requests []service.Request) *Summary {
	start := time.Now()
	r.logger.Infof("启动批量生成：%d 个工作协程，%d 个请求", r.opts.MaxWorkers, len(requests))

	progress := NewProgressManager(len(requests), r.out, r.opts.Quiet)
	progress.Start()

	items := make([]*Item, len(requests))

	var g errgroup.Group
	g.SetLimit(r.opts.MaxWorkers)
	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			items[i] = r.runOne(ctx, i, req, progress)
			return nil
		})
	}
	_ = g.Wait()

	r.logger.Debugf("已处理 %d/%d 个请求", progress.Completed(), len(requests))
	progress.Close()

	summary := &Summary{Items: items, Duration: time.Since(start)}
	for _, item := range items {
		switch {
		case item.Success():
			summary.Successful++
		case item.Skipped:
			summary.Skipped++
		default:
			summary.Failed++
		}
	}

	r.logger.Infof("批量生成完成 - 成功: %d, 失败: %d, 跳过: %d", summary.Successful, summary.Failed, summary.Skipped)
	return summary
}

// runOne 执行单个请求并更新进度
func (r *Runner) runOne(ctx context.Context, index int, req service.Request, progress *ProgressManager) *Item {
	item := &Item{Index: index, Request: req}

	if err := ctx.Err(); err != nil {
		item.Skipped = true
		item.Err = err
		progress.SendEvent(ProgressEvent{Type: ProgressSkip, Label: req.TemplateID})
		return item
	}

	progress.SendEvent(ProgressEvent{Type: ProgressStart, Label: req.TemplateID})
	started := time.Now()
	item.Result, item.Err = r.executor.Execute(req)
	item.Duration = time.Since(started)

	if item.Err != nil {
		r.logger.Errorf("请求 #%d (%s) 失败: %v", index, req.TemplateID, item.Err)
		progress.SendEvent(ProgressEvent{Type: ProgressFail, Label: req.TemplateID, Error: item.Err})
	} else {
		progress.SendEvent(ProgressEvent{Type: ProgressSuccess, Label: req.TemplateID, Message: item.Result.OutputPath})
	}
	return item
}
