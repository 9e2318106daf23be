package batch

import (
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// ProgressEventType 进度事件类型枚举
type ProgressEventType int

const (
	ProgressStart   ProgressEventType = iota // 开始生成
	ProgressSuccess                          // 生成成功
	ProgressFail                             // 生成失败
	ProgressSkip                             // 跳过
)

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type    ProgressEventType
	Label   string
	Message string
	Error   error
}

// ProgressManager 进度管理器，事件可能来自多个工作协程
type ProgressManager struct {
	mu          sync.Mutex
	out         io.Writer
	progressBar *progressbar.ProgressBar
	total       int
	completed   int
	started     bool
}

// NewProgressManager 创建进度管理器，quiet 时只计数不输出
func NewProgressManager(total int, out io.Writer, quiet bool) *ProgressManager {
	pm := &ProgressManager{out: out, total: total}

	if !quiet {
		pm.progressBar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription("📄 生成进度"),
			progressbar.OptionSetWidth(50),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "█",
				SaucerPadding: "░",
				BarStart:      "▐",
				BarEnd:        "▌",
			}),
			progressbar.OptionShowCount(),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintf(out, "\n✨ 生成完成！\n\n")
			}),
			progressbar.OptionFullWidth(),
			progressbar.OptionSetRenderBlankState(true),
		)
	}
	return pm
}

// Start 启动进度显示
func (pm *ProgressManager) Start() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.started = true
	if pm.progressBar != nil {
		fmt.Fprintf(pm.out, "🚀 准备生成 %d 个产物...\n\n", pm.total)
	}
}

// SendEvent 处理一个进度事件
func (pm *ProgressManager) SendEvent(event ProgressEvent) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if !pm.started {
		return
	}

	switch event.Type {
	case ProgressStart:
		pm.printStatus("🔄", event.Label, "生成中")
		return
	case ProgressSuccess:
		pm.printStatus("✅", event.Label, event.Message)
	case ProgressFail:
		pm.printStatus("❌", event.Label, fmt.Sprint(event.Error))
	case ProgressSkip:
		pm.printStatus("⏭️", event.Label, "已跳过")
	}

	pm.completed++
	if pm.progressBar != nil {
		_ = pm.progressBar.Add(1)
		pm.progressBar.Describe(fmt.Sprintf("📄 生成进度 (%d/%d)", pm.completed, pm.total))
	}
}

// Completed 已结束的请求数
func (pm *ProgressManager) Completed() int {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.completed
}

// Close 结束进度显示
func (pm *ProgressManager) Close() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.started = false
	if pm.progressBar != nil {
		_ = pm.progressBar.Finish()
	}
}

func (pm *ProgressManager) printStatus(icon, label, status string) {
	if pm.progressBar != nil {
		fmt.Fprintf(pm.out, "\r%s %s (%s)    \n", icon, label, status)
	}
}
