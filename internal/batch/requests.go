package batch

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/go-viper/mapstructure/v2"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/bbq191/egovgen/internal/generr"
	"github.com/bbq191/egovgen/internal/service"
)

// LoadRequests 读取批量请求文件（YAML 或 JSON），顶层为请求列表或带 requests 键的映射
func LoadRequests(fs afero.Fs, path string) ([]service.Request, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, generr.Wrapf(generr.IoError, "batch", path, err, "读取请求文件失败")
	}

	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, generr.Wrapf(generr.InvalidRequest, "batch", path, err, "解析请求文件失败")
	}
	if m, ok := raw.(map[string]interface{}); ok {
		raw = m["requests"]
	}
	if _, ok := raw.([]interface{}); !ok {
		return nil, generr.New(generr.InvalidRequest, "batch", path, "请求文件应为请求列表或包含 requests 列表")
	}

	var requests []service.Request
	if err := mapstructure.Decode(raw, &requests); err != nil {
		return nil, generr.Wrapf(generr.InvalidRequest, "batch", path, err, "请求格式无效")
	}
	return requests, nil
}

// PrintSummaryTable 打印总结表格
func PrintSummaryTable(w io.Writer, summary *Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "模板", "状态", "输出", "耗时(秒)"})

	for _, item := range summary.Items {
		status, output := color.GreenString("✅ 成功"), ""
		switch {
		case item.Skipped:
			status = color.BlueString("⏭️ 跳过")
		case item.Err != nil:
			status = color.RedString("❌ %s", generr.KindOf(item.Err))
			output = truncateString(item.Err.Error(), 60)
		default:
			output = item.Result.OutputPath
		}
		t.AppendRow(table.Row{item.Index + 1, item.Request.TemplateID, status, output,
			fmt.Sprintf("%.2f", item.Duration.Seconds())})
	}

	t.AppendFooter(table.Row{"", "", fmt.Sprintf("成功 %d / 失败 %d / 跳过 %d",
		summary.Successful, summary.Failed, summary.Skipped), "", fmt.Sprintf("%.2f", summary.Duration.Seconds())})
	t.Render()
}

// truncateString 截断字符串到指定长度
func truncateString(s string, maxLen int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= maxLen {
		return string(r)
	}
	return string(r[:maxLen-3]) + "..."
}
