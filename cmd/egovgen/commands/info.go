package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bbq191/egovgen/internal/interactive"
	"github.com/bbq191/egovgen/internal/xdg"
)

var infoEnsureDirs bool

// infoCmd 显示运行环境信息命令
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "显示配置和目录信息",
	Long: `显示当前生效的配置，包括：

• 使用的配置文件
• 模板目录位置及模板数量
• XDG 基础目录状态
• 交互模式是否可用

该命令主要用于诊断和了解当前运行环境。`,
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolVar(&infoEnsureDirs, "ensure-dirs", false, "创建缺失的 XDG 目录")
}

func runInfo(cmd *cobra.Command, args []string) error {
	logger := GetLogger()
	out := cmd.OutOrStdout()

	manager := xdg.NewManager(logger)
	if infoEnsureDirs {
		if err := manager.EnsureDirectories(); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "=== 配置 ===")
	configFile := appConfig.ConfigFile
	if configFile == "" {
		configFile = "(未找到，使用默认值)"
	}
	fmt.Fprintf(out, "配置文件: %s\n", configFile)
	fmt.Fprintf(out, "输出目录: %s\n", appConfig.OutputDir)
	fmt.Fprintf(out, "并发数: %d\n", appConfig.MaxWorkers)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "=== 模板目录 ===")
	svc := newService()
	fmt.Fprintf(out, "路径: %s\n", svc.CatalogPath())
	if cat, err := svc.Catalog(); err != nil {
		fmt.Fprintf(out, "状态: ❌ %v\n", err)
	} else {
		fmt.Fprintf(out, "模板: %d 个, 跳过的条目: %d 个\n", cat.Len(), len(cat.Skipped()))
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "=== 基础目录 ===")
	for _, s := range manager.Status() {
		state := "不存在"
		if s.Exists {
			state = "存在"
			if !s.Writable {
				state += " (只读)"
			}
		}
		fmt.Fprintf(out, "%-7s %s [%s]\n", s.Type.String()+":", s.Path, state)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "=== 交互模式 ===")
	if reason := interactive.DisabledReason(); reason != "" || !appConfig.Interactive {
		if reason == "" {
			reason = "配置中 interactive 为 false"
		}
		fmt.Fprintf(out, "不可用: %s\n", reason)
	} else {
		fmt.Fprintln(out, "可用")
	}
	return nil
}
