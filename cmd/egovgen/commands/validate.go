package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// validateCmd 验证模板目录命令
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "验证模板目录和模板文件",
	Long: `检查模板目录和其中引用的全部模板文件。

验证项目:
  • 目录条目格式与必填字段
  • 模板 id 是否重复
  • include 引用是否存在、是否有环
  • 模板语法
  • 项目骨架是否存在

示例:
  egovgen validate
  egovgen validate --catalog ./templates/catalog.toml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	logger := GetLogger()
	out := cmd.OutOrStdout()

	logger.Info("开始模板目录验证流程")

	svc := newService()
	fmt.Fprintf(out, "模板目录: %s\n", svc.CatalogPath())
	cat, err := svc.Catalog()
	if err != nil {
		return fmt.Errorf("模板目录加载失败: %w", err)
	}

	problems := 0
	for _, skipped := range cat.Skipped() {
		problems++
		fmt.Fprintf(out, "%s 条目 #%d (%s): %s\n", color.YellowString("⚠️"), skipped.Index, skipped.ID, skipped.Reason)
	}

	for _, desc := range cat.List() {
		if err := svc.Generator().Validate(desc); err != nil {
			problems++
			fmt.Fprintf(out, "%s %s: %v\n", color.RedString("❌"), desc.ID, err)
			continue
		}
		fmt.Fprintf(out, "%s %s\n", color.GreenString("✅"), desc.ID)
	}

	if problems > 0 {
		return fmt.Errorf("验证发现 %d 个问题", problems)
	}

	fmt.Fprintf(out, "\n✅ 模板目录验证通过: %d 个模板\n", cat.Len())
	logger.Info("模板目录验证完成")
	return nil
}
