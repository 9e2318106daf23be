package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bbq191/egovgen/internal/catalog"
)

var (
	showKind  string
	showLines int
)

// showCmd 显示模板详情命令
var showCmd = &cobra.Command{
	Use:   "show <template-id>",
	Short: "显示模板详情和展开后的模板文本",
	Long: `显示模板的字段定义，以及 include 展开后的模板文本（不渲染）。

示例:
  egovgen show datasource
  egovgen show transaction --kind javaConfig --lines 0`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVarP(&showKind, "kind", "k", "", "产物类别 (xml|javaConfig|buildDescriptor)")
	showCmd.Flags().IntVarP(&showLines, "lines", "n", 20, "最多显示的行数，0 表示全部")
}

func runShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	svc := newService()

	cat, err := svc.Catalog()
	if err != nil {
		return err
	}
	desc, err := cat.FindByID(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s %s (%s)\n", color.CyanString("模板:"), desc.DisplayName, desc.ID)
	fmt.Fprintf(out, "主模板: %s\n", desc.Template)
	if desc.AltTemplate != "" {
		fmt.Fprintf(out, "Java 模板: %s\n", desc.AltTemplate)
	}
	if desc.IsProject() {
		fmt.Fprintf(out, "项目骨架: %s\n", desc.Archive)
		fmt.Fprintf(out, "pom 字段: %s\n", strings.Join(desc.Overlay(), ", "))
	}

	if len(desc.Fields) > 0 {
		fmt.Fprintln(out, "字段:")
		for _, f := range desc.Fields {
			line := "  - " + f.Name
			if f.Required {
				line += " (必填)"
			}
			if f.Default != "" {
				line += " 默认: " + f.Default
			}
			if len(f.Options) > 0 {
				line += " 可选: " + strings.Join(f.Options, "|")
			}
			fmt.Fprintln(out, line)
		}
	}

	text, err := svc.Generator().Preview(desc, catalog.ArtifactKind(showKind), showLines)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%s\n%s\n", color.CyanString("--- 展开后的模板 ---"), text)
	return nil
}
