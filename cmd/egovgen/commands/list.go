package commands

import (
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var listCategory string

// listCmd 列出模板命令
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "列出可用模板",
	RunE:    runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listCategory, "category", "", "只显示指定分类")
}

func runList(cmd *cobra.Command, args []string) error {
	cat, err := newService().Catalog()
	if err != nil {
		return err
	}

	entries := cat.List()
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Category != entries[j].Category {
			return entries[i].Category < entries[j].Category
		}
		return entries[i].ID < entries[j].ID
	})

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"ID", "名称", "分类", "类别", "项目"})

	for _, desc := range entries {
		if listCategory != "" && !strings.EqualFold(desc.Category, listCategory) {
			continue
		}

		kinds := make([]string, 0, 2)
		for _, k := range desc.Kinds() {
			kinds = append(kinds, string(k))
		}
		isProject := ""
		if desc.IsProject() {
			isProject = "✔"
		}
		t.AppendRow(table.Row{desc.ID, desc.DisplayName, desc.Category, strings.Join(kinds, ", "), isProject})
	}

	t.AppendFooter(table.Row{"", "", "", "共", cat.Len()})
	t.Render()
	return nil
}
