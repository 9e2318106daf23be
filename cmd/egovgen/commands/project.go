package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/bbq191/egovgen/internal/catalog"
	"github.com/bbq191/egovgen/internal/interactive"
	"github.com/bbq191/egovgen/internal/project"
	"github.com/bbq191/egovgen/internal/service"
)

var (
	projOutputDir string
	projQuiet     bool
	projFields    fieldFlags
)

// stepLabels 项目生成步骤的显示文本
var stepLabels = map[project.Step]string{
	project.StepPrepare: "📁 准备目标目录",
	project.StepExtract: "📦 展开项目骨架",
	project.StepOverlay: "📝 生成 pom.xml",
}

// projectCmd 生成完整项目命令
var projectCmd = &cobra.Command{
	Use:   "project [template-id]",
	Short: "生成完整项目",
	Long: `展开项目模板的骨架压缩包，并用 projectName、groupID 渲染 pom.xml。

目标目录已有同名文件时生成失败 (TargetExists)；中途失败时已展开的内容会保留。

示例:
  egovgen project web-basic --set projectName=sample --set groupID=org.egovframe
  egovgen project web-basic -o /work/sample --values project.yaml
  egovgen project -i`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProject,
}

func init() {
	rootCmd.AddCommand(projectCmd)

	projectCmd.Flags().StringVarP(&projOutputDir, "output-dir", "o", "", "项目目录 (默认 <output_dir>/<projectName>)")
	projectCmd.Flags().BoolVarP(&projQuiet, "quiet", "q", false, "不显示进度条")
	projFields.register(projectCmd)
}

func runProject(cmd *cobra.Command, args []string) error {
	svc := newService()

	desc, fields, err := resolveTemplate(svc, args, &projFields, true)
	if err != nil {
		return err
	}
	if !desc.IsProject() {
		return fmt.Errorf("模板 %s 不是项目模板，请使用 generate 命令", desc.ID)
	}

	target := projOutputDir
	if target == "" {
		name := strings.TrimSpace(cast.ToString(fields["projectName"]))
		if name == "" {
			return fmt.Errorf("未指定项目目录，且缺少 projectName 字段")
		}
		target = filepath.Join(appConfig.OutputDir, name)
	}

	if projFields.interactive && interactive.DisabledReason() == "" {
		form := interactive.NewForm(interactive.NewSurveyPrompter(), rootLogger)
		ok, err := form.ConfirmTarget(target)
		if err != nil {
			return err
		}
		if !ok {
			rootLogger.Info("已取消项目生成")
			return nil
		}
	}

	if !projQuiet {
		bar := progressbar.NewOptions(len(project.Steps),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetDescription("🚀 生成项目"),
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		svc.SetProjectObserver(func(step project.Step) {
			bar.Describe(stepLabels[step])
			_ = bar.Add(1)
		})
		defer bar.Finish()
	}

	res, err := svc.Execute(service.Request{
		TemplateID:      desc.ID,
		Fields:          fields,
		TargetDirectory: target,
		ArtifactKind:    catalog.KindBuildDescriptor,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n✨ 项目已生成: %s\n   构建描述: %s\n", res.ProjectDir, res.OutputPath)
	return nil
}
