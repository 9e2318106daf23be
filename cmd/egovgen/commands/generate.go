package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bbq191/egovgen/internal/catalog"
	"github.com/bbq191/egovgen/internal/service"
)

var (
	genOutputDir string
	genKind      string
	genDryRun    bool
	genFields    fieldFlags
)

// generateCmd 生成单个配置文件命令
var generateCmd = &cobra.Command{
	Use:   "generate [template-id]",
	Short: "生成配置文件",
	Long: `基于模板目录中的模板生成单个配置文件。

支持的产物类别:
  • xml              XML 配置 (默认)
  • javaConfig       Java 配置类
  • buildDescriptor  构建描述 pom.xml

示例:
  egovgen generate datasource --set beanName=dataSource --set url=jdbc:h2:mem
  egovgen generate datasource --kind javaConfig -o src/main/java/config
  egovgen generate -i                      # 交互式选择模板并填写字段
  egovgen generate transaction --dry-run   # 只显示渲染结果`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&genOutputDir, "output-dir", "o", "", "输出目录 (默认使用配置中的 output_dir)")
	generateCmd.Flags().StringVarP(&genKind, "kind", "k", "", "产物类别 (xml|javaConfig|buildDescriptor)")
	generateCmd.Flags().BoolVar(&genDryRun, "dry-run", false, "预览模式，不实际生成文件")
	genFields.register(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	logger := GetLogger()
	svc := newService()

	desc, fields, err := resolveTemplate(svc, args, &genFields, false)
	if err != nil {
		return err
	}

	if genDryRun {
		fields, err = service.ApplyFieldDefaults(desc, fields)
		if err != nil {
			return err
		}
		artifact, err := svc.Generator().Render(desc, catalog.ArtifactKind(genKind), fields)
		if err != nil {
			return err
		}
		logger.Infof("📋 预览模式：%s 不会写入磁盘", artifact.FileName)
		fmt.Fprint(cmd.OutOrStdout(), artifact.Text)
		return nil
	}

	outputDir := genOutputDir
	if outputDir == "" {
		outputDir = appConfig.OutputDir
	}

	res, err := svc.Execute(service.Request{
		TemplateID:      desc.ID,
		Fields:          fields,
		TargetDirectory: outputDir,
		ArtifactKind:    catalog.ArtifactKind(genKind),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n✨ 生成完成: %s\n", res.OutputPath)
	return nil
}
