package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/bbq191/egovgen/internal/batch"
)

var (
	batchWorkers int
	batchQuiet   bool
)

// batchCmd 批量生成命令
var batchCmd = &cobra.Command{
	Use:   "batch <requests-file>",
	Short: "批量生成",
	Long: `读取请求文件并并行执行其中的全部生成请求，单个请求失败不影响其它请求。

请求文件格式 (YAML 或 JSON):
  requests:
    - templateId: datasource
      targetDirectory: ./src/main/resources/egovframework/spring
      fieldValues:
        beanName: dataSource
    - templateId: web-basic
      targetDirectory: ./sample
      artifactKind: buildDescriptor
      fieldValues:
        projectName: sample
        groupID: org.egovframe

示例:
  egovgen batch requests.yaml
  egovgen batch requests.json --workers 4`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "最大并发数 (默认使用配置中的 max_workers)")
	batchCmd.Flags().BoolVarP(&batchQuiet, "quiet", "q", false, "不显示进度条")
}

func runBatch(cmd *cobra.Command, args []string) error {
	logger := GetLogger()

	requests, err := batch.LoadRequests(afero.NewOsFs(), args[0])
	if err != nil {
		return err
	}
	if len(requests) == 0 {
		logger.Warn("请求文件中没有请求")
		return nil
	}

	workers := batchWorkers
	if workers <= 0 {
		workers = appConfig.MaxWorkers
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := batch.NewRunner(newService(), batch.Options{MaxWorkers: workers, Quiet: batchQuiet}, logger)
	runner.SetOutput(cmd.OutOrStdout())
	summary := runner.Run(ctx, requests)

	batch.PrintSummaryTable(cmd.OutOrStdout(), summary)

	if summary.Failed > 0 || summary.Skipped > 0 {
		return fmt.Errorf("部分请求未成功: 失败 %d, 跳过 %d", summary.Failed, summary.Skipped)
	}
	return nil
}
