package commands

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bbq191/egovgen/internal/catalog"
	"github.com/bbq191/egovgen/internal/config"
	"github.com/bbq191/egovgen/internal/service"
	"github.com/bbq191/egovgen/internal/xdg"
)

var (
	cfgFile    string
	verbose    bool
	rootLogger *logrus.Logger
	appConfig  *config.AppConfig
)

// rootCmd 是应用的根命令
var rootCmd = &cobra.Command{
	Use:   "egovgen",
	Short: "电子政务框架配置与项目生成工具",
	Long: `基于模板目录生成电子政务标准框架的 XML 配置、Java 配置类和完整项目骨架。

支持功能：
  • 模板 include 展开与渲染
  • 单文件配置生成
  • 项目骨架展开与 pom.xml 覆盖
  • 批量并行生成`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initLogger()
		return initConfig()
	},
}

// Execute 执行根命令
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		if rootLogger != nil {
			rootLogger.Errorf("❌ %v", err)
		} else {
			rootCmd.PrintErrln("Error:", err)
		}
	}
	return err
}

func init() {
	// 全局参数
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "详细输出")
	rootCmd.PersistentFlags().String("catalog", "", "模板目录文件")
	rootCmd.PersistentFlags().String("log-level", "", "日志级别 (debug|info|warn|error)")

	// 绑定到 viper
	viper.BindPFlag(config.KeyCatalog, rootCmd.PersistentFlags().Lookup("catalog"))
	viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig 加载配置并调整日志级别
func initConfig() error {
	loader := config.NewConfigLoader(viper.GetViper(), xdg.NewManager(rootLogger), rootLogger)
	cfg, err := loader.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	appConfig = cfg

	if !verbose {
		rootLogger.SetLevel(config.ParseLogLevel(cfg.LogLevel))
	}
	if cfg.ConfigFile != "" {
		rootLogger.Debugf("使用配置文件: %s", cfg.ConfigFile)
	}
	return nil
}

// initLogger 初始化日志系统
func initLogger() {
	rootLogger = logrus.New()

	// 设置日志级别
	if verbose {
		rootLogger.SetLevel(logrus.DebugLevel)
	} else {
		rootLogger.SetLevel(logrus.InfoLevel)
	}

	// 设置日志格式
	rootLogger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: false,
		FullTimestamp:    true,
		TimestampFormat:  "15:04:05",
	})

	rootLogger.Debug("日志系统初始化完成")
}

// GetLogger 获取日志实例
func GetLogger() *logrus.Logger {
	return rootLogger
}

// newService 根据当前配置创建生成服务
func newService() *service.Service {
	store := catalog.NewStore(appConfig.Catalog, catalog.NewLoader(afero.NewOsFs(), rootLogger))
	return service.New(store, rootLogger)
}
