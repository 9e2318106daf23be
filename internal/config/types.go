// Package config 加载并校验 egovgen 的应用配置
package config

// 配置键，与配置文件、环境变量 (EGOVGEN_ 前缀) 和命令行参数共用
const (
	KeyCatalog     = "catalog"
	KeyLogLevel    = "log_level"
	KeyOutputDir   = "output_dir"
	KeyMaxWorkers  = "max_workers"
	KeyInteractive = "interactive"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "EGOVGEN"

// ConfigName 配置文件名（不含扩展名）
const ConfigName = "egovgen"

// AppConfig 应用配置
type AppConfig struct {
	Catalog     string `mapstructure:"catalog" validate:"required"`                      // 模板目录文件
	LogLevel    string `mapstructure:"log_level" validate:"oneof=debug info warn error"` // 日志级别
	OutputDir   string `mapstructure:"output_dir" validate:"required"`                   // 默认输出目录
	MaxWorkers  int    `mapstructure:"max_workers" validate:"min=0,max=64"`              // 批量生成并发数，0 表示按 CPU 核心数
	Interactive bool   `mapstructure:"interactive"`                                      // 终端下是否启用交互式表单

	// ConfigFile 实际使用的配置文件，未找到时为空
	ConfigFile string `mapstructure:"-"`
}
