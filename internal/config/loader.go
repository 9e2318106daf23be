package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/bbq191/egovgen/internal/xdg"
)

// ConfigLoader 配置加载器
type ConfigLoader struct {
	v         *viper.Viper
	dirs      *xdg.Manager
	validator *validator.Validate
	logger    *logrus.Logger
}

// NewConfigLoader 创建配置加载器，v 上已绑定的命令行参数优先于配置文件
func NewConfigLoader(v *viper.Viper, dirs *xdg.Manager, logger *logrus.Logger) *ConfigLoader {
	return &ConfigLoader{
		v:         v,
		dirs:      dirs,
		validator: validator.New(),
		logger:    logger,
	}
}

// LoadConfig 按 参数 > 环境变量 > 配置文件 > 默认值 的顺序加载配置
func (cl *ConfigLoader) LoadConfig(configFile string) (*AppConfig, error) {
	cl.logger.Debug("开始加载配置文件")
	cl.setDefaultValues()

	if configFile != "" {
		cl.v.SetConfigFile(configFile)
	} else {
		cl.v.SetConfigName(ConfigName)
		for _, dir := range cl.dirs.ConfigSearchPaths() {
			cl.v.AddConfigPath(dir)
		}
	}

	cl.v.SetEnvPrefix(EnvPrefix)
	cl.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cl.v.AutomaticEnv()

	if err := cl.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		cl.logger.Debug("未找到配置文件，使用默认配置")
	}

	config := &AppConfig{}
	if err := cl.v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	config.ConfigFile = cl.v.ConfigFileUsed()
	config.LogLevel = strings.ToLower(config.LogLevel)

	if err := cl.validateConfig(config); err != nil {
		return nil, err
	}

	cl.logger.Debugf("配置加载完成: catalog=%s, output_dir=%s", config.Catalog, config.OutputDir)
	return config, nil
}

// setDefaultValues 设置默认值
func (cl *ConfigLoader) setDefaultValues() {
	cl.v.SetDefault(KeyCatalog, cl.dirs.DefaultCatalogPath())
	cl.v.SetDefault(KeyLogLevel, "info")
	cl.v.SetDefault(KeyOutputDir, ".")
	cl.v.SetDefault(KeyMaxWorkers, 0)
	cl.v.SetDefault(KeyInteractive, true)
}

// validateConfig 验证配置
func (cl *ConfigLoader) validateConfig(config *AppConfig) error {
	if err := cl.validator.Struct(config); err != nil {
		return cl.formatValidationError(err)
	}
	return nil
}

// formatValidationError 格式化验证错误
func (cl *ConfigLoader) formatValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("验证错误格式异常: %w", err)
	}

	var messages []string
	for _, fieldErr := range validationErrors {
		fieldName := fieldErr.Field()

		switch fieldErr.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("字段 %s 是必需的", fieldName))
		case "oneof":
			messages = append(messages, fmt.Sprintf("字段 %s 必须是以下值之一: %s", fieldName, fieldErr.Param()))
		case "min":
			messages = append(messages, fmt.Sprintf("字段 %s 不能小于 %s", fieldName, fieldErr.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("字段 %s 不能大于 %s", fieldName, fieldErr.Param()))
		default:
			messages = append(messages, fmt.Sprintf("字段 %s 验证失败: %s", fieldName, fieldErr.Tag()))
		}
	}

	return fmt.Errorf("配置验证失败:\n  - %s", strings.Join(messages, "\n  - "))
}

// ParseLogLevel 将配置中的日志级别转换为 logrus 级别
func ParseLogLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}
