// Package xdg 提供 egovgen 使用的基础目录（配置、数据、缓存、状态）
package xdg

import (
	"github.com/sirupsen/logrus"
)

// AppName 基础目录下的应用子目录名
const AppName = "egovgen"

// XDGDirectory XDG目录类型枚举
type XDGDirectory int

const (
	ConfigHome XDGDirectory = iota
	DataHome
	StateHome
	CacheHome
)

// All 全部受管理的目录类型
var All = []XDGDirectory{ConfigHome, DataHome, StateHome, CacheHome}

// String 返回XDG目录类型的字符串表示
func (d XDGDirectory) String() string {
	switch d {
	case ConfigHome:
		return "config"
	case DataHome:
		return "data"
	case StateHome:
		return "state"
	case CacheHome:
		return "cache"
	default:
		return "unknown"
	}
}

// DirectoryStatus 目录状态，供 info 命令展示
type DirectoryStatus struct {
	Type     XDGDirectory
	Path     string
	Exists   bool
	Writable bool
}

// Manager XDG目录管理器
type Manager struct {
	app    string
	logger *logrus.Logger
}

// NewManager 创建新的XDG管理器
func NewManager(logger *logrus.Logger) *Manager {
	return &Manager{
		app:    AppName,
		logger: logger,
	}
}
