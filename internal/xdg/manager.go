package xdg

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// CatalogRelPath 数据目录下默认模板目录文件的相对路径
const CatalogRelPath = "templates/catalog.yaml"

// Reload 重新读取 XDG 环境变量
func Reload() {
	xdg.Reload()
}

// GetXDGPath 获取指定类型的应用目录路径
func (m *Manager) GetXDGPath(dirType XDGDirectory) (string, error) {
	var base string
	switch dirType {
	case ConfigHome:
		base = xdg.ConfigHome
	case DataHome:
		base = xdg.DataHome
	case StateHome:
		base = xdg.StateHome
	case CacheHome:
		base = xdg.CacheHome
	default:
		return "", fmt.Errorf("未支持的XDG目录类型: %v", dirType)
	}
	return filepath.Join(base, m.app), nil
}

// DefaultCatalogPath 默认模板目录：优先当前目录下的 templates/catalog.yaml，其次数据目录
func (m *Manager) DefaultCatalogPath() string {
	if info, err := os.Stat(CatalogRelPath); err == nil && !info.IsDir() {
		abs, err := filepath.Abs(CatalogRelPath)
		if err == nil {
			return abs
		}
	}

	if path, err := xdg.SearchDataFile(filepath.Join(m.app, CatalogRelPath)); err == nil {
		m.logger.Debugf("在数据目录中找到模板目录: %s", path)
		return path
	}

	dataDir, _ := m.GetXDGPath(DataHome)
	return filepath.Join(dataDir, CatalogRelPath)
}

// ConfigSearchPaths 配置文件搜索目录，按优先级排列
func (m *Manager) ConfigSearchPaths() []string {
	paths := []string{"."}
	if dir, err := m.GetXDGPath(ConfigHome); err == nil {
		paths = append(paths, dir)
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, home)
	}
	return paths
}

// EnsureDirectories 确保所有XDG目录存在
func (m *Manager) EnsureDirectories() error {
	for _, dirType := range All {
		path, err := m.GetXDGPath(dirType)
		if err != nil {
			m.logger.Warnf("获取%s路径失败: %v", dirType.String(), err)
			continue
		}

		if err := os.MkdirAll(path, 0755); err != nil {
			m.logger.Errorf("创建目录失败 %s: %v", path, err)
			return fmt.Errorf("创建XDG目录失败 %s: %w", path, err)
		}

		m.logger.Debugf("✅ 确保目录存在: %s", path)
	}
	return nil
}

// Status 返回全部目录的状态
func (m *Manager) Status() []DirectoryStatus {
	var statuses []DirectoryStatus
	for _, dirType := range All {
		path, err := m.GetXDGPath(dirType)
		if err != nil {
			continue
		}

		status := DirectoryStatus{Type: dirType, Path: path}
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			status.Exists = true
			status.Writable = isDirectoryWritable(path)
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// isDirectoryWritable 检查目录是否可写
func isDirectoryWritable(path string) bool {
	f, err := os.CreateTemp(path, ".egovgen-write-test-")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}
