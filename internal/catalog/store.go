package catalog

import (
	"sync"
	"sync/atomic"
)

// Store 进程级的目录缓存：首次访问时加载，之后只读，需要时显式 Reload
type Store struct {
	path    string
	loader  *Loader
	current atomic.Pointer[Catalog]
	loadMu  sync.Mutex
}

// NewStore 创建目录缓存，此时不读取文件
func NewStore(path string, loader *Loader) *Store {
	return &Store{path: path, loader: loader}
}

// Get 返回当前目录，首次调用时加载
func (s *Store) Get() (*Catalog, error) {
	if c := s.current.Load(); c != nil {
		return c, nil
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if c := s.current.Load(); c != nil {
		return c, nil
	}
	return s.loadLocked()
}

// Reload 重新读取目录文件并替换缓存，失败时保留旧目录
func (s *Store) Reload() (*Catalog, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	return s.loadLocked()
}

// Path 目录文件路径
func (s *Store) Path() string {
	return s.path
}

func (s *Store) loadLocked() (*Catalog, error) {
	c, err := s.loader.Load(s.path)
	if err != nil {
		return nil, err
	}
	s.current.Store(c)
	return c, nil
}
