package template

import (
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/bbq191/egovgen/internal/generr"
)

// Writer 将渲染结果写入文件，已存在的文件直接覆盖
type Writer struct {
	fs     afero.Fs
	logger *logrus.Logger
}

// NewWriter 创建产物写入器
func NewWriter(fs afero.Fs, logger *logrus.Logger) *Writer {
	return &Writer{fs: fs, logger: logger}
}

// Write 写入文本，按需创建父目录
func (w *Writer) Write(path, text string) error {
	if err := w.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return generr.Wrapf(generr.IoError, "write", path, err, "创建输出目录失败")
	}

	if err := afero.WriteFile(w.fs, path, []byte(text), 0o644); err != nil {
		return generr.Wrapf(generr.IoError, "write", path, err, "写入文件失败")
	}

	w.logger.Debugf("已写入文件: %s", path)
	return nil
}
