package template

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/bbq191/egovgen/internal/generr"
)

// includePattern 匹配 {{ include("相对路径") }} 指令
var includePattern = regexp.MustCompile(`\{\{\s*include\(\s*"([^"]*)"\s*\)\s*\}\}`)

// Resolver 递归展开模板中的 include 指令
type Resolver struct {
	fs     afero.Fs
	logger *logrus.Logger
}

// NewResolver 创建 include 解析器
func NewResolver(fs afero.Fs, logger *logrus.Logger) *Resolver {
	return &Resolver{fs: fs, logger: logger}
}

// Resolve 读取根模板并展开全部 include
func (r *Resolver) Resolve(rootPath string) (*ResolvedTemplate, error) {
	root := filepath.Clean(rootPath)

	data, err := afero.ReadFile(r.fs, root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, generr.Wrapf(generr.TemplateNotFound, "resolve", root, err, "模板文件不存在: %s", root)
		}
		return nil, generr.Wrapf(generr.IoError, "resolve", root, err, "读取模板失败")
	}

	return r.ResolveText(string(data), root)
}

// ResolveText 展开给定文本中的 include，sourcePath 为文本所在文件，用于定位相对路径
func (r *Resolver) ResolveText(text, sourcePath string) (*ResolvedTemplate, error) {
	source := filepath.Clean(sourcePath)
	res := &ResolvedTemplate{Root: source, Sources: []string{source}}
	seen := map[string]bool{source: true}

	flat, err := r.expand(source, text, []string{source}, res, seen)
	if err != nil {
		return nil, err
	}
	res.Text = flat

	r.logger.Debugf("模板展开完成: %s (%d 个源文件)", source, len(res.Sources))
	return res, nil
}

// expand 深度优先地展开 current 文件文本中的指令，stack 为当前解析链
func (r *Resolver) expand(current, text string, stack []string, res *ResolvedTemplate, seen map[string]bool) (string, error) {
	matches := includePattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, nil
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m[0]])
		last = m[1]

		ref := text[m[2]:m[3]]
		if ref == "" {
			return "", generr.New(generr.IncludeNotFound, "resolve", current,
				fmt.Sprintf("%s 中存在空的 include 路径", current))
		}

		target := ref
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(current), ref)
		}
		target = filepath.Clean(target)

		if i := indexOf(stack, target); i >= 0 {
			chain := append(append([]string{}, stack[i:]...), target)
			return "", generr.New(generr.CircularInclude, "resolve", target,
				"检测到循环 include: "+strings.Join(chain, " -> "))
		}

		data, err := afero.ReadFile(r.fs, target)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", generr.New(generr.IncludeNotFound, "resolve", target,
					fmt.Sprintf("include 片段 %s 不存在（引用自 %s）", target, current))
			}
			return "", generr.Wrapf(generr.IoError, "resolve", target, err, "读取 include 片段失败（引用自 %s）", current)
		}

		if !seen[target] {
			seen[target] = true
			res.Sources = append(res.Sources, target)
		}

		// 三下标切片保证每条分支拥有独立的栈
		next := append(stack[:len(stack):len(stack)], target)
		sub, err := r.expand(target, string(data), next, res, seen)
		if err != nil {
			return "", err
		}
		b.WriteString(sub)
	}
	b.WriteString(text[last:])

	return b.String(), nil
}

func indexOf(stack []string, path string) int {
	for i, p := range stack {
		if p == path {
			return i
		}
	}
	return -1
}
