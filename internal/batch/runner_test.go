package batch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbq191/egovgen/internal/catalog"
	"github.com/bbq191/egovgen/internal/generr"
	"github.com/bbq191/egovgen/internal/service"
	"github.com/bbq191/egovgen/internal/template"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeExecutor 按模板 id 决定成功或失败，并记录最大并发数
type fakeExecutor struct {
	mu       sync.Mutex
	calls    []string
	inFlight int32
	peak     int32
	delay    time.Duration
}

func (f *fakeExecutor) Execute(req service.Request) (*service.Result, error) {
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		peak := atomic.LoadInt32(&f.peak)
		if n <= peak || atomic.CompareAndSwapInt32(&f.peak, peak, n) {
			break
		}
	}
	time.Sleep(f.delay)

	f.mu.Lock()
	f.calls = append(f.calls, req.TemplateID)
	f.mu.Unlock()

	if req.TemplateID == "broken" {
		return nil, generr.New(generr.TemplateSyntaxError, "render", "", "unbalanced block")
	}
	return &service.Result{OutputPath: req.TargetDirectory + "/" + req.TemplateID + ".xml", Kind: catalog.KindXML}, nil
}

func requests(ids ...string) []service.Request {
	reqs := make([]service.Request, 0, len(ids))
	for _, id := range ids {
		reqs = append(reqs, service.Request{TemplateID: id, TargetDirectory: "/out"})
	}
	return reqs
}

func TestRunKeepsInputOrderAndIsolatesFailures(t *testing.T) {
	exec := &fakeExecutor{delay: 5 * time.Millisecond}
	runner := NewRunner(exec, Options{MaxWorkers: 3, Quiet: true}, quietLogger())

	summary := runner.Run(context.Background(), requests("a", "broken", "c", "d", "e"))

	require.Len(t, summary.Items, 5)
	for i, item := range summary.Items {
		assert.Equal(t, i, item.Index)
	}
	assert.Equal(t, "/out/a.xml", summary.Items[0].Result.OutputPath)
	assert.True(t, generr.Is(summary.Items[1].Err, generr.TemplateSyntaxError))
	assert.True(t, summary.Items[4].Success())
	assert.Equal(t, 4, summary.Successful)
	assert.Equal(t, 1, summary.Failed)
	assert.Len(t, exec.calls, 5)
	assert.LessOrEqual(t, exec.peak, int32(3))
}

func TestRunSkipsWhenContextCancelled(t *testing.T) {
	exec := &fakeExecutor{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary := NewRunner(exec, Options{MaxWorkers: 2, Quiet: true}, quietLogger()).Run(ctx, requests("a", "b"))

	assert.Equal(t, 2, summary.Skipped)
	assert.Empty(t, exec.calls)
	assert.True(t, errors.Is(summary.Items[0].Err, context.Canceled))
}

func TestRunWithProgressOutput(t *testing.T) {
	var buf bytes.Buffer
	runner := NewRunner(&fakeExecutor{}, Options{MaxWorkers: 1}, quietLogger())
	runner.SetOutput(&buf)

	summary := runner.Run(context.Background(), requests("a", "broken"))
	PrintSummaryTable(&buf, summary)

	out := buf.String()
	assert.Contains(t, out, "准备生成 2 个产物")
	assert.Contains(t, out, "/out/a.xml")
	assert.Contains(t, out, "TemplateSyntaxError")
	assert.Contains(t, out, "成功 1 / 失败 1 / 跳过 0")
}

func TestLoadRequests(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/reqs.yaml", []byte(`requests:
  - templateId: datasource
    targetDirectory: ./out
    artifactKind: javaConfig
    fieldValues:
      beanName: primary
      pool: 10
  - templateId: web-project
    targetDirectory: ./sample
`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/reqs.json", []byte(`[{"templateId": "x", "targetDirectory": "/o"}]`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/bad.yaml", []byte(`requests: 3`), 0o644))

	reqs, err := LoadRequests(fs, "/reqs.yaml")
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, catalog.KindJavaConfig, reqs[0].ArtifactKind)
	assert.Equal(t, template.FieldValues{"beanName": "primary", "pool": 10}, reqs[0].Fields)
	assert.Equal(t, "./sample", reqs[1].TargetDirectory)

	reqs, err = LoadRequests(fs, "/reqs.json")
	require.NoError(t, err)
	assert.Equal(t, "x", reqs[0].TemplateID)

	_, err = LoadRequests(fs, "/bad.yaml")
	assert.True(t, generr.Is(err, generr.InvalidRequest))

	_, err = LoadRequests(fs, "/missing.yaml")
	assert.True(t, generr.Is(err, generr.IoError))
}
