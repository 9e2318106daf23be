package service

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbq191/egovgen/internal/catalog"
	"github.com/bbq191/egovgen/internal/generr"
	"github.com/bbq191/egovgen/internal/project"
	"github.com/bbq191/egovgen/internal/template"
)

const catalogYAML = `templates:
  - id: datasource
    displayName: DataSource
    category: persistence
    template: datasource/datasource.xml
    altTemplate: datasource/DataSourceConfig.java
    outputNameField: beanName
    fields:
      - name: beanName
        default: dataSource
      - name: url
        required: true
  - id: web-project
    displayName: Web Project
    template: project/pom.xml
    archive: project/skeleton.zip
    fields:
      - name: projectName
        required: true
      - name: groupID
        default: egovframework
`

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// newTestService 在临时目录中构建模板目录并创建服务
func newTestService(t *testing.T) *Service {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "catalog.yaml"), catalogYAML)
	writeFile(t, filepath.Join(root, "datasource", "header.xml"), `<?xml version="1.0" encoding="UTF-8"?>`)
	writeFile(t, filepath.Join(root, "datasource", "datasource.xml"), `{{ include("header.xml") }}
<bean id="{{ .beanName }}" url="{{ .url }}"/>
`)
	writeFile(t, filepath.Join(root, "datasource", "DataSourceConfig.java"), `class {{ .beanName }} {}`)
	writeFile(t, filepath.Join(root, "project", "pom.xml"), `<project><groupId>{{ .groupID }}</groupId><artifactId>{{ .projectName }}</artifactId></project>`)

	f, err := os.Create(filepath.Join(root, "project", "skeleton.zip"))
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("README.md")
	require.NoError(t, err)
	_, err = w.Write([]byte("readme"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	store := catalog.NewStore(filepath.Join(root, "catalog.yaml"), catalog.NewLoader(afero.NewOsFs(), quietLogger()))
	return New(store, quietLogger())
}

func TestExecuteSingleFile(t *testing.T) {
	svc := newTestService(t)
	out := t.TempDir()

	res, err := svc.Execute(Request{
		TemplateID:      "datasource",
		Fields:          template.FieldValues{"url": "jdbc:h2:mem"},
		TargetDirectory: out,
	})
	require.NoError(t, err)

	assert.Equal(t, catalog.KindXML, res.Kind)
	assert.Equal(t, filepath.Join(out, "dataSource.xml"), res.OutputPath)
	assert.NotEmpty(t, res.RequestID)
	assert.Empty(t, res.ProjectDir)

	data, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<bean id="dataSource" url="jdbc:h2:mem"/>`)
}

func TestExecuteJavaConfig(t *testing.T) {
	svc := newTestService(t)
	out := t.TempDir()

	res, err := svc.Execute(Request{
		TemplateID:      "datasource",
		Fields:          template.FieldValues{"beanName": "Primary", "url": "x"},
		TargetDirectory: out,
		ArtifactKind:    catalog.KindJavaConfig,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "Primary.java"), res.OutputPath)
}

func TestExecuteProject(t *testing.T) {
	svc := newTestService(t)
	target := filepath.Join(t.TempDir(), "sample")

	var steps []project.Step
	svc.SetProjectObserver(func(step project.Step) { steps = append(steps, step) })

	res, err := svc.Execute(Request{
		TemplateID:      "web-project",
		Fields:          template.FieldValues{"projectName": "sample"},
		TargetDirectory: target,
	})
	require.NoError(t, err)

	assert.Equal(t, catalog.KindBuildDescriptor, res.Kind)
	assert.Equal(t, target, res.ProjectDir)
	assert.Equal(t, filepath.Join(target, "pom.xml"), res.OutputPath)
	assert.Equal(t, project.Steps, steps)
	assert.FileExists(t, filepath.Join(target, "README.md"))

	data, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, `<project><groupId>egovframework</groupId><artifactId>sample</artifactId></project>`, string(data))
}

func TestExecuteFailures(t *testing.T) {
	svc := newTestService(t)
	out := t.TempDir()

	tests := []struct {
		name string
		req  Request
		want generr.Kind
	}{
		{"missing template id", Request{TargetDirectory: out}, generr.InvalidRequest},
		{"missing target", Request{TemplateID: "datasource"}, generr.InvalidRequest},
		{"unknown kind", Request{TemplateID: "datasource", TargetDirectory: out, ArtifactKind: "yaml"}, generr.InvalidRequest},
		{"unknown template", Request{TemplateID: "nope", TargetDirectory: out}, generr.TemplateNotFound},
		{"required field", Request{TemplateID: "datasource", TargetDirectory: out}, generr.InvalidRequest},
		{"path in name", Request{
			TemplateID:      "datasource",
			Fields:          template.FieldValues{"beanName": "../evil", "url": "x"},
			TargetDirectory: out,
		}, generr.InvalidOutputName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Execute(tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.want, generr.KindOf(err), "实际错误: %v", err)
		})
	}

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestApplyFieldDefaults(t *testing.T) {
	desc := catalog.TemplateDescriptor{
		ID: "x",
		Fields: []catalog.Field{
			{Name: "a", Default: "da"},
			{Name: "b", Required: true},
			{Name: "c"},
		},
	}

	got, err := ApplyFieldDefaults(desc, template.FieldValues{"a": " ", "b": []interface{}{"v"}, "extra": 1})
	require.NoError(t, err)
	assert.Equal(t, template.FieldValues{"a": "da", "b": []interface{}{"v"}, "extra": 1}, got)

	_, err = ApplyFieldDefaults(desc, template.FieldValues{"b": nil})
	require.Error(t, err)
	assert.True(t, generr.Is(err, generr.InvalidRequest))
	assert.Contains(t, err.Error(), "b")
}
