package template

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbq191/egovgen/internal/catalog"
	"github.com/bbq191/egovgen/internal/generr"
)

const serviceHeader = `<?xml version="1.0" encoding="UTF-8"?>
<!-- service header -->`

func serviceFixture(t *testing.T) (afero.Fs, catalog.TemplateDescriptor) {
	fs := memFS(t, map[string]string{
		"/tpl/service/service-header.xml": serviceHeader,
		"/tpl/service/service.xml": `{{ include("service-header.xml") }}
<beans>
  <bean id="{{ .serviceName }}" class="{{ .serviceClass }}"/>
</beans>
`,
		"/tpl/service/ServiceConfig.java": `@Configuration
public class {{ .serviceName }}Config {}
`,
	})
	desc := catalog.TemplateDescriptor{
		ID:              "service",
		DisplayName:     "Service",
		Template:        "/tpl/service/service.xml",
		AltTemplate:     "/tpl/service/ServiceConfig.java",
		OutputNameField: "serviceName",
	}
	return fs, desc
}

func TestGenerateServiceXML(t *testing.T) {
	fs, desc := serviceFixture(t)
	gen := NewGenerator(fs, testLogger())

	artifact, err := gen.Generate(desc, "", FieldValues{"serviceName": "UserService"}, "/out")
	require.NoError(t, err)

	assert.Equal(t, catalog.KindXML, artifact.Kind)
	assert.Equal(t, "/out/UserService.xml", artifact.Path)

	data, err := afero.ReadFile(fs, "/out/UserService.xml")
	require.NoError(t, err)
	text := string(data)

	assert.True(t, strings.HasPrefix(text, serviceHeader), "输出应以 header 内容开头")
	headerEnd := strings.Index(text, "service header")
	bodyLine := strings.Index(text, `<bean id="UserService" class=""/>`)
	assert.Greater(t, bodyLine, headerEnd)
	assert.Equal(t, []string{"/tpl/service/service.xml", "/tpl/service/service-header.xml"}, artifact.Sources)
}

func TestGenerateJavaConfigUsesSecondaryTemplate(t *testing.T) {
	fs, desc := serviceFixture(t)
	gen := NewGenerator(fs, testLogger())

	artifact, err := gen.Generate(desc, catalog.KindJavaConfig, FieldValues{"serviceName": "Order"}, "/out/java")
	require.NoError(t, err)

	assert.Equal(t, "/out/java/Order.java", artifact.Path)
	assert.Contains(t, artifact.Text, "public class OrderConfig {}")
}

func TestGenerateJavaConfigWithoutSecondaryTemplate(t *testing.T) {
	fs, desc := serviceFixture(t)
	desc.AltTemplate = ""

	_, err := NewGenerator(fs, testLogger()).Render(desc, catalog.KindJavaConfig, FieldValues{})
	require.Error(t, err)
	assert.True(t, generr.Is(err, generr.TemplateNotFound))
}

func TestGenerateFailureWritesNothing(t *testing.T) {
	fs, desc := serviceFixture(t)
	require.NoError(t, afero.WriteFile(fs, "/tpl/service/service.xml", []byte(`{{ if .x }}unclosed`), 0o644))
	gen := NewGenerator(fs, testLogger())

	_, err := gen.Generate(desc, catalog.KindXML, FieldValues{"serviceName": "S"}, "/out")
	require.Error(t, err)
	assert.True(t, generr.Is(err, generr.TemplateSyntaxError))

	exists, _ := afero.Exists(fs, "/out/S.xml")
	assert.False(t, exists)
}

func TestGenerateInvalidOutputNameWritesNothing(t *testing.T) {
	fs, desc := serviceFixture(t)

	_, err := NewGenerator(fs, testLogger()).Generate(desc, catalog.KindXML, FieldValues{"serviceName": "../evil"}, "/out")
	require.Error(t, err)
	assert.True(t, generr.Is(err, generr.InvalidOutputName))

	exists, _ := afero.DirExists(fs, "/out")
	assert.False(t, exists)
}

func TestGenerateOverwritesExistingFile(t *testing.T) {
	fs, desc := serviceFixture(t)
	require.NoError(t, afero.WriteFile(fs, "/out/UserService.xml", []byte("old"), 0o644))

	_, err := NewGenerator(fs, testLogger()).Generate(desc, catalog.KindXML, FieldValues{"serviceName": "UserService"}, "/out")
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "/out/UserService.xml")
	require.NoError(t, err)
	assert.NotEqual(t, "old", string(data))
}

func TestValidateAndPreview(t *testing.T) {
	fs, desc := serviceFixture(t)
	gen := NewGenerator(fs, testLogger())

	require.NoError(t, gen.Validate(desc))

	preview, err := gen.Preview(desc, catalog.KindXML, 2)
	require.NoError(t, err)
	assert.Equal(t, serviceHeader+"\n...", preview)

	desc.AltTemplate = "/tpl/service/missing.java"
	err = gen.Validate(desc)
	require.Error(t, err)
	assert.True(t, generr.Is(err, generr.TemplateNotFound))
}

func TestWriterCreatesParents(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := NewWriter(fs, testLogger())

	require.NoError(t, w.Write("/a/b/c/file.xml", "x"))
	data, err := afero.ReadFile(fs, "/a/b/c/file.xml")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestWriterReadOnlyFsIsIoError(t *testing.T) {
	w := NewWriter(afero.NewReadOnlyFs(afero.NewMemMapFs()), testLogger())

	err := w.Write("/a/file.xml", "x")
	require.Error(t, err)
	assert.True(t, generr.Is(err, generr.IoError))
}

func TestFieldValuesRestrict(t *testing.T) {
	f := FieldValues{"projectName": "sample", "groupID": "org.egovframe", "other": 1}
	assert.Equal(t, FieldValues{"projectName": "sample", "groupID": "org.egovframe"}, f.Restrict([]string{"projectName", "groupID", "missing"}))
}
