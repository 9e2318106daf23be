package template

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/bbq191/egovgen/internal/catalog"
	"github.com/bbq191/egovgen/internal/generr"
)

const (
	// DefaultBaseName 命名字段缺失或为空时使用的文件名
	DefaultBaseName = "default"
	// BuildDescriptorName 构建描述文件的固定文件名
	BuildDescriptorName = "pom.xml"
)

// extensions 产物类别到扩展名的映射
var extensions = map[catalog.ArtifactKind]string{
	catalog.KindXML:        ".xml",
	catalog.KindJavaConfig: ".java",
}

// DeriveFileName 根据模板配置的命名字段推导输出文件名
func DeriveFileName(desc catalog.TemplateDescriptor, fields FieldValues, kind catalog.ArtifactKind) (string, error) {
	if kind == catalog.KindBuildDescriptor {
		return BuildDescriptorName, nil
	}

	ext, ok := extensions[kind]
	if !ok {
		return "", generr.New(generr.InvalidRequest, "name", "", fmt.Sprintf("未知的产物类别: %s", kind))
	}

	base := DefaultBaseName
	if desc.OutputNameField != "" {
		if v := strings.TrimSpace(cast.ToString(fields[desc.OutputNameField])); v != "" {
			base = v
		}
	}

	if strings.ContainsAny(base, `/\`) {
		return "", generr.New(generr.InvalidOutputName, "name", "",
			fmt.Sprintf("字段 %s 的值 %q 包含路径分隔符", desc.OutputNameField, base))
	}

	return base + ext, nil
}
