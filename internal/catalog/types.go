// Package catalog 提供模板目录：可生成产物的描述信息及其加载与缓存
package catalog

// ArtifactKind 生成产物类别，决定输出扩展名和使用的模板
type ArtifactKind string

const (
	KindXML             ArtifactKind = "xml"             // XML 配置描述文件
	KindJavaConfig      ArtifactKind = "javaConfig"      // 等价的 Java 配置类
	KindBuildDescriptor ArtifactKind = "buildDescriptor" // 构建描述文件 (pom.xml)
)

// Valid 判断类别是否受支持
func (k ArtifactKind) Valid() bool {
	switch k {
	case KindXML, KindJavaConfig, KindBuildDescriptor:
		return true
	}
	return false
}

// DefaultOverlayFields 项目模板渲染构建描述时默认保留的字段
var DefaultOverlayFields = []string{"projectName", "groupID"}

// Field 表单字段定义，交互模式下据此提问
type Field struct {
	Name     string   `mapstructure:"name" validate:"required"`
	Prompt   string   `mapstructure:"prompt"`
	Default  string   `mapstructure:"default"`
	Options  []string `mapstructure:"options"`
	Required bool     `mapstructure:"required"`
}

// TemplateDescriptor 描述一种可生成的产物
type TemplateDescriptor struct {
	ID              string   `mapstructure:"id" validate:"required"`
	DisplayName     string   `mapstructure:"displayName" validate:"required"`
	Category        string   `mapstructure:"category"`
	FormView        string   `mapstructure:"formView"`
	Template        string   `mapstructure:"template" validate:"required"` // 主模板
	AltTemplate     string   `mapstructure:"altTemplate"`                  // 备选产物模板（Java 配置）
	Archive         string   `mapstructure:"archive"`                      // 项目骨架压缩包或目录
	OutputNameField string   `mapstructure:"outputNameField"`
	OverlayFields   []string `mapstructure:"overlayFields"`
	Fields          []Field  `mapstructure:"fields" validate:"dive"`
}

// IsProject 是否为完整项目模板
func (d TemplateDescriptor) IsProject() bool {
	return d.Archive != ""
}

// DefaultKind 未指定类别时使用的产物类别
func (d TemplateDescriptor) DefaultKind() ArtifactKind {
	if d.IsProject() {
		return KindBuildDescriptor
	}
	return KindXML
}

// Kinds 该模板可生成的全部类别
func (d TemplateDescriptor) Kinds() []ArtifactKind {
	kinds := []ArtifactKind{d.DefaultKind()}
	if d.AltTemplate != "" {
		kinds = append(kinds, KindJavaConfig)
	}
	return kinds
}

// TemplateFor 返回类别对应的模板路径，模板未配置时返回空串
func (d TemplateDescriptor) TemplateFor(kind ArtifactKind) string {
	if kind == KindJavaConfig {
		return d.AltTemplate
	}
	return d.Template
}

// Overlay 返回构建描述渲染所需的字段列表
func (d TemplateDescriptor) Overlay() []string {
	if len(d.OverlayFields) > 0 {
		return d.OverlayFields
	}
	return DefaultOverlayFields
}

// SkippedEntry 加载时被跳过的目录条目
type SkippedEntry struct {
	Index  int    // 条目在文件中的序号
	ID     string // 能解析出的 id，可能为空
	Reason string // 跳过原因
}
