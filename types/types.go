package types

type Phase string

const (
	PhaseCollecting Phase = "collecting"
	PhaseGenerating Phase = "generating"
	PhaseRendered   Phase = "rendered"
)

type FieldInfo struct {
	JSONPointer string `json:"json_pointer"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// Request 是表单提交的三个自由文本输入
type Request struct {
	Career          string `json:"career" jsonschema:"required,description=Desired career field"`
	ExperienceLevel string `json:"experienceLevel" jsonschema:"required,description=Current experience level"`
	Goals           string `json:"goals" jsonschema:"required,description=Career goals and interests"`
}
