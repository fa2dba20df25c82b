package structured

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/tbxark/roadmapagent/patch"
	"github.com/tbxark/roadmapagent/types"
)

type Stage string

const (
	StageNormalize Stage = "normalize"
	StageParse     Stage = "parse"
	StageRepair    Stage = "repair"
	StageDecode    Stage = "decode"
	StageValidate  Stage = "validate"
)

var ErrSchemaViolation = errors.New("roadmap violates schema")

// DecodeError 描述模型输出在哪个阶段无法被接受
type DecodeError struct {
	Stage  Stage
	Issues []types.FieldInfo
	Raw    string
	Err    error
}

func (e *DecodeError) Error() string {
	if len(e.Issues) > 0 {
		pointers := make([]string, 0, len(e.Issues))
		for _, issue := range e.Issues {
			pointers = append(pointers, issue.JSONPointer)
		}
		return fmt.Sprintf("%s: %v (%s)", e.Stage, e.Err, strings.Join(pointers, ", "))
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

var repairablePaths = patch.OptionalListPaths[types.Roadmap]()

// DecodeRoadmap parses, repairs, decodes and validates a JSON roadmap document.
func DecodeRoadmap(raw string) (*types.Roadmap, error) {
	var doc any
	if err := sonic.UnmarshalString(raw, &doc); err != nil {
		return nil, &DecodeError{Stage: StageParse, Raw: raw, Err: err}
	}
	if _, ok := doc.(map[string]any); !ok {
		return nil, &DecodeError{Stage: StageParse, Raw: raw, Err: fmt.Errorf("top-level value is %T, not an object", doc)}
	}

	repaired, ops, err := patch.Repair([]byte(raw), repairablePaths)
	if err != nil {
		return nil, &DecodeError{Stage: StageRepair, Raw: raw, Err: err}
	}
	if len(ops) > 0 {
		slog.Debug("Roadmap repaired", "ops", patch.FormatOperations(ops))
	}

	var roadmap types.Roadmap
	if err := sonic.Unmarshal(repaired, &roadmap); err != nil {
		return nil, &DecodeError{Stage: StageDecode, Raw: raw, Err: err}
	}

	types.NormalizeEnums(&roadmap)
	if issues := roadmap.Validate(); len(issues) > 0 {
		return nil, &DecodeError{Stage: StageValidate, Issues: issues, Raw: raw, Err: ErrSchemaViolation}
	}
	return &roadmap, nil
}

// DecodeRoadmapText normalizes free-form model text before decoding it.
func DecodeRoadmapText(text string) (*types.Roadmap, error) {
	object, err := Normalize(text)
	if err != nil {
		return nil, &DecodeError{Stage: StageNormalize, Raw: text, Err: err}
	}
	return DecodeRoadmap(object)
}
