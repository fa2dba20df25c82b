package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/eino-contrib/jsonschema"

	"github.com/tbxark/roadmapagent/types"
)

var _ FormSpec[*types.Request] = RoadmapFormSpec{}

type FormSpec[T any] interface {
	JsonSchema() (string, error)

	MissingFacts(current T) []types.FieldInfo

	Summary(current T) string
}

var roadmapFields = []types.FieldInfo{
	{JSONPointer: "/career", DisplayName: "Career Field", Description: "e.g., Software Developer, Data Scientist, UX Designer", Required: true},
	{JSONPointer: "/experienceLevel", DisplayName: "Current Experience Level", Description: "e.g., Complete beginner, 2 years experience, Intermediate", Required: true},
	{JSONPointer: "/goals", DisplayName: "Career Goals & Interests", Description: "e.g., I want to become a full-stack developer, interested in machine learning", Required: true},
}

// RoadmapFormSpec 描述路线图表单：三个字段都必须非空
type RoadmapFormSpec struct{}

func (RoadmapFormSpec) JsonSchema() (string, error) {
	schema := jsonschema.Reflect(&types.Request{})
	schema.Title = "Career Roadmap Generator"
	schema.Description = "Generate personalized career roadmaps: the career field, the current experience level and the career goals."
	schemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON schema: %w", err)
	}
	return string(schemaBytes), nil
}

func (RoadmapFormSpec) Fields() []types.FieldInfo {
	return append([]types.FieldInfo(nil), roadmapFields...)
}

func (RoadmapFormSpec) MissingFacts(current *types.Request) []types.FieldInfo {
	if current == nil {
		current = &types.Request{}
	}
	values := []string{current.Career, current.ExperienceLevel, current.Goals}
	var missing []types.FieldInfo
	for i, value := range values {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, roadmapFields[i])
		}
	}
	return missing
}

func (RoadmapFormSpec) Summary(current *types.Request) string {
	if current == nil {
		return ""
	}
	return fmt.Sprintf("Career: %s\nExperience: %s\nGoals: %s", current.Career, current.ExperienceLevel, current.Goals)
}
