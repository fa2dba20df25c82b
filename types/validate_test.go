package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRoadmap() *Roadmap {
	return &Roadmap{
		Career:        "Data Scientist",
		Description:   "desc",
		Overview:      "overview",
		MarketDemand:  "high",
		AverageSalary: "$1",
		KeySkills:     []string{"Python"},
		Paths: []Path{{
			ID:    "p1",
			Title: "Foundations",
			Skills: []Skill{{
				ID:            "s1",
				Title:         "Statistics",
				Level:         LevelBeginner,
				Prerequisites: []string{},
				Resources: []Resource{{
					Type:  ResourceBook,
					Title: "Think Stats",
				}},
			}},
		}},
	}
}

func TestValidate_Valid(t *testing.T) {
	assert.Empty(t, validRoadmap().Validate())
}

func TestValidate_Issues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Roadmap)
		pointer string
	}{
		{"blank career", func(r *Roadmap) { r.Career = "  " }, "/career"},
		{"no paths", func(r *Roadmap) { r.Paths = nil }, "/paths"},
		{"blank path title", func(r *Roadmap) { r.Paths[0].Title = "" }, "/paths/0/title"},
		{"no skills", func(r *Roadmap) { r.Paths[0].Skills = nil }, "/paths/0/skills"},
		{"blank skill title", func(r *Roadmap) { r.Paths[0].Skills[0].Title = "" }, "/paths/0/skills/0/title"},
		{"unknown level", func(r *Roadmap) { r.Paths[0].Skills[0].Level = "expert" }, "/paths/0/skills/0/level"},
		{"unknown resource type", func(r *Roadmap) { r.Paths[0].Skills[0].Resources[0].Type = "video" }, "/paths/0/skills/0/resources/0/type"},
		{"blank resource title", func(r *Roadmap) { r.Paths[0].Skills[0].Resources[0].Title = "" }, "/paths/0/skills/0/resources/0/title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRoadmap()
			tt.mutate(r)
			issues := r.Validate()
			require.Len(t, issues, 1)
			assert.Equal(t, tt.pointer, issues[0].JSONPointer)
			assert.True(t, issues[0].Required)
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	var r *Roadmap
	assert.Len(t, r.Validate(), 1)
}

func TestNormalizeEnums(t *testing.T) {
	r := validRoadmap()
	r.Paths[0].Skills[0].Level = " Advanced "
	r.Paths[0].Skills[0].Resources[0].Type = "DOCUMENTATION"
	NormalizeEnums(r)
	assert.Equal(t, LevelAdvanced, r.Paths[0].Skills[0].Level)
	assert.Equal(t, ResourceDocumentation, r.Paths[0].Skills[0].Resources[0].Type)
	assert.Empty(t, r.Validate())
}
