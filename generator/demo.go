package generator

import (
	"fmt"

	"github.com/tbxark/roadmapagent/types"
)

const (
	defaultDemoCareer   = "Software Developer"
	defaultDemoOverview = "Software Development"
)

// DemoRoadmap is the sample shown without a credential. It does not call a model.
// Only an empty career falls back to the default; whitespace is used as given.
func DemoRoadmap(career string) *types.Roadmap {
	name, field := career, career
	if career == "" {
		name, field = defaultDemoCareer, defaultDemoOverview
	}
	return &types.Roadmap{
		Career:        name,
		Description:   fmt.Sprintf("A comprehensive career path for %s professionals.", name),
		Overview:      fmt.Sprintf("%s is a dynamic field with excellent growth opportunities.", field),
		MarketDemand:  "High demand with excellent job prospects.",
		AverageSalary: "$70,000 - $150,000+",
		KeySkills:     []string{"Programming", "Problem Solving", "Web Development", "Database Management"},
		Paths: []types.Path{{
			ID:                "frontend",
			Title:             "Frontend Development",
			Description:       "Master client-side development",
			Category:          "Web Development",
			EstimatedDuration: "4-6 months",
			Skills: []types.Skill{
				{
					ID:            "html-css",
					Title:         "HTML & CSS",
					Description:   "Learn the building blocks of web pages",
					Level:         types.LevelBeginner,
					EstimatedTime: "3-4 weeks",
					Prerequisites: []string{},
					Resources: []types.Resource{{
						Type:        types.ResourceCourse,
						Title:       "HTML & CSS Fundamentals",
						URL:         "https://www.freecodecamp.org",
						Description: "Free comprehensive course",
					}},
				},
				{
					ID:            "javascript",
					Title:         "JavaScript",
					Description:   "Master the language of the web",
					Level:         types.LevelIntermediate,
					EstimatedTime: "6-8 weeks",
					Prerequisites: []string{"HTML & CSS"},
					Resources: []types.Resource{{
						Type:        types.ResourceCourse,
						Title:       "JavaScript Complete Course",
						URL:         "https://javascript.info",
						Description: "Modern JavaScript tutorial",
					}},
				},
			},
		}},
	}
}
