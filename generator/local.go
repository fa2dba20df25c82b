package generator

import (
	"context"
	"fmt"

	"github.com/tbxark/roadmapagent/types"
)

// LocalGenerator builds the fixed fallback roadmap. It never fails.
type LocalGenerator struct{}

func NewLocalGenerator() *LocalGenerator {
	return &LocalGenerator{}
}

func (g *LocalGenerator) GenerateRoadmap(_ context.Context, req *types.Request) (*types.Roadmap, error) {
	var career string
	if req != nil {
		career = req.Career
	}
	return FallbackRoadmap(career), nil
}

// FallbackRoadmap 返回与输入职业绑定的固定路线图，每次调用都生成新的实例
func FallbackRoadmap(career string) *types.Roadmap {
	return &types.Roadmap{
		Career:        career,
		Description:   fmt.Sprintf("A comprehensive career path for %s professionals.", career),
		Overview:      fmt.Sprintf("%s is a dynamic field with excellent growth opportunities. This roadmap will guide you through the essential skills and knowledge needed to succeed.", career),
		MarketDemand:  "High demand with excellent job prospects and competitive salaries.",
		AverageSalary: "$50,000 - $120,000 depending on experience and location",
		KeySkills:     []string{"Problem Solving", "Communication", "Technical Skills", "Project Management"},
		Paths: []types.Path{
			{
				ID:                "fundamentals",
				Title:             "Fundamentals Path",
				Description:       "Build your foundation with core concepts and skills",
				Category:          "Foundation",
				EstimatedDuration: "3-6 months",
				Skills: []types.Skill{
					{
						ID:            "basics",
						Title:         "Core Fundamentals",
						Description:   fmt.Sprintf("Learn the basic concepts and principles of %s", career),
						Level:         types.LevelBeginner,
						EstimatedTime: "4-6 weeks",
						Prerequisites: []string{},
						Resources: []types.Resource{
							{
								Type:        types.ResourceCourse,
								Title:       fmt.Sprintf("Introduction to %s", career),
								URL:         "https://www.coursera.org",
								Description: "Comprehensive introduction course",
							},
							{
								Type:        types.ResourceBook,
								Title:       fmt.Sprintf("%s Handbook", career),
								Description: "Essential reading for beginners",
							},
						},
					},
					{
						ID:            "practice",
						Title:         "Hands-on Practice",
						Description:   "Apply your knowledge through practical exercises",
						Level:         types.LevelIntermediate,
						EstimatedTime: "6-8 weeks",
						Prerequisites: []string{"Core Fundamentals"},
						Resources: []types.Resource{
							{
								Type:        types.ResourceProject,
								Title:       "Practice Projects",
								Description: "Build real-world projects to solidify your understanding",
							},
						},
					},
				},
			},
			{
				ID:                "advanced",
				Title:             "Advanced Skills Path",
				Description:       "Develop specialized skills and expertise",
				Category:          "Specialization",
				EstimatedDuration: "4-8 months",
				Skills: []types.Skill{
					{
						ID:            "advanced-concepts",
						Title:         "Advanced Concepts",
						Description:   "Master complex topics and advanced techniques",
						Level:         types.LevelAdvanced,
						EstimatedTime: "8-12 weeks",
						Prerequisites: []string{"Core Fundamentals", "Hands-on Practice"},
						Resources: []types.Resource{
							{
								Type:        types.ResourceCourse,
								Title:       fmt.Sprintf("Advanced %s Techniques", career),
								Description: "Deep dive into advanced concepts",
							},
						},
					},
				},
			},
		},
	}
}
