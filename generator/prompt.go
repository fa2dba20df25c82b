package generator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	"github.com/tbxark/roadmapagent/types"
)

const roadmapPromptTemplate = `Create a career roadmap for "%[1]s" in JSON format.

Experience: %[2]s
Goals: %[3]s

Return this exact JSON structure:
{
  "career": "%[1]s",
  "description": "Brief career description",
  "overview": "Career overview and opportunities",
  "marketDemand": "Market demand information",
  "averageSalary": "Salary range",
  "keySkills": ["skill1", "skill2", "skill3"],
  "paths": [
    {
      "id": "path1",
      "title": "Learning Path Name",
      "description": "Path description",
      "category": "Category",
      "estimatedDuration": "6-12 months",
      "skills": [
        {
          "id": "skill1",
          "title": "Skill Name",
          "description": "Skill description",
          "level": "beginner",
          "estimatedTime": "2-4 weeks",
          "prerequisites": [],
          "resources": [
            {
              "type": "course",
              "title": "Resource Name",
              "url": "https://example.com",
              "description": "Resource description"
            }
          ]
        }
      ]
    }
  ]
}

Create 2-3 paths with 3-5 skills each. Return ONLY valid JSON.`

// BuildPrompt 按固定模板生成提示词，输入原样嵌入
func BuildPrompt(career, experienceLevel, goals string) string {
	return fmt.Sprintf(roadmapPromptTemplate, career, experienceLevel, goals)
}

func buildMessages(_ context.Context, req *types.Request) ([]*schema.Message, error) {
	if req == nil {
		return nil, fmt.Errorf("nil roadmap request")
	}
	return []*schema.Message{
		schema.UserMessage(BuildPrompt(req.Career, req.ExperienceLevel, req.Goals)),
	}, nil
}
