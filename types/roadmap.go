package types

type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	default:
		return false
	}
}

type ResourceType string

const (
	ResourceCourse        ResourceType = "course"
	ResourceBook          ResourceType = "book"
	ResourceDocumentation ResourceType = "documentation"
	ResourceProject       ResourceType = "project"
	ResourceTutorial      ResourceType = "tutorial"
)

func (t ResourceType) Valid() bool {
	switch t {
	case ResourceCourse, ResourceBook, ResourceDocumentation, ResourceProject, ResourceTutorial:
		return true
	default:
		return false
	}
}

type Resource struct {
	Type        ResourceType `json:"type" jsonschema:"required,enum=course,enum=book,enum=documentation,enum=project,enum=tutorial"`
	Title       string       `json:"title" jsonschema:"required"`
	URL         string       `json:"url,omitempty" jsonschema:"description=Optional link to the resource"`
	Description string       `json:"description" jsonschema:"required"`
}

type Skill struct {
	ID            string     `json:"id" jsonschema:"required"`
	Title         string     `json:"title" jsonschema:"required"`
	Description   string     `json:"description" jsonschema:"required"`
	Level         Level      `json:"level" jsonschema:"required,enum=beginner,enum=intermediate,enum=advanced"`
	EstimatedTime string     `json:"estimatedTime" jsonschema:"required,description=e.g. 2-4 weeks"`
	Prerequisites []string   `json:"prerequisites" jsonschema:"description=Skill titles to learn first"`
	Resources     []Resource `json:"resources"`
}

type Path struct {
	ID                string  `json:"id" jsonschema:"required"`
	Title             string  `json:"title" jsonschema:"required"`
	Description       string  `json:"description" jsonschema:"required"`
	Category          string  `json:"category" jsonschema:"required"`
	EstimatedDuration string  `json:"estimatedDuration" jsonschema:"required,description=e.g. 6-12 months"`
	Skills            []Skill `json:"skills" jsonschema:"required,minItems=1,description=3-5 skills"`
}

// Roadmap 是一次生成的完整结果，创建后不再修改
type Roadmap struct {
	Career        string   `json:"career" jsonschema:"required"`
	Description   string   `json:"description" jsonschema:"required,description=Brief career description"`
	Overview      string   `json:"overview" jsonschema:"required,description=Career overview and opportunities"`
	MarketDemand  string   `json:"marketDemand" jsonschema:"required,description=Market demand information"`
	AverageSalary string   `json:"averageSalary" jsonschema:"required,description=Salary range"`
	KeySkills     []string `json:"keySkills"`
	Paths         []Path   `json:"paths" jsonschema:"required,minItems=1,description=2-3 learning paths"`
}
