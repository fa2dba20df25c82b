package types

import (
	"encoding/json"
	"fmt"

	"github.com/eino-contrib/jsonschema"
)

func RoadmapJSONSchema() (string, error) {
	schema := jsonschema.Reflect(&Roadmap{})
	schema.Title = "Career Roadmap"
	schema.Description = "A career roadmap: narrative fields, key skills and 2-3 learning paths with 3-5 skills each."
	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON schema: %w", err)
	}
	return string(schemaBytes), nil
}
