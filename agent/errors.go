package agent

import (
	"errors"
	"strings"

	"github.com/tbxark/roadmapagent"
	"github.com/tbxark/roadmapagent/types"
)

var (
	ErrNotConfigured = roadmapagent.ErrNotConfigured
	ErrInFlight      = errors.New("a roadmap is already being generated for this session")
)

// ValidationError lists blank form fields. No model call is made when it is returned.
type ValidationError struct {
	Fields []types.FieldInfo
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		names = append(names, field.DisplayName)
	}
	return "please fill in all fields: " + strings.Join(names, ", ")
}
