package dialogue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbxark/roadmapagent/types"
)

var (
	career = types.FieldInfo{JSONPointer: "/career", DisplayName: "Career Field", Description: "e.g., UX Designer"}
	goals  = types.FieldInfo{JSONPointer: "/goals", DisplayName: "Career Goals & Interests"}
)

func TestLocalDialogueGenerator(t *testing.T) {
	tests := []struct {
		name  string
		merge bool
		req   *Request
		want  string
	}{
		{"not configured", false, &Request{Phase: types.PhaseCollecting}, "Enter your API key (input is hidden from logs), or type 'demo' to try without one:"},
		{"first missing", false, &Request{Configured: true, Phase: types.PhaseCollecting, MissingFields: []types.FieldInfo{career, goals}}, "Career Field (e.g., UX Designer):"},
		{"all missing", true, &Request{Configured: true, Phase: types.PhaseCollecting, MissingFields: []types.FieldInfo{career, goals}}, "Career Field (e.g., UX Designer):\nCareer Goals & Interests:"},
		{"validation first", false, &Request{Configured: true, Phase: types.PhaseCollecting, ValidationErrors: []types.FieldInfo{{DisplayName: "Career Field"}}, MissingFields: []types.FieldInfo{goals}}, "Career Field is required\nCareer Goals & Interests:"},
		{"complete", false, &Request{Configured: true, Phase: types.PhaseCollecting}, "All fields are filled. Generating your roadmap..."},
		{"generating", false, &Request{Configured: true, Phase: types.PhaseGenerating}, "Generating Your Roadmap..."},
		{"rendered", false, &Request{Configured: true, Phase: types.PhaseRendered}, "Type 'reset' to generate a new roadmap, 'demo' for the demo, or 'quit' to exit."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &LocalDialogueGenerator{MergeAllUnvalidatedFields: tt.merge}
			got, err := g.GenerateDialogue(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
