package dialogue

import (
	"context"
	"fmt"
	"strings"

	"github.com/tbxark/roadmapagent/types"
)

// LocalDialogueGenerator produces the terminal prompts without calling a model.
type LocalDialogueGenerator struct {
	MergeAllUnvalidatedFields bool
}

func (g *LocalDialogueGenerator) GenerateDialogue(ctx context.Context, req *Request) (string, error) {
	if !req.Configured {
		return "Enter your API key (input is hidden from logs), or type 'demo' to try without one:", nil
	}
	switch req.Phase {
	case types.PhaseCollecting:
		var sb strings.Builder
		for _, issue := range req.ValidationErrors {
			if len(issue.Description) > 0 {
				sb.WriteString(issue.Description)
			} else {
				sb.WriteString(fmt.Sprintf("%s is required", issue.DisplayName))
			}
			sb.WriteString("\n")
			if !g.MergeAllUnvalidatedFields {
				break
			}
		}
		for _, field := range req.MissingFields {
			sb.WriteString(field.DisplayName)
			if len(field.Description) > 0 {
				sb.WriteString(" (")
				sb.WriteString(field.Description)
				sb.WriteString(")")
			}
			sb.WriteString(":\n")
			if !g.MergeAllUnvalidatedFields {
				break
			}
		}
		if sb.Len() == 0 {
			return "All fields are filled. Generating your roadmap...", nil
		}
		return strings.TrimRight(sb.String(), "\n"), nil

	case types.PhaseGenerating:
		return "Generating Your Roadmap...", nil

	case types.PhaseRendered:
		return "Type 'reset' to generate a new roadmap, 'demo' for the demo, or 'quit' to exit.", nil

	default:
		return "Please fill in all fields.", nil
	}
}
