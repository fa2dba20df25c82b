package dialogue

import (
	"context"

	"github.com/tbxark/roadmapagent/types"
)

type Request struct {
	Phase      types.Phase
	Configured bool

	MissingFields    []types.FieldInfo
	ValidationErrors []types.FieldInfo
}

type Generator interface {
	GenerateDialogue(ctx context.Context, req *Request) (string, error)
}
