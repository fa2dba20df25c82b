package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalCommandParser(t *testing.T) {
	parser := NewLocalCommandParser()
	tests := []struct {
		input string
		want  Command
	}{
		{"demo", Demo},
		{"  Try   Demo ", Demo},
		{"/reset", Reset},
		{"Generate New Roadmap", Reset},
		{"KEY", Key},
		{"exit", Quit},
		{"?", Help},
		{"", None},
		{"Software Developer", None},
		{"demo please", None},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parser.ParseCommand(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
