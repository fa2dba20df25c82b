package command

import (
	"context"
	"strings"
)

// LocalCommandParser matches whole-line keywords. Anything else is form input.
type LocalCommandParser struct {
	Keywords map[Command][]string
}

func NewLocalCommandParser() *LocalCommandParser {
	return &LocalCommandParser{
		Keywords: map[Command][]string{
			Demo:  {"demo", "/demo", "try demo"},
			Reset: {"reset", "/reset", "new", "generate new roadmap"},
			Key:   {"key", "/key", "configure api key"},
			Help:  {"help", "/help", "?"},
			Quit:  {"quit", "/quit", "exit", "/exit", "q"},
		},
	}
}

var commandOrder = []Command{Quit, Help, Key, Reset, Demo}

func (p *LocalCommandParser) ParseCommand(ctx context.Context, input string) (Command, error) {
	normalized := strings.ToLower(strings.Join(strings.Fields(input), " "))
	if normalized == "" {
		return None, nil
	}
	for _, cmd := range commandOrder {
		for _, keyword := range p.Keywords[cmd] {
			if normalized == keyword {
				return cmd, nil
			}
		}
	}
	return None, nil
}
