package command

import "context"

type Command string

const (
	Demo  Command = "demo"
	Reset Command = "reset"
	Key   Command = "key"
	Help  Command = "help"
	Quit  Command = "quit"
	None  Command = "none"
)

type Parser interface {
	ParseCommand(ctx context.Context, input string) (Command, error)
}
