package command

import "context"

type Command string

const (
	Answer  Command = "answer"
	Back    Command = "back"
	Exit    Command = "exit"
	Restart Command = "restart"
	Retry   Command = "retry"
)

// Parser decides whether a line of user input is a navigation command or an
// answer to the current step.
type Parser interface {
	ParseCommand(ctx context.Context, input string) (Command, error)
}
