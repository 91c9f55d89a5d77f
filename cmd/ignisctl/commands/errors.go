package commands

import "fmt"

// ErrArgs means the arguments given to a subcommand are invalid, as
// distinct from an error encountered while executing a well-formed
// command (grounded on cmds/fittool/commands/errors.go).
type ErrArgs struct {
	Err error
}

func (err ErrArgs) Error() string {
	return fmt.Sprintf("invalid arguments: %v", err.Err)
}

func (err ErrArgs) Unwrap() error {
	return err.Err
}
