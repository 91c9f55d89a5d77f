// Package commands defines the shared verb interface and error types
// every ignisctl subcommand implements, grounded on the teacher's
// cmds/fittool/commands/command.go.
package commands

import "github.com/jessevdk/go-flags"

// Command is the interface every ignisctl subcommand ("build", "run",
// "test", "clean", "inspect") implements.
type Command interface {
	flags.Commander

	// ShortDescription explains what this command does in one line.
	ShortDescription() string

	// LongDescription explains what this verb does in more detail.
	LongDescription() string
}
