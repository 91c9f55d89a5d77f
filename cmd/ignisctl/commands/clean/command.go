// Package clean implements ignisctl's `clean` subcommand (C7): removing
// the build-output tree.
package clean

import (
	"fmt"
	"os"

	"github.com/ignisboot/ignis/cmd/ignisctl/commands"
)

var _ commands.Command = (*Command)(nil)

// Command implements `ignisctl clean`.
type Command struct {
	OutDir string `long:"out" default:"build" description:"build-output directory to remove"`
}

// ShortDescription implements commands.Command.
func (cmd *Command) ShortDescription() string {
	return "removes the build-output directory"
}

// LongDescription implements commands.Command.
func (cmd *Command) LongDescription() string {
	return "Removes the directory written by `build` (assembled stage blobs and disk.img)."
}

// Execute implements flags.Commander.
func (cmd *Command) Execute(args []string) error {
	if len(args) != 0 {
		return commands.ErrArgs{Err: fmt.Errorf("clean takes no positional arguments")}
	}
	if err := os.RemoveAll(cmd.OutDir); err != nil {
		return fmt.Errorf("clean: %w", err)
	}
	fmt.Printf("ignisctl: removed %s\n", cmd.OutDir)
	return nil
}
