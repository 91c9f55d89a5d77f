// Package run implements ignisctl's `run` subcommand (C7, spec §4.7):
// optionally builds the disk image, then launches it under an emulator.
package run

import (
	"context"
	"fmt"
	"os"

	"github.com/ignisboot/ignis/cmd/ignisctl/commands"
	"github.com/ignisboot/ignis/cmd/ignisctl/commands/build"
	"github.com/ignisboot/ignis/pkg/emulator"
)

var _ commands.Command = (*Command)(nil)

// Command implements `ignisctl run`.
type Command struct {
	SkipBuild bool   `long:"skip-build" description:"launch the existing build/disk.img without rebuilding"`
	Headless  bool   `long:"headless" description:"run without a graphical display, serial routed to stdio"`
	KVM       bool   `long:"kvm" description:"enable hardware acceleration via KVM"`
	Emulator  string `long:"emulator" default:"qemu-system-x86_64" description:"emulator binary to launch"`

	Build build.Command `group:"build options" namespace:"build"`
}

// ShortDescription implements commands.Command.
func (cmd *Command) ShortDescription() string {
	return "builds (unless --skip-build) and launches the disk image under an emulator"
}

// LongDescription implements commands.Command.
func (cmd *Command) LongDescription() string {
	return "Runs the `build` subcommand unless --skip-build is given, then launches the " +
		"resulting disk image under the configured emulator. A guest-triggered shutdown " +
		"(sentinel exit code 33) is reported as success."
}

// Execute implements flags.Commander.
func (cmd *Command) Execute(args []string) error {
	if len(args) != 0 {
		return commands.ErrArgs{Err: fmt.Errorf("run takes no positional arguments")}
	}

	if !cmd.SkipBuild {
		if err := cmd.Build.Execute(nil); err != nil {
			return fmt.Errorf("run: build step failed: %w", err)
		}
	}

	imagePath := cmd.Build.OutDir + "/disk.img"
	opts := emulator.Options{
		Binary:    cmd.Emulator,
		ImagePath: imagePath,
		Headless:  cmd.Headless,
		KVM:       cmd.KVM,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
	if err := emulator.Run(context.Background(), opts); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
