// Package test implements ignisctl's `test` subcommand (C7, spec §4.7
// and §5's ambient test-tooling expansion): running the Go library test
// suite, and optionally the kernel-side integration suite under the
// emulator with a test-harness exit-code convention.
package test

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/ignisboot/ignis/cmd/ignisctl/commands"
	"github.com/ignisboot/ignis/cmd/ignisctl/commands/run"
	"github.com/ignisboot/ignis/pkg/emulator"
)

var _ commands.Command = (*Command)(nil)

// Command implements `ignisctl test`.
type Command struct {
	Libs   bool `short:"l" long:"test-libs" default:"true" description:"run the Go unit test suite (go test ./...)"`
	Kernel bool `short:"k" long:"test-kernel" description:"boot the image under the emulator and run the kernel integration suite"`

	Run run.Command `group:"run options" namespace:"run"`
}

// ShortDescription implements commands.Command.
func (cmd *Command) ShortDescription() string {
	return "runs the Go unit suite and/or the emulator-hosted integration suite"
}

// LongDescription implements commands.Command.
func (cmd *Command) LongDescription() string {
	return "With --test-libs (default), runs `go test ./...` over this module. With " +
		"--test-kernel, builds and boots the disk image headless and treats the guest's " +
		"shutdown sentinel as the pass/fail signal, mirroring the run subcommand's exit-code remap."
}

// Execute implements flags.Commander.
func (cmd *Command) Execute(args []string) error {
	if len(args) != 0 {
		return commands.ErrArgs{Err: fmt.Errorf("test takes no positional arguments")}
	}
	if !cmd.Libs && !cmd.Kernel {
		return commands.ErrArgs{Err: fmt.Errorf("at least one of --test-libs or --test-kernel must be set")}
	}

	if cmd.Libs {
		goTest := exec.Command("go", "test", "./...")
		goTest.Stdout, goTest.Stderr = os.Stdout, os.Stderr
		if err := goTest.Run(); err != nil {
			return fmt.Errorf("test: library suite failed: %w", err)
		}
	}

	if cmd.Kernel {
		cmd.Run.Headless = true
		if !cmd.Run.SkipBuild {
			if err := cmd.Run.Build.Execute(nil); err != nil {
				return fmt.Errorf("test: build step failed: %w", err)
			}
			cmd.Run.SkipBuild = true
		}
		opts := emulator.Options{
			Binary:    cmd.Run.Emulator,
			ImagePath: cmd.Run.Build.OutDir + "/disk.img",
			Headless:  true,
			KVM:       cmd.Run.KVM,
			Stdout:    os.Stdout,
			Stderr:    os.Stderr,
		}
		if opts.Binary == "" {
			opts.Binary = "qemu-system-x86_64"
		}
		if err := emulator.Run(context.Background(), opts); err != nil {
			return fmt.Errorf("test: kernel integration suite failed: %w", err)
		}
	}
	return nil
}
