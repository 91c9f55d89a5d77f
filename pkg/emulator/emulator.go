// Package emulator launches the assembled disk image under an emulator
// (C7 part, spec §4.7's `run` subcommand): it builds the argument list,
// runs the subprocess, and remaps the guest-triggered-shutdown sentinel
// exit code to success.
package emulator

import (
	"context"
	"errors"
	"os"
	"os/exec"
)

// ShutdownSentinel is the exit code the guest uses to request a clean
// shutdown (spec §4.7/§6); the orchestrator remaps it to 0 so an
// intentional guest shutdown is reported as a successful `run`.
const ShutdownSentinel = 33

// Options configures one emulator launch.
type Options struct {
	// Binary is the emulator executable, e.g. "qemu-system-x86_64".
	Binary string
	// ImagePath is the assembled disk image (pkg/image's output).
	ImagePath string
	// Headless disables the graphical display (-display none / -nographic).
	Headless bool
	// KVM enables hardware acceleration (-enable-kvm) when available.
	KVM bool
	// ExtraArgs are appended verbatim after the built-in argument set.
	ExtraArgs []string

	Stdout, Stderr *os.File
}

// BuildArgs constructs the emulator's argv (excluding argv[0]) from o.
func (o Options) BuildArgs() []string {
	args := []string{"-drive", "format=raw,file=" + o.ImagePath}
	if o.Headless {
		args = append(args, "-display", "none", "-serial", "stdio")
	}
	if o.KVM {
		args = append(args, "-enable-kvm")
	}
	args = append(args, o.ExtraArgs...)
	return args
}

// Run launches the emulator and waits for it to exit, remapping
// ShutdownSentinel to a nil error (success) and any other non-zero exit
// to an *exec.ExitError the caller can inspect for the real code (spec
// §4.7: "exits with the emulator's status, except a sentinel value (33)
// is remapped to success").
func Run(ctx context.Context, o Options) error {
	cmd := exec.CommandContext(ctx, o.Binary, o.BuildArgs()...)
	cmd.Stdout = o.Stdout
	cmd.Stderr = o.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == ShutdownSentinel {
		return nil
	}
	return err
}
