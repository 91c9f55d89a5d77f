package emulator

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestBuildArgsHeadlessAndKVM(t *testing.T) {
	o := Options{ImagePath: "/tmp/disk.img", Headless: true, KVM: true, ExtraArgs: []string{"-m", "512"}}
	args := o.BuildArgs()

	want := []string{"-drive", "format=raw,file=/tmp/disk.img", "-display", "none", "-serial", "stdio", "-enable-kvm", "-m", "512"}
	if len(args) != len(want) {
		t.Fatalf("expected %v, got %v", want, args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Fatalf("arg %d: expected %q, got %q (full: %v)", i, want[i], args[i], args)
		}
	}
}

// writeExitScript creates a tiny executable shell script that ignores
// whatever argv it's launched with (BuildArgs' -drive/-display flags
// among them) and exits with code, standing in for a real emulator
// binary that requested shutdown.
func writeExitScript(t *testing.T, code int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-emulator.sh")
	script := "#!/bin/sh\nexit " + itoa(code) + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		digits = append([]byte{'-'}, digits...)
	}
	return string(digits)
}

func TestRunRemapsShutdownSentinelToSuccess(t *testing.T) {
	o := Options{Binary: writeExitScript(t, ShutdownSentinel), ImagePath: "/tmp/disk.img", Stdout: os.Stdout, Stderr: os.Stderr}
	if err := Run(context.Background(), o); err != nil {
		t.Fatalf("expected sentinel exit code to be remapped to nil, got %v", err)
	}
}

func TestRunPropagatesNonSentinelExitCode(t *testing.T) {
	o := Options{Binary: writeExitScript(t, 1), ImagePath: "/tmp/disk.img", Stdout: os.Stdout, Stderr: os.Stderr}
	if err := Run(context.Background(), o); err == nil {
		t.Fatal("expected a non-sentinel exit code to return an error")
	}
}
