package stagebuild

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEmitStubProducesHaltingCode(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "stage1.bin")
	spec := StageSpec{Name: "stage1", MaxSize: 32}

	if err := EmitStub(spec, outPath); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 32 {
		t.Fatalf("expected padded stub of 32 bytes, got %d", len(data))
	}
	if data[0] != 0xFA {
		t.Fatalf("expected stub to start with cli (0xFA), got %#x", data[0])
	}
	if data[len(data)-1] != 0xF4 {
		t.Fatalf("expected stub padding to be hlt (0xF4), got %#x", data[len(data)-1])
	}
}

func TestEmitStubRejectsOversizedCode(t *testing.T) {
	dir := t.TempDir()
	spec := StageSpec{Name: "tiny", MaxSize: 4}
	if err := EmitStub(spec, filepath.Join(dir, "tiny.bin")); err == nil {
		t.Fatal("expected error when the stub's real code exceeds MaxSize")
	}
}

func TestEmitStubUnboundedWhenMaxSizeZero(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "stage2.bin")
	if err := EmitStub(StageSpec{Name: "stage2"}, outPath); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 || len(data) > 16 {
		t.Fatalf("expected a short, unpadded stub, got %d bytes", len(data))
	}
}

func TestUnavailableToolchainFallsBackToStub(t *testing.T) {
	tc := Toolchain{NASMPath: "no-such-nasm-binary", LDPath: "no-such-ld-binary"}
	if tc.Available() {
		t.Fatal("expected a nonexistent toolchain to report unavailable")
	}

	dir := t.TempDir()
	path, err := Assemble(tc, StageSpec{Name: "stage1", MaxSize: 32}, dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected Assemble to produce a file at %s: %v", path, err)
	}
}

func TestScrubbedEnvironRemovesRustFlags(t *testing.T) {
	t.Setenv("RUSTFLAGS", "-C target-feature=+crt-static")
	t.Setenv("SOME_OTHER_VAR", "kept")

	env := ScrubbedEnviron()
	for _, kv := range env {
		if len(kv) >= len("RUSTFLAGS=") && kv[:len("RUSTFLAGS=")] == "RUSTFLAGS=" {
			t.Fatalf("expected RUSTFLAGS to be scrubbed, found %q", kv)
		}
	}
	found := false
	for _, kv := range env {
		if kv == "SOME_OTHER_VAR=kept" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected unrelated environment variables to survive scrubbing")
	}
}
