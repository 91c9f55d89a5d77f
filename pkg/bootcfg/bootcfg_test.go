package bootcfg

import "testing"

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.KernelPath != DefaultKernelPath || cfg.Stage3Path != DefaultStage3Path {
		t.Fatalf("unexpected path defaults: %+v", cfg)
	}
	if cfg.KernelAddress != DefaultKernelAddress {
		t.Fatalf("expected default kernel address 0x%x, got 0x%x", DefaultKernelAddress, cfg.KernelAddress)
	}
	if cfg.VideoWidth != DefaultVideoWidth || cfg.VideoHeight != DefaultVideoHeight {
		t.Fatalf("unexpected video defaults: %dx%d", cfg.VideoWidth, cfg.VideoHeight)
	}
}

func TestParseKernelBeginMiBThreshold(t *testing.T) {
	cfg, err := Parse("KERNEL_BEGIN=32\n")
	if err != nil {
		t.Fatal(err)
	}
	want := uint64(32 * 1024 * 1024)
	if cfg.KernelAddress != want {
		t.Fatalf("want 0x%x, got 0x%x", want, cfg.KernelAddress)
	}
}

func TestParseKernelBeginBytesAboveThreshold(t *testing.T) {
	cfg, err := Parse("KERNEL_BEGIN=2097152\n") // 2 MiB in bytes, > 1 MiB threshold
	if err != nil {
		t.Fatal(err)
	}
	if cfg.KernelAddress != 2097152 {
		t.Fatalf("expected literal byte address, got 0x%x", cfg.KernelAddress)
	}
}

func TestParseKernelBeginExactlyOneMiBIsMiBUnits(t *testing.T) {
	cfg, err := Parse("KERNEL_BEGIN=1048576\n")
	if err != nil {
		t.Fatal(err)
	}
	want := uint64(1048576) * 1024 * 1024
	if cfg.KernelAddress != want {
		t.Fatalf("want 0x%x, got 0x%x", want, cfg.KernelAddress)
	}
}

func TestParseIgnoresCommentsAndBlankLines(t *testing.T) {
	cfg, err := Parse("# a comment\n\nKERNEL_ELF=/boot/my.elf\n")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.KernelPath != "/boot/my.elf" {
		t.Fatalf("unexpected kernel path: %q", cfg.KernelPath)
	}
}

func TestParseVideoMode(t *testing.T) {
	cfg, err := Parse("VIDEO=1024x768\n")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.VideoWidth != 1024 || cfg.VideoHeight != 768 {
		t.Fatalf("unexpected video mode: %dx%d", cfg.VideoWidth, cfg.VideoHeight)
	}
}

func TestParseCollectsMalformedLineErrorsButStillResolvesDefaults(t *testing.T) {
	cfg, err := Parse("KERNEL_BEGIN=not-a-number\nNEXT_STAGE_BIN=/bootloader/s2.bin\n")
	if err == nil {
		t.Fatal("expected an aggregated error for the malformed KERNEL_BEGIN line")
	}
	if cfg.KernelAddress != DefaultKernelAddress {
		t.Fatalf("expected fallback to default kernel address, got 0x%x", cfg.KernelAddress)
	}
	if cfg.Stage3Path != "/bootloader/s2.bin" {
		t.Fatalf("expected the well-formed line to still take effect: %q", cfg.Stage3Path)
	}
}

func TestParseOverridesNextStagePath(t *testing.T) {
	cfg, err := Parse("NEXT_STAGE_BIN=/bootloader/custom.bin\n")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Stage3Path != "/bootloader/custom.bin" {
		t.Fatalf("unexpected stage3 path: %q", cfg.Stage3Path)
	}
}

func TestParsePayloadCodec(t *testing.T) {
	cfg, err := Parse("PAYLOAD_CODEC=zstd\n")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PayloadCodec != "zstd" {
		t.Fatalf("unexpected payload codec: %q", cfg.PayloadCodec)
	}
}

func TestRenderRoundTripsThroughParse(t *testing.T) {
	cfg := Config{
		KernelPath:    "/kernel.elf",
		KernelAddress: 16 * 1024 * 1024,
		Stage3Path:    "/bootloader/stage3.bin",
		VideoWidth:    800,
		VideoHeight:   600,
		PayloadCodec:  "xz",
	}
	got, err := Parse(cfg.Render())
	if err != nil {
		t.Fatal(err)
	}
	if got != cfg {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, cfg)
	}
}
