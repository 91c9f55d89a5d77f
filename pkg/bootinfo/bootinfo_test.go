package bootinfo

import "testing"

func TestNewSetsMagic(t *testing.T) {
	b := New()
	if b.Magic != Magic {
		t.Fatalf("expected magic %#x, got %#x", Magic, b.Magic)
	}
}

func TestBytesRoundTrip(t *testing.T) {
	b := New()
	b.BootDiskID = 0x80
	b.Payloads.Kernel = PayloadDescriptor{LoadAddress: 0x01000000, SizeBytes: 4096}
	b.Payloads.Stage2 = PayloadDescriptor{LoadAddress: 0x8000, SizeBytes: 512}
	b.Video = Video{ModeID: 0x118, Width: 800, Height: 600, BPP: 32, FramebufferPhys: 0xFD000000}
	b.MemoryMapPtr = 0x90000
	b.MemoryMapLen = 20

	data, err := b.Bytes()
	if err != nil {
		t.Fatal(err)
	}

	got, err := FromBytes(minValidAddr, data)
	if err != nil {
		t.Fatal(err)
	}
	if got.BootDiskID != b.BootDiskID {
		t.Fatalf("BootDiskID mismatch: got %#x want %#x", got.BootDiskID, b.BootDiskID)
	}
	if got.Payloads.Kernel != b.Payloads.Kernel {
		t.Fatalf("Kernel payload mismatch: got %+v want %+v", got.Payloads.Kernel, b.Payloads.Kernel)
	}
	if got.Video != b.Video {
		t.Fatalf("Video mismatch: got %+v want %+v", got.Video, b.Video)
	}
	if got.MemoryMapPtr != b.MemoryMapPtr || got.MemoryMapLen != b.MemoryMapLen {
		t.Fatalf("memory map fields mismatch: got (%d,%d) want (%d,%d)",
			got.MemoryMapPtr, got.MemoryMapLen, b.MemoryMapPtr, b.MemoryMapLen)
	}
}

func TestFromBytesRejectsLowAddress(t *testing.T) {
	b := New()
	data, err := b.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := FromBytes(0x1000, data); err != errBelowOneMiB {
		t.Fatalf("expected errBelowOneMiB, got %v", err)
	}
}

func TestFromBytesRejectsBadMagic(t *testing.T) {
	b := BootInfo{Magic: 0xbadbad}
	data, err := b.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := FromBytes(minValidAddr, data); err != errBadMagic {
		t.Fatalf("expected errBadMagic, got %v", err)
	}
}
