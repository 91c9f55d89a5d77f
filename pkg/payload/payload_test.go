package payload

import (
	"bytes"
	"testing"
)

func TestRoundTripAllCodecs(t *testing.T) {
	data := bytes.Repeat([]byte("ignis boot payload round trip "), 256)

	for _, name := range []string{"xz", "lz4", "zstd"} {
		name := name
		t.Run(name, func(t *testing.T) {
			c, err := ByName(name)
			if err != nil {
				t.Fatalf("ByName(%q): %v", name, err)
			}
			encoded, err := c.Encode(data)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			decoded, err := c.Decode(encoded)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !bytes.Equal(decoded, data) {
				t.Fatalf("round trip mismatch for codec %s", name)
			}
		})
	}
}

func TestByNameUnknown(t *testing.T) {
	if _, err := ByName("bz2"); err == nil {
		t.Fatal("expected error for unknown codec")
	}
}
