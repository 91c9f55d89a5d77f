package payload

import (
	"bytes"
	"io"

	"github.com/pierrec/lz4"
)

// LZ4 implements Compressor with the fast, low-ratio lz4 codec — kept
// verbatim in spirit from the teacher's pkg/compression/lz4.go, which
// wraps the same library the same way.
type LZ4 struct{}

func init() { register(LZ4{}) }

// Name implements Compressor.
func (LZ4) Name() string { return "lz4" }

// Decode implements Compressor.
func (LZ4) Decode(encoded []byte) ([]byte, error) {
	return io.ReadAll(lz4.NewReader(bytes.NewReader(encoded)))
}

// Encode implements Compressor.
func (LZ4) Encode(decoded []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(decoded); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
