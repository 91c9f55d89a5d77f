package payload

import (
	"bytes"
	"io"

	"github.com/ulikunitz/xz"
)

// XZ implements Compressor using the pure-Go xz codec, the best ratio of
// the three registered here. It is used only when the build command's
// --compress flag names it; that flag defaults to "none".
type XZ struct{}

func init() { register(XZ{}) }

// Name implements Compressor.
func (XZ) Name() string { return "xz" }

// Decode implements Compressor.
func (XZ) Decode(encoded []byte) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

// Encode implements Compressor.
func (XZ) Encode(decoded []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(decoded); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
