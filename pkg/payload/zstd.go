package payload

import "github.com/klauspost/compress/zstd"

// Zstd implements Compressor with klauspost/compress's zstd, the third
// codec option the orchestrator's --compress flag accepts.
type Zstd struct{}

func init() { register(Zstd{}) }

// Name implements Compressor.
func (Zstd) Name() string { return "zstd" }

// Decode implements Compressor.
func (Zstd) Decode(encoded []byte) ([]byte, error) {
	d, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer d.Close()
	return d.DecodeAll(encoded, nil)
}

// Encode implements Compressor.
func (Zstd) Encode(decoded []byte) ([]byte, error) {
	e, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer e.Close()
	return e.EncodeAll(decoded, nil), nil
}
