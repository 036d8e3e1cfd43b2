// Package compression provides the LZ4 codec used to shrink large
// transaction payloads (clearing cycles up to length 6 carry six edges'
// worth of JSON) before they are persisted. Adapted from the teacher's
// nodestore compression layer.
package compression

import (
	"fmt"

	"github.com/pierrec/lz4"
)

// Codec compresses and decompresses transaction payloads.
type Codec interface {
	Name() string
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// None is a pass-through codec, used when a payload is small enough
// that compression isn't worth the CPU.
type None struct{}

func (None) Name() string { return "none" }

func (None) Compress(data []byte) ([]byte, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (None) Decompress(data []byte) ([]byte, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// LZ4 implements block-level LZ4 compression.
type LZ4 struct{}

func (LZ4) Name() string { return "lz4" }

func (LZ4) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	compressed := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("compression: lz4 compress: %w", err)
	}
	if n == 0 {
		// Incompressible block: lz4.CompressBlock returns n=0 rather
		// than an error. Fall back to storing it raw.
		return None{}.Compress(data)
	}
	return compressed[:n], nil
}

func (LZ4) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	for bufferSize := len(data) * 2; bufferSize <= len(data)*10; bufferSize *= 2 {
		decompressed := make([]byte, bufferSize)
		n, err := lz4.UncompressBlock(data, decompressed)
		if err == nil {
			return decompressed[:n], nil
		}
	}
	return nil, fmt.Errorf("compression: lz4 decompress: exhausted buffer growth")
}

// CompressIfWorthwhile compresses data with codec only when it is at
// least minSize bytes; smaller payloads are passed through uncompressed
// to avoid paying LZ4's framing overhead for no benefit.
func CompressIfWorthwhile(codec Codec, data []byte, minSize int) (compressed []byte, name string, err error) {
	if len(data) < minSize {
		out, err := None{}.Compress(data)
		return out, None{}.Name(), err
	}
	out, err := codec.Compress(data)
	if err != nil {
		return nil, "", err
	}
	return out, codec.Name(), nil
}
