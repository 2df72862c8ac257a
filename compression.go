package wfs

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression selects the archive codec cmd/wfsadm uses for snapshot and
// restore (§B.1). The on-disk filesystem format itself is never
// compressed — these are the two codecs the teacher's own pluggable
// compressor selection (comp.go's SquashComp enum) offered, repurposed
// here for backup tooling instead of live block decompression.
type Compression uint8

const (
	CompressionXZ Compression = iota
	CompressionZstd
)

func (c Compression) String() string {
	switch c {
	case CompressionXZ:
		return "xz"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// ParseCompression maps a CLI flag value to a Compression.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "xz":
		return CompressionXZ, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("wfs: unrecognized compression %q", s)
	}
}

// NewWriter wraps w so that bytes written to the result are compressed with
// this codec. The caller must Close the returned writer to flush it.
func (c Compression) NewWriter(w io.Writer) (io.WriteCloser, error) {
	switch c {
	case CompressionXZ:
		return xz.NewWriter(w)
	case CompressionZstd:
		return zstd.NewWriter(w)
	default:
		return nil, fmt.Errorf("wfs: unrecognized compression %q", c)
	}
}

// NewReader wraps r so that reads from the result are decompressed with
// this codec.
func (c Compression) NewReader(r io.Reader) (io.ReadCloser, error) {
	switch c {
	case CompressionXZ:
		rc, err := xz.NewReader(r)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(rc), nil
	case CompressionZstd:
		rc, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return rc.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("wfs: unrecognized compression %q", c)
	}
}
