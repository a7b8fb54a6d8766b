package gtarray

import (
	"bytes"
	"fmt"
	"io"

	"github.com/carbocation/pfx"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// Compression indicates how (and whether) a column block's code data is
// compressed
type Compression uint32

const (
	CompressionDisabled Compression = iota
	CompressionZLIB
	CompressionZStandard
)

func (c Compression) String() string {
	switch c {
	case CompressionDisabled:
		return "CompressionDisabled"
	case CompressionZLIB:
		return "CompressionZLIB"
	case CompressionZStandard:
		return "CompressionZStandard"
	default:
		return "Illegal selection"
	}
}

func compress(c Compression, src []byte) ([]byte, error) {
	switch c {
	case CompressionDisabled:
		return src, nil
	case CompressionZLIB:
		var buf bytes.Buffer
		w := zlib.NewWriter(&buf)
		if _, err := w.Write(src); err != nil {
			return nil, pfx.Err(err)
		}
		if err := w.Close(); err != nil {
			return nil, pfx.Err(err)
		}
		return buf.Bytes(), nil
	case CompressionZStandard:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, pfx.Err(err)
		}
		defer enc.Close()
		return enc.EncodeAll(src, nil), nil
	}
	return nil, pfx.Err(fmt.Errorf("Compression choice %s is not supported", c))
}

// decompress inflates src, which must expand to exactly size bytes.
func decompress(c Compression, src []byte, size int) ([]byte, error) {
	var out []byte
	switch c {
	case CompressionDisabled:
		out = src
	case CompressionZLIB:
		r, err := zlib.NewReader(bytes.NewReader(src))
		if err != nil {
			return nil, pfx.Err(err)
		}
		defer r.Close()
		out = make([]byte, size)
		if _, err := io.ReadFull(r, out); err != nil {
			return nil, pfx.Err(err)
		}
	case CompressionZStandard:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, pfx.Err(err)
		}
		defer dec.Close()
		if out, err = dec.DecodeAll(src, make([]byte, 0, size)); err != nil {
			return nil, pfx.Err(err)
		}
	default:
		return nil, pfx.Err(fmt.Errorf("Compression choice %s is not supported", c))
	}
	if len(out) != size {
		return nil, pfx.Err(fmt.Errorf("Code data decompressed to %d bytes; expected %d", len(out), size))
	}
	return out, nil
}
