package gtarray

import (
	"io"
)

// Via https://play.golang.org/p/rn0bAjeEGtK

// bitReader reads big-endian (most significant bit first) bit fields.
type bitReader struct {
	reader io.ByteReader
	byte   byte
	offset byte

	errCache    error
	lastBit     bool
	resultCache uint64
}

func newBitReader(r io.ByteReader) *bitReader {
	return &bitReader{r, 0, 0, nil, false, 0}
}

func (r *bitReader) ReadBit() (bool, error) {
	if r.offset == 8 {
		r.offset = 0
	}
	if r.offset == 0 {
		if r.byte, r.errCache = r.reader.ReadByte(); r.errCache != nil {
			return false, r.errCache
		}
	}
	r.lastBit = (r.byte & (0x80 >> r.offset)) != 0
	r.offset++
	return r.lastBit, nil
}

func (r *bitReader) ReadUint(nbits int) (uint64, error) {
	r.resultCache = 0
	for i := nbits - 1; i >= 0; i-- {
		r.lastBit, r.errCache = r.ReadBit()
		if r.errCache != nil {
			return 0, r.errCache
		}
		if r.lastBit {
			r.resultCache |= 1 << uint(i)
		}
	}
	return r.resultCache, nil
}

// bitWriter is the inverse of bitReader. Flush pads the final byte with
// zero bits.
type bitWriter struct {
	writer io.ByteWriter
	byte   byte
	offset byte
}

func newBitWriter(w io.ByteWriter) *bitWriter {
	return &bitWriter{writer: w}
}

func (w *bitWriter) WriteBit(bit bool) error {
	if bit {
		w.byte |= 0x80 >> w.offset
	}
	w.offset++
	if w.offset == 8 {
		return w.Flush()
	}
	return nil
}

func (w *bitWriter) WriteUint(v uint64, nbits int) error {
	for i := nbits - 1; i >= 0; i-- {
		if err := w.WriteBit(v&(1<<uint(i)) != 0); err != nil {
			return err
		}
	}
	return nil
}

func (w *bitWriter) Flush() error {
	if w.offset == 0 {
		return nil
	}
	err := w.writer.WriteByte(w.byte)
	w.byte, w.offset = 0, 0
	return err
}
