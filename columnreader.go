package gtarray

import (
	"encoding/binary"
	"io"

	"github.com/carbocation/pfx"
)

// Record is one column read back from a column file.
type Record struct {
	Name   string
	Offset int64
	Array  *Array
}

// ColumnReader iterates over the column blocks of a File in order.
type ColumnReader struct {
	ColumnsSeen   uint32
	f             *File
	currentOffset int64
	err           error

	// Cached values
	buffer []byte
}

func (f *File) NewColumnReader() *ColumnReader {
	cr := &ColumnReader{
		currentOffset: int64(f.ColumnsStart),
		f:             f,
	}

	return cr
}

func (cr *ColumnReader) Error() error {
	return cr.err
}

// Read returns the next column, or nil after the last column or on error.
// Check Error once Read returns nil.
func (cr *ColumnReader) Read() *Record {
	if cr.err != nil || cr.ColumnsSeen >= cr.f.NColumns {
		return nil
	}
	rec, newOffset, err := cr.parseColumnAtOffset(cr.currentOffset)
	if err != nil {
		if err != io.EOF {
			cr.err = pfx.Err(err)
		}
		return nil
	}

	cr.ColumnsSeen++
	cr.currentOffset = newOffset

	return rec
}

// ReadAt reads the column whose block starts at offset, as reported by
// Record.Offset. It does not move the reader's position.
func (cr *ColumnReader) ReadAt(offset int64) (*Record, error) {
	rec, _, err := cr.parseColumnAtOffset(offset)
	if err != nil {
		return nil, pfx.Err(err)
	}
	return rec, nil
}

// parseColumnAtOffset does not advance the ColumnReader.
func (cr *ColumnReader) parseColumnAtOffset(offset int64) (*Record, int64, error) {
	start := offset
	if err := cr.readNBytesAtOffset(4, offset); err != nil {
		return nil, offset, err
	}
	offset += 4
	blockLength := int(binary.LittleEndian.Uint32(cr.buffer[:4]))

	if err := cr.readNBytesAtOffset(blockLength, offset); err != nil {
		return nil, offset, err
	}
	offset += int64(blockLength)

	name, a, err := decodeBlock(cr.buffer[:blockLength])
	if err != nil {
		return nil, offset, err
	}

	return &Record{Name: name, Offset: start, Array: a}, offset, nil
}

func (cr *ColumnReader) readNBytesAtOffset(N int, offset int64) error {
	if cr.buffer == nil || len(cr.buffer) < N {
		cr.buffer = make([]byte, N)
	}

	_, err := cr.f.source.ReadAt(cr.buffer[:N], offset)
	return err
}
