package gtarray

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/carbocation/pfx"
)

// MagicNumber contains the value required to confirm that a file holds
// genotype columns
const MagicNumber = "gtca"

// FormatVersion is the version of the column file format written by
// WriteFrame.
const FormatVersion = 1

const (
	offsetMagicNumber   = 0
	offsetVersion       = 4
	offsetNumberColumns = 8
	offsetNumberSamples = 12
	offsetFlags         = 16
	offsetColumnsStart  = 20
	headerLength        = 24
)

// File is an open genotype column file: a fixed header, an optional block
// of sample IDs, then one block per column (see encodeBlock).
type File struct {
	FilePath         string
	NColumns         uint32
	NSamples         uint32
	FlagCompression  Compression
	FlagLayout       Layout
	FlagHasSampleIDs uint32
	SamplesStart     uint32
	ColumnsStart     uint32

	source readerAtCloser
}

// Open reads the header of the column file at path, which may be local or a
// gs://bucket/object URL.
func Open(path string) (*File, error) {
	return OpenContext(context.Background(), path)
}

// OpenContext is Open with a context that bounds remote reads.
func OpenContext(ctx context.Context, path string) (*File, error) {
	f := &File{
		FilePath: path,
	}

	src, err := openSource(ctx, path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	f.source = src

	if err := populateHeader(f); err != nil {
		src.Close()
		return nil, pfx.Err(err)
	}

	return f, nil
}

func (f *File) Close() error {
	return f.source.Close()
}

func populateHeader(f *File) error {
	buffer := make([]byte, headerLength)
	if err := f.parseAtOffsetWithBuffer(0, buffer); err != nil {
		return pfx.Err(err)
	}

	if magic := string(buffer[offsetMagicNumber : offsetMagicNumber+4]); magic != MagicNumber {
		return pfx.Err(fmt.Errorf("The header value at offset %d is expected to resolve to the Magic Number %s (%v when printed as a byte slice), but instead resolved to byte slice %v", offsetMagicNumber, MagicNumber, []byte(MagicNumber), []byte(magic)))
	}
	if version := binary.LittleEndian.Uint16(buffer[offsetVersion:]); version != FormatVersion {
		return pfx.Err(fmt.Errorf("File format version %d is not supported; expected %d", version, FormatVersion))
	}

	f.NColumns = binary.LittleEndian.Uint32(buffer[offsetNumberColumns:])
	f.NSamples = binary.LittleEndian.Uint32(buffer[offsetNumberSamples:])

	flags := binary.LittleEndian.Uint32(buffer[offsetFlags:])
	f.FlagCompression = Compression(flags & 3)
	f.FlagLayout = Layout((flags & (15 << 2)) >> 2)
	f.FlagHasSampleIDs = (flags & (1 << 31)) >> 31

	f.SamplesStart = headerLength
	f.ColumnsStart = binary.LittleEndian.Uint32(buffer[offsetColumnsStart:])

	return nil
}

func (f *File) parseAtOffsetWithBuffer(offset int64, buffer []byte) error {
	_, err := f.source.ReadAt(buffer, offset)
	if err != nil {
		return pfx.Err(err)
	}

	return nil
}

// WriteOption configures WriteFrame.
type WriteOption func(*blockOptions)

// WithLayout selects the code layout. The default is Layout2.
func WithLayout(l Layout) WriteOption {
	return func(o *blockOptions) { o.layout = l }
}

// WithCompression selects the code compression. The default is
// CompressionZStandard.
func WithCompression(c Compression) WriteOption {
	return func(o *blockOptions) { o.compression = c }
}

// WriteFrame writes every column of frame, and its sample IDs if it has
// any, in the column file format.
func WriteFrame(w io.Writer, frame *Frame, opts ...WriteOption) error {
	o := blockOptions{layout: Layout2, compression: CompressionZStandard}
	for _, opt := range opts {
		opt(&o)
	}

	var samples bytes.Buffer
	for _, s := range frame.samples {
		if err := putString16(&samples, s.SampleID); err != nil {
			return pfx.Err(err)
		}
	}

	flags := uint32(o.compression)&3 | (uint32(o.layout)&15)<<2
	if len(frame.samples) > 0 {
		flags |= 1 << 31
	}

	header := make([]byte, headerLength)
	copy(header[offsetMagicNumber:], MagicNumber)
	binary.LittleEndian.PutUint16(header[offsetVersion:], FormatVersion)
	binary.LittleEndian.PutUint32(header[offsetNumberColumns:], uint32(len(frame.names)))
	binary.LittleEndian.PutUint32(header[offsetNumberSamples:], uint32(frame.NRows()))
	binary.LittleEndian.PutUint32(header[offsetFlags:], flags)
	binary.LittleEndian.PutUint32(header[offsetColumnsStart:], uint32(headerLength+samples.Len()))

	if _, err := w.Write(header); err != nil {
		return pfx.Err(err)
	}
	if _, err := w.Write(samples.Bytes()); err != nil {
		return pfx.Err(err)
	}
	for _, name := range frame.names {
		block, err := encodeBlock(name, frame.columns[name], o)
		if err != nil {
			return pfx.Err(fmt.Errorf("column %q: %w", name, err))
		}
		if _, err := w.Write(block); err != nil {
			return pfx.Err(err)
		}
	}
	return nil
}

// ReadFrame reads the samples and every column of f.
func ReadFrame(f *File) (*Frame, error) {
	var samples []Sample
	if f.FlagHasSampleIDs == 1 {
		s, err := ReadSamples(f)
		if err != nil {
			return nil, pfx.Err(err)
		}
		samples = s
	}

	frame := NewFrame(samples)
	cr := f.NewColumnReader()
	for rec := cr.Read(); rec != nil; rec = cr.Read() {
		if err := frame.Add(rec.Name, rec.Array); err != nil {
			return nil, pfx.Err(err)
		}
	}
	if cr.Error() != nil {
		return nil, pfx.Err(cr.Error())
	}
	if uint32(len(frame.names)) != f.NColumns {
		return nil, pfx.Err(fmt.Errorf("Read %d columns; the header declares %d", len(frame.names), f.NColumns))
	}
	return frame, nil
}
