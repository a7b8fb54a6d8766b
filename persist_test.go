package gtarray

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, f *Frame, opts ...WriteOption) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, f, opts...))

	path := filepath.Join(t.TempDir(), "test.gtca")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func assertFramesEqual(t *testing.T, expected, got *Frame) {
	t.Helper()
	require.Equal(t, expected.Names(), got.Names())
	assert.Equal(t, expected.Samples(), got.Samples())
	for _, name := range expected.Names() {
		a, _ := expected.Column(name)
		b, _ := got.Column(name)
		assert.True(t, a.Equals(b), "column %s: %s vs %s", name, a, b)
		assert.Equal(t, a.Strings(), b.Strings(), "column %s", name)
	}
}

func TestArrayMarshalBinary(t *testing.T) {
	v, err := NewVariant("X", 42, "rs42", "A", "G", "<DEL>")
	require.NoError(t, err)
	a := mustArray(t, []string{"A/G", "<DEL>|A", "./.", "G/A", "G/G"}, WithVariant(v))

	data, err := a.MarshalBinary()
	require.NoError(t, err)

	var b Array
	require.NoError(t, b.UnmarshalBinary(data))
	assert.True(t, a.Equals(&b))
	assert.Equal(t, a.Codes(), b.Codes())
	assert.True(t, v.Equal(b.Variant()))

	assert.Error(t, b.UnmarshalBinary(data[:3]))
	assert.Error(t, b.UnmarshalBinary(data[:len(data)-1]))
}

func TestEncodeBlockFieldWidths(t *testing.T) {
	// A single allele keeps the code space at 1 for any ploidy.
	a, err := New(VariantOf(MustAlleleSet("A")), 70000, 2)
	require.NoError(t, err)

	_, err = a.MarshalBinary()
	assert.ErrorContains(t, err, "Ploidy 70000")

	_, err = encodeBlock("wide", a, blockOptions{layout: Layout2})
	assert.Error(t, err)
}

func TestPackCodes(t *testing.T) {
	codes := []uint32{0, 3, MissingCode, 1 | phasedBit, 2}
	for _, layout := range []Layout{Layout1, Layout2} {
		t.Run(layout.String(), func(t *testing.T) {
			data, nbits, err := packCodes(codes, layout)
			require.NoError(t, err)
			got, err := unpackCodes(data, layout, nbits, len(codes))
			require.NoError(t, err)
			assert.Equal(t, codes, got)
		})
	}

	// Layout2 needs only as many bits as the largest packed code.
	data, nbits, err := packCodes([]uint32{0, 1, MissingCode}, Layout2)
	require.NoError(t, err)
	assert.Equal(t, 2, nbits)
	assert.Len(t, data, 1)

	_, _, err = packCodes(codes, Layout(9))
	assert.Error(t, err)
}

func TestPackedCodes(t *testing.T) {
	for _, code := range []uint32{0, 1, 17, phasedBit, phasedBit | 5, (1 << 31) - 2, MissingCode} {
		assert.Equal(t, code, unpacked(packed(code)), "code 0x%08x", code)
	}
	assert.Equal(t, uint32(0), packed(MissingCode))
}

func TestWriteReadFrame(t *testing.T) {
	frame := testFrame(t)
	for _, layout := range []Layout{Layout1, Layout2} {
		for _, comp := range []Compression{CompressionDisabled, CompressionZLIB, CompressionZStandard} {
			t.Run(layout.String()+"/"+comp.String(), func(t *testing.T) {
				path := writeTestFile(t, frame, WithLayout(layout), WithCompression(comp))

				f, err := Open(path)
				require.NoError(t, err)
				defer f.Close()

				assert.Equal(t, uint32(3), f.NColumns)
				assert.Equal(t, uint32(4), f.NSamples)
				assert.Equal(t, layout, f.FlagLayout)
				assert.Equal(t, comp, f.FlagCompression)
				assert.Equal(t, uint32(1), f.FlagHasSampleIDs)

				got, err := ReadFrame(f)
				require.NoError(t, err)
				assertFramesEqual(t, frame, got)
			})
		}
	}
}

func TestReadFrameWithoutSamples(t *testing.T) {
	frame := NewFrame(nil)
	require.NoError(t, frame.Add("only", mustArray(t, []string{"A/A", "T|A", "./."})))
	path := writeTestFile(t, frame)

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, uint32(0), f.FlagHasSampleIDs)
	_, err = ReadSamples(f)
	assert.Error(t, err)

	got, err := ReadFrame(f)
	require.NoError(t, err)
	assert.Equal(t, 3, got.NRows())
	assertFramesEqual(t, frame, got)
}

func TestColumnReaderReadAt(t *testing.T) {
	frame := testFrame(t)
	f, err := Open(writeTestFile(t, frame))
	require.NoError(t, err)
	defer f.Close()

	cr := f.NewColumnReader()
	var records []*Record
	for rec := cr.Read(); rec != nil; rec = cr.Read() {
		records = append(records, rec)
	}
	require.NoError(t, cr.Error())
	require.Len(t, records, 3)
	assert.Equal(t, int64(f.ColumnsStart), records[0].Offset)
	assert.Nil(t, cr.Read())

	// Random access, out of order.
	other := f.NewColumnReader()
	rec, err := other.ReadAt(records[2].Offset)
	require.NoError(t, err)
	assert.Equal(t, "rs3", rec.Name)
	rec, err = other.ReadAt(records[1].Offset)
	require.NoError(t, err)
	assert.Equal(t, "rs2", rec.Name)
	assert.Equal(t, uint32(0), other.ColumnsSeen)
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(filepath.Join(dir, "missing.gtca"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.gtca")
	require.NoError(t, os.WriteFile(bad, bytes.Repeat([]byte{'x'}, headerLength), 0o644))
	_, err = Open(bad)
	assert.Error(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, testFrame(t)))
	data := buf.Bytes()
	binary.LittleEndian.PutUint16(data[offsetVersion:], FormatVersion+1)
	future := filepath.Join(dir, "future.gtca")
	require.NoError(t, os.WriteFile(future, data, 0o644))
	_, err = Open(future)
	assert.Error(t, err)

	short := filepath.Join(dir, "short.gtca")
	require.NoError(t, os.WriteFile(short, []byte(MagicNumber), 0o644))
	_, err = Open(short)
	assert.Error(t, err)

	_, err = OpenContext(context.Background(), "gs://bucket-only")
	assert.Error(t, err)
}

func TestReadFrameTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, testFrame(t)))
	data := buf.Bytes()

	path := filepath.Join(t.TempDir(), "truncated.gtca")
	require.NoError(t, os.WriteFile(path, data[:len(data)-5], 0o644))

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = ReadFrame(f)
	assert.Error(t, err)
}
