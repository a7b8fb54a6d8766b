package gtarray

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"

	"github.com/carbocation/pfx"
)

// A column block stores one named genotype column. All integers are little
// endian; strings are length-prefixed.
//
//	uint32  length of the block after this field
//	str16   column name
//	str16   chromosome
//	uint32  position
//	str16   variant ID
//	uint16  number of alleles, then one str32 per allele (reference first)
//	uint16  ploidy
//	uint32  number of samples
//	uint8   layout
//	uint8   compression
//	uint8   bits per code (32 for Layout1)
//	uint32  uncompressed code data length
//	uint32  stored code data length, then the code data

// blockOptions are the encoding choices for column blocks.
type blockOptions struct {
	layout      Layout
	compression Compression
}

func encodeBlock(name string, a *Array, o blockOptions) ([]byte, error) {
	var body bytes.Buffer
	v := a.Variant()

	for _, s := range []string{name, v.Chromosome()} {
		if err := putString16(&body, s); err != nil {
			return nil, pfx.Err(err)
		}
	}
	putUint32(&body, v.Position())
	if err := putString16(&body, v.ID()); err != nil {
		return nil, pfx.Err(err)
	}
	if v.NAlleles() > math.MaxUint16 {
		return nil, fmt.Errorf("%d alleles do not fit a 2 byte count field", v.NAlleles())
	}
	if a.Ploidy() > math.MaxUint16 {
		return nil, fmt.Errorf("Ploidy %d does not fit a 2 byte field", a.Ploidy())
	}
	putUint16(&body, uint16(v.NAlleles()))
	for i := 0; i < v.NAlleles(); i++ {
		allele := v.Alleles().At(i)
		putUint32(&body, uint32(len(allele)))
		body.WriteString(string(allele))
	}
	putUint16(&body, uint16(a.Ploidy()))
	putUint32(&body, uint32(a.Len()))

	data, nbits, err := packCodes(a.codes, o.layout)
	if err != nil {
		return nil, pfx.Err(err)
	}
	stored, err := compress(o.compression, data)
	if err != nil {
		return nil, pfx.Err(err)
	}
	body.WriteByte(byte(o.layout))
	body.WriteByte(byte(o.compression))
	body.WriteByte(byte(nbits))
	putUint32(&body, uint32(len(data)))
	putUint32(&body, uint32(len(stored)))
	body.Write(stored)

	out := make([]byte, 4, 4+body.Len())
	binary.LittleEndian.PutUint32(out, uint32(body.Len()))
	return append(out, body.Bytes()...), nil
}

func packCodes(codes []uint32, layout Layout) ([]byte, int, error) {
	switch layout {
	case Layout1:
		out := make([]byte, 4*len(codes))
		for i, c := range codes {
			binary.LittleEndian.PutUint32(out[4*i:], c)
		}
		return out, 32, nil
	case Layout2:
		var largest uint32
		for _, c := range codes {
			if p := packed(c); p > largest {
				largest = p
			}
		}
		nbits := bits.Len32(largest)
		if nbits == 0 {
			nbits = 1
		}
		var buf bytes.Buffer
		w := newBitWriter(&buf)
		for _, c := range codes {
			if err := w.WriteUint(uint64(packed(c)), nbits); err != nil {
				return nil, 0, err
			}
		}
		if err := w.Flush(); err != nil {
			return nil, 0, err
		}
		return buf.Bytes(), nbits, nil
	}
	return nil, 0, fmt.Errorf("Layout choice %s is not supported", layout)
}

func unpackCodes(data []byte, layout Layout, nbits, n int) ([]uint32, error) {
	codes := make([]uint32, n)
	switch layout {
	case Layout1:
		if len(data) != 4*n {
			return nil, fmt.Errorf("Layout1 code data is %d bytes; expected %d", len(data), 4*n)
		}
		for i := range codes {
			codes[i] = binary.LittleEndian.Uint32(data[4*i:])
		}
		return codes, nil
	case Layout2:
		if nbits < 1 || nbits > 32 {
			return nil, fmt.Errorf("Layout2 code width %d is out of range", nbits)
		}
		br := newBitReader(bytes.NewReader(data))
		for i := range codes {
			p, err := br.ReadUint(nbits)
			if err != nil {
				return nil, err
			}
			codes[i] = unpacked(uint32(p))
		}
		return codes, nil
	}
	return nil, fmt.Errorf("Layout choice %s is not supported", layout)
}

// decodeBlock parses a block body (everything after the length field).
func decodeBlock(body []byte) (string, *Array, error) {
	r := &byteCursor{buf: body}
	name := r.string16()
	chrom := r.string16()
	pos := r.uint32()
	id := r.string16()
	nAlleles := int(r.uint16())
	alleles := make([]string, nAlleles)
	for i := range alleles {
		alleles[i] = r.string32()
	}
	ploidy := int(r.uint16())
	n := int(r.uint32())
	layout := Layout(r.uint8())
	comp := Compression(r.uint8())
	nbits := int(r.uint8())
	size := int(r.uint32())
	stored := r.bytes(int(r.uint32()))
	if r.err != nil {
		return "", nil, pfx.Err(r.err)
	}
	if nAlleles == 0 {
		return "", nil, pfx.Err(fmt.Errorf("Column %q has no alleles", name))
	}

	variant, err := NewVariant(chrom, pos, id, alleles[0], alleles[1:]...)
	if err != nil {
		return "", nil, pfx.Err(err)
	}
	data, err := decompress(comp, stored, size)
	if err != nil {
		return "", nil, pfx.Err(err)
	}
	codes, err := unpackCodes(data, layout, nbits, n)
	if err != nil {
		return "", nil, pfx.Err(err)
	}
	a, err := FromCodes(variant, ploidy, codes)
	if err != nil {
		return "", nil, pfx.Err(err)
	}
	return name, a, nil
}

// MarshalBinary encodes the array as a standalone, bit-packed column
// block: variant, ploidy and codes.
func (a *Array) MarshalBinary() ([]byte, error) {
	return encodeBlock("", a, blockOptions{layout: Layout2, compression: CompressionDisabled})
}

// UnmarshalBinary replaces a with the array encoded in data.
func (a *Array) UnmarshalBinary(data []byte) error {
	if len(data) < 4 {
		return pfx.Err(fmt.Errorf("Column block is %d bytes; too short", len(data)))
	}
	length := binary.LittleEndian.Uint32(data)
	if int64(length) != int64(len(data)-4) {
		return pfx.Err(fmt.Errorf("Column block declares %d bytes but has %d", length, len(data)-4))
	}
	_, out, err := decodeBlock(data[4:])
	if err != nil {
		return pfx.Err(err)
	}
	*a = *out
	return nil
}

func putUint16(b *bytes.Buffer, v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	b.Write(tmp[:])
}

func putUint32(b *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.Write(tmp[:])
}

func putString16(b *bytes.Buffer, s string) error {
	if len(s) > math.MaxUint16 {
		return fmt.Errorf("String of %d bytes does not fit a 2 byte length field", len(s))
	}
	putUint16(b, uint16(len(s)))
	b.WriteString(s)
	return nil
}

// byteCursor reads little-endian fields from a buffer, remembering the
// first error so callers can check once at the end.
type byteCursor struct {
	buf []byte
	off int
	err error
}

func (c *byteCursor) bytes(n int) []byte {
	if c.err != nil {
		return nil
	}
	if n < 0 || c.off+n > len(c.buf) {
		c.err = fmt.Errorf("Column block truncated: need %d bytes at offset %d of %d", n, c.off, len(c.buf))
		return nil
	}
	out := c.buf[c.off : c.off+n]
	c.off += n
	return out
}

func (c *byteCursor) uint8() uint8 {
	if b := c.bytes(1); b != nil {
		return b[0]
	}
	return 0
}

func (c *byteCursor) uint16() uint16 {
	if b := c.bytes(2); b != nil {
		return binary.LittleEndian.Uint16(b)
	}
	return 0
}

func (c *byteCursor) uint32() uint32 {
	if b := c.bytes(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (c *byteCursor) string16() string {
	return string(c.bytes(int(c.uint16())))
}

func (c *byteCursor) string32() string {
	return string(c.bytes(int(c.uint32())))
}
