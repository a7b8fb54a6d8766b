package gtarray

// Genotype codes are uint32 values. MissingCode marks a missing call. For a
// call, bit 31 holds the phase flag and the low 31 bits hold the allele
// indices as a base-n number (n = number of alleles), first slot most
// significant. Unphased calls keep their observed order; equality on codes
// therefore goes through the canonical form, see codec.canonical.
const (
	MissingCode uint32 = 0xFFFFFFFF
	phasedBit   uint32 = 1 << 31
	codeBits           = 31
)

type codec struct {
	nAlleles int
	ploidy   int
}

func newCodec(nAlleles, ploidy int) (codec, error) {
	if ploidy < 1 || nAlleles < 1 {
		return codec{}, &CodeSpaceError{NAlleles: nAlleles, Ploidy: ploidy}
	}
	// n^ploidy must stay below 2^31 so that a phased code can never collide
	// with MissingCode.
	space := uint64(1)
	for i := 0; i < ploidy; i++ {
		space *= uint64(nAlleles)
		if space >= 1<<codeBits {
			return codec{}, &CodeSpaceError{NAlleles: nAlleles, Ploidy: ploidy}
		}
	}
	return codec{nAlleles: nAlleles, ploidy: ploidy}, nil
}

// encode assumes g has already been validated against the codec.
func (c codec) encode(g Genotype) uint32 {
	if g.IsMissing() {
		return MissingCode
	}
	var v uint32
	for _, idx := range g.indices {
		v = v*uint32(c.nAlleles) + uint32(idx)
	}
	if g.phased {
		v |= phasedBit
	}
	return v
}

// indices decodes a non-missing code into buf, which must have length
// c.ploidy.
func (c codec) indices(code uint32, buf []int) []int {
	v := code &^ phasedBit
	n := uint32(c.nAlleles)
	for i := c.ploidy - 1; i >= 0; i-- {
		buf[i] = int(v % n)
		v /= n
	}
	return buf
}

func (c codec) decode(code uint32) Genotype {
	if code == MissingCode {
		return Genotype{ploidy: c.ploidy}
	}
	return Genotype{
		indices: c.indices(code, make([]int, c.ploidy)),
		phased:  code&phasedBit != 0,
		ploidy:  c.ploidy,
	}
}

// canonical maps a code to the code of its canonical genotype, so that two
// codes are equal genotypes exactly when their canonical codes match.
func (c codec) canonical(code uint32) uint32 {
	if code == MissingCode || code&phasedBit != 0 {
		return code
	}
	buf := c.indices(code, make([]int, c.ploidy))
	// insertion sort; ploidy is tiny
	for i := 1; i < len(buf); i++ {
		for j := i; j > 0 && buf[j] < buf[j-1]; j-- {
			buf[j], buf[j-1] = buf[j-1], buf[j]
		}
	}
	var v uint32
	for _, idx := range buf {
		v = v*uint32(c.nAlleles) + uint32(idx)
	}
	return v
}

// packed maps a code onto a dense range starting at 0 for missing, used by
// the bit-packed persisted layout.
func packed(code uint32) uint32 {
	if code == MissingCode {
		return 0
	}
	return ((code&^phasedBit)<<1 | code>>31) + 1
}

func unpacked(p uint32) uint32 {
	if p == 0 {
		return MissingCode
	}
	p--
	return p>>1 | (p&1)<<31
}
