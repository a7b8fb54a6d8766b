package gtarray

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// TypeTag identifies a column type using a bit-packed encoding: the type
// family in the high 16 bits, family-specific detail in the low 16.
type TypeTag uint32

// Type families (high 16 bits)
const (
	FamilyGenotype TypeTag = 0x0010_0000
	familyMask     TypeTag = 0xFFFF_0000
)

// Family returns the high 16 bits of the tag.
func (t TypeTag) Family() TypeTag {
	return t & familyMask
}

// DType describes a genotype column: the variant and the ploidy. Two
// columns can be concatenated or compared only if their DTypes are equal.
type DType struct {
	Variant *Variant
	Ploidy  int
}

// DType returns the array's column type.
func (a *Array) DType() DType {
	return DType{Variant: a.variant, Ploidy: a.ploidy}
}

// TypeName is the bare name shared by every genotype dtype.
const TypeName = "genotype"

// Name renders the dtype as genotype(<ploidy>n)[chrom; pos; id; ref; alts],
// with alternates comma separated. ParseDType reads this form back.
func (d DType) Name() string {
	v := d.Variant
	pos := ""
	if v.Position() > 0 {
		pos = strconv.FormatUint(uint64(v.Position()), 10)
	}
	alts := make([]string, 0, v.NAlleles()-1)
	for _, a := range v.Alleles().Alternates() {
		alts = append(alts, string(a))
	}
	return fmt.Sprintf("%s(%dn)[%s; %s; %s; %s; %s]",
		TypeName, d.Ploidy, v.Chromosome(), pos, v.ID(), v.Alleles().Reference(), strings.Join(alts, ","))
}

func (d DType) String() string {
	return d.Name()
}

// Kind is the storage-kind hint given to host engines: genotypes are opaque
// objects, not numbers.
func (d DType) Kind() string {
	return "O"
}

// TypeTag returns FamilyGenotype with the ploidy in the low bits.
func (d DType) TypeTag() TypeTag {
	return FamilyGenotype | TypeTag(d.Ploidy&0xFFFF)
}

// Equal compares ploidy and variant.
func (d DType) Equal(o DType) bool {
	return d.Ploidy == o.Ploidy && d.Variant.Equal(o.Variant)
}

var dtypePattern = regexp.MustCompile(`^` + TypeName + `\((\d+)n\)\[([^\]]*)\]$`)

// ParseDType reads the output of DType.Name.
func ParseDType(s string) (DType, error) {
	m := dtypePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return DType{}, fmt.Errorf("cannot construct a genotype dtype from %q: expected %s(<ploidy>n)[chrom; pos; id; ref; alts]", s, TypeName)
	}
	ploidy, err := strconv.Atoi(m[1])
	if err != nil || ploidy < 1 {
		return DType{}, fmt.Errorf("cannot construct a genotype dtype from %q: bad ploidy %q", s, m[1])
	}
	fields := strings.Split(m[2], ";")
	if len(fields) != 5 {
		return DType{}, fmt.Errorf("cannot construct a genotype dtype from %q: expected 5 variant fields, found %d", s, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	var pos uint64
	if fields[1] != "" {
		pos, err = strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return DType{}, fmt.Errorf("cannot construct a genotype dtype from %q: bad position %q", s, fields[1])
		}
	}
	var alts []string
	if fields[4] != "" {
		alts = strings.Split(fields[4], ",")
	}
	v, err := NewVariant(fields[0], uint32(pos), fields[2], fields[3], alts...)
	if err != nil {
		return DType{}, err
	}
	if _, err := newCodec(v.NAlleles(), ploidy); err != nil {
		return DType{}, err
	}
	return DType{Variant: v, Ploidy: ploidy}, nil
}
