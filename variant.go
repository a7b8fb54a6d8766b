package gtarray

import (
	"fmt"
	"strconv"

	"github.com/carbocation/genomisc"
)

// Variant is a locus and its allele set. The locus fields are optional
// metadata; two variants are interchangeable only if every field matches.
// Variants are immutable and shared by pointer between arrays.
type Variant struct {
	chromosome string
	position   uint32
	id         string
	alleles    *AlleleSet
}

// NewVariant builds a variant from its locus and alleles. The chromosome is
// normalized with NormalizeChromosome.
func NewVariant(chromosome string, position uint32, id string, ref string, alts ...string) (*Variant, error) {
	set, err := NewAlleleSet(ref, alts...)
	if err != nil {
		return nil, err
	}
	return &Variant{
		chromosome: NormalizeChromosome(chromosome),
		position:   position,
		id:         id,
		alleles:    set,
	}, nil
}

// VariantOf wraps an allele set in a variant with no locus information.
func VariantOf(set *AlleleSet) *Variant {
	return &Variant{alleles: set}
}

// VariantFromBIM builds a biallelic variant from a PLINK BIM record. PLINK
// does not say which allele is the reference; Allele2 is conventionally the
// major (reference) allele, so it is taken as index 0.
func VariantFromBIM(row genomisc.BIMRow) (*Variant, error) {
	return NewVariant(row.Chromosome, row.Coordinate, row.VariantID, row.Allele2, row.Allele1)
}

func (v *Variant) Chromosome() string  { return v.chromosome }
func (v *Variant) Position() uint32    { return v.position }
func (v *Variant) ID() string          { return v.id }
func (v *Variant) Alleles() *AlleleSet { return v.alleles }

// NAlleles is the number of alleles including the reference.
func (v *Variant) NAlleles() int {
	return v.alleles.Len()
}

// Equal compares locus metadata and the ordered allele sets.
func (v *Variant) Equal(o *Variant) bool {
	if v == o {
		return true
	}
	if v == nil || o == nil {
		return false
	}
	return v.chromosome == o.chromosome &&
		v.position == o.position &&
		v.id == o.id &&
		v.alleles.Equal(o.alleles)
}

func (v *Variant) String() string {
	if v == nil {
		return "<nil>"
	}
	if v.chromosome == "" && v.position == 0 && v.id == "" {
		return v.alleles.String()
	}
	pos := ""
	if v.position > 0 {
		pos = strconv.FormatUint(uint64(v.position), 10)
	}
	return fmt.Sprintf("%s:%s %s %s", v.chromosome, pos, v.id, v.alleles)
}

// withAlleles returns a copy of v that uses set instead of its own alleles.
func (v *Variant) withAlleles(set *AlleleSet) *Variant {
	out := *v
	out.alleles = set
	return &out
}
