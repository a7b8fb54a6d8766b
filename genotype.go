package gtarray

import (
	"sort"
	"strconv"
)

// Genotype is one sample's call at one variant: either missing, or a
// sequence of allele indices (one per chromosome copy) into the variant's
// allele set.
//
// Unphased calls keep the order in which their alleles were observed so that
// they can be rendered back exactly, but compare as multisets: 0/1 equals
// 1/0. Phased calls compare position by position.
type Genotype struct {
	indices []int
	phased  bool
	// ploidy is only consulted for missing calls, which have no indices.
	ploidy int
}

// Missing returns a missing call of unknown ploidy.
func Missing() Genotype {
	return Genotype{}
}

// MissingOf returns a missing call that renders with ploidy placeholders.
func MissingOf(ploidy int) Genotype {
	return Genotype{ploidy: ploidy}
}

// Call builds a called genotype from allele indices. With no indices the
// result is Missing.
func Call(phased bool, indices ...int) Genotype {
	if len(indices) == 0 {
		return Genotype{phased: phased}
	}
	return Genotype{
		indices: append([]int(nil), indices...),
		phased:  phased,
		ploidy:  len(indices),
	}
}

// Unphased is Call(false, indices...).
func Unphased(indices ...int) Genotype {
	return Call(false, indices...)
}

// Phased is Call(true, indices...).
func Phased(indices ...int) Genotype {
	return Call(true, indices...)
}

func (g Genotype) IsMissing() bool {
	return g.indices == nil
}

func (g Genotype) IsPhased() bool {
	return g.phased
}

// Ploidy is the number of allele slots. A missing call built with Missing()
// has ploidy 0.
func (g Genotype) Ploidy() int {
	if g.indices != nil {
		return len(g.indices)
	}
	return g.ploidy
}

// Indices returns a copy of the allele indices in stored order, or nil for a
// missing call.
func (g Genotype) Indices() []int {
	if g.indices == nil {
		return nil
	}
	return append([]int(nil), g.indices...)
}

// canonical returns the index sequence used for comparison: sorted for
// unphased calls, as stored for phased calls. The result may alias g.
func (g Genotype) canonical() []int {
	if g.phased || sort.IntsAreSorted(g.indices) {
		return g.indices
	}
	out := append([]int(nil), g.indices...)
	sort.Ints(out)
	return out
}

// Canonical returns the call with unphased indices sorted ascending. Equal
// genotypes have identical canonical forms.
func (g Genotype) Canonical() Genotype {
	if g.indices == nil {
		return Genotype{ploidy: g.ploidy}
	}
	return Genotype{indices: append([]int(nil), g.canonical()...), phased: g.phased, ploidy: g.ploidy}
}

// AltCount is the number of slots holding any non-reference allele.
func (g Genotype) AltCount() int {
	n := 0
	for _, i := range g.indices {
		if i != 0 {
			n++
		}
	}
	return n
}

// CountOf is the number of slots holding allele index idx.
func (g Genotype) CountOf(idx int) int {
	n := 0
	for _, i := range g.indices {
		if i == idx {
			n++
		}
	}
	return n
}

// IsHomozygous is true for a call whose slots all hold the same allele.
func (g Genotype) IsHomozygous() bool {
	if g.indices == nil {
		return false
	}
	for _, i := range g.indices[1:] {
		if i != g.indices[0] {
			return false
		}
	}
	return true
}

// IsHeterozygous is true for a call with at least two distinct alleles.
func (g Genotype) IsHeterozygous() bool {
	return g.indices != nil && !g.IsHomozygous()
}

// Equal follows the genotype equality rules: missing equals missing, a call
// never equals missing, unphased calls compare as multisets and phased calls
// as sequences. A phased call never equals an unphased one.
func (g Genotype) Equal(o Genotype) bool {
	if g.IsMissing() || o.IsMissing() {
		return g.IsMissing() && o.IsMissing()
	}
	if g.phased != o.phased || len(g.indices) != len(o.indices) {
		return false
	}
	a, b := g.canonical(), o.canonical()
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Compare orders genotypes for sorting. Missing calls sort after every call.
// Calls are ordered by number of non-reference alleles, then by canonical
// index sequence, then unphased before phased. This ordering exists so that
// genotype columns can be sorted; it carries no biological meaning.
func (g Genotype) Compare(o Genotype) int {
	switch {
	case g.IsMissing() && o.IsMissing():
		return 0
	case g.IsMissing():
		return 1
	case o.IsMissing():
		return -1
	}
	if d := g.AltCount() - o.AltCount(); d != 0 {
		return sign(d)
	}
	a, b := g.canonical(), o.canonical()
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return sign(a[i] - b[i])
		}
	}
	if d := len(a) - len(b); d != 0 {
		return sign(d)
	}
	switch {
	case g.phased == o.phased:
		return 0
	case g.phased:
		return 1
	}
	return -1
}

func sign(d int) int {
	switch {
	case d < 0:
		return -1
	case d > 0:
		return 1
	}
	return 0
}

// String renders the call with allele indices, e.g. "0/1", "1|0" or "./.".
func (g Genotype) String() string {
	return defaultParser.format(g, func(i int) string { return strconv.Itoa(i) })
}

// ToSymbols renders the call with the alleles of set, e.g. "A/G".
func (g Genotype) ToSymbols(set *AlleleSet) string {
	return defaultParser.ToSymbols(g, set)
}

// signature is the canonical index form of the call, used as a category
// label and as a hash key.
func (g Genotype) signature() string {
	if g.IsMissing() {
		return ""
	}
	return defaultParser.format(g.Canonical(), func(i int) string { return strconv.Itoa(i) })
}

// validate checks g against an allele set and a ploidy.
func (g Genotype) validate(set *AlleleSet, ploidy int) error {
	if g.IsMissing() {
		return nil
	}
	if len(g.indices) != ploidy {
		return &InconsistentPloidyError{Raw: g.String(), Expected: ploidy, Got: len(g.indices)}
	}
	for _, i := range g.indices {
		if i < 0 || i >= set.Len() {
			return &MalformedGenotypeError{
				Raw:    g.String(),
				Reason: "allele index " + strconv.Itoa(i) + " not in allele set " + set.String(),
			}
		}
	}
	return nil
}
