package gtarray

import (
	"strings"
)

// Allele is one form of the sequence at a locus: a run of nucleotide
// symbols, the spanning-deletion marker "*", or a symbolic <ID> such as
// <DEL> or <NON_REF>.
type Allele string

// NewAllele validates symbols and returns them as an Allele.
func NewAllele(symbols string) (Allele, error) {
	if !validAllele(symbols) {
		return "", &InvalidAlleleError{Symbols: symbols}
	}
	return Allele(symbols), nil
}

func validAllele(s string) bool {
	if s == "" {
		return false
	}
	if s == "*" {
		return true
	}
	if strings.HasPrefix(s, "<") {
		if len(s) < 3 || !strings.HasSuffix(s, ">") {
			return false
		}
		// Separators and brackets inside an ID would break the textual
		// genotype grammar.
		return !strings.ContainsAny(s[1:len(s)-1], "<>/|; \t")
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'A', 'C', 'G', 'T', 'N', 'a', 'c', 'g', 't', 'n':
		default:
			return false
		}
	}
	return true
}

func (a Allele) String() string {
	return string(a)
}

// IsSymbolic is true for "*" and <ID> alleles.
func (a Allele) IsSymbolic() bool {
	return a == "*" || strings.HasPrefix(string(a), "<")
}

// AlleleSet holds a reference allele followed by the ordered alternates.
// The position of an allele in the set is its genotype index: 0 is the
// reference, k is the k-th alternate. An AlleleSet is never modified after
// construction, so a single pointer is shared by every array that uses it.
type AlleleSet struct {
	alleles []Allele
}

// NewAlleleSet validates every allele and rejects duplicates.
func NewAlleleSet(ref string, alts ...string) (*AlleleSet, error) {
	alleles := make([]Allele, 0, len(alts)+1)
	for _, s := range append([]string{ref}, alts...) {
		a, err := NewAllele(s)
		if err != nil {
			return nil, err
		}
		for _, seen := range alleles {
			if seen == a {
				return nil, &DuplicateAlleleError{Allele: a, Set: append(alleles, a)}
			}
		}
		alleles = append(alleles, a)
	}
	return &AlleleSet{alleles: alleles}, nil
}

// MustAlleleSet is NewAlleleSet for fixed inputs; it panics on error.
func MustAlleleSet(ref string, alts ...string) *AlleleSet {
	s, err := NewAlleleSet(ref, alts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Reference returns the allele with index 0.
func (s *AlleleSet) Reference() Allele {
	return s.alleles[0]
}

// Alternates returns a copy of the alternate alleles in index order.
func (s *AlleleSet) Alternates() []Allele {
	return append([]Allele(nil), s.alleles[1:]...)
}

// Len is the total number of alleles, reference included.
func (s *AlleleSet) Len() int {
	return len(s.alleles)
}

// NAlternates is Len()-1.
func (s *AlleleSet) NAlternates() int {
	return len(s.alleles) - 1
}

// At returns the allele with genotype index i.
func (s *AlleleSet) At(i int) Allele {
	return s.alleles[i]
}

// Index returns the genotype index of a.
func (s *AlleleSet) Index(a Allele) (int, bool) {
	for i, x := range s.alleles {
		if x == a {
			return i, true
		}
	}
	return -1, false
}

// Equal reports whether both sets list the same alleles in the same order.
func (s *AlleleSet) Equal(o *AlleleSet) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil || len(s.alleles) != len(o.alleles) {
		return false
	}
	for i := range s.alleles {
		if s.alleles[i] != o.alleles[i] {
			return false
		}
	}
	return true
}

// String renders the set as REF>ALT1,ALT2.
func (s *AlleleSet) String() string {
	if s == nil {
		return "<nil>"
	}
	alts := make([]string, 0, len(s.alleles)-1)
	for _, a := range s.alleles[1:] {
		alts = append(alts, string(a))
	}
	return string(s.alleles[0]) + ">" + strings.Join(alts, ",")
}

// withAlternate returns a new set with a appended. Used during inference,
// where the set grows as new alleles are observed.
func (s *AlleleSet) withAlternate(a Allele) *AlleleSet {
	alleles := make([]Allele, len(s.alleles), len(s.alleles)+1)
	copy(alleles, s.alleles)
	return &AlleleSet{alleles: append(alleles, a)}
}
