package gtarray

import (
	"math"
	"sort"
	"strconv"
)

// NumericEncoding turns a genotype array into one float per sample for
// statistical modeling. Missing calls always encode as NaN; encodings never
// impute.
type NumericEncoding interface {
	Name() string
	Encode(a *Array) ([]float64, error)
}

// Additive counts copies of the target alternate allele: 0, 1, ... ploidy.
// Target is an allele index; 0 selects the only alternate and fails for
// multiallelic variants.
type Additive struct {
	Target int
}

// Dominant is 1 when the call carries at least one copy of the target
// alternate. With Target 0 any alternate allele counts, so it also applies
// to multiallelic variants.
type Dominant struct {
	Target int
}

// Recessive is 1 when every slot holds the target alternate. Target 0
// selects the only alternate and fails for multiallelic variants.
type Recessive struct {
	Target int
}

// Weighted is the edge encoding: homozygous Ref is 0, heterozygous is Alpha
// and homozygous Alt is 1. Ref and Alt name the two alleles of a biallelic
// variant in either orientation, so swapping them mirrors the encoding.
// Only diploid arrays are supported.
type Weighted struct {
	Alpha float64
	Ref   string
	Alt   string
}

func (Additive) Name() string  { return "additive" }
func (Dominant) Name() string  { return "dominant" }
func (Recessive) Name() string { return "recessive" }
func (Weighted) Name() string  { return "weighted" }

// resolveTarget returns the allele index counted by an encoding. -1 means
// the variant has no alternate at all, so nothing is ever counted.
func resolveTarget(name string, set *AlleleSet, target int) (int, error) {
	if target == 0 {
		switch set.NAlternates() {
		case 0:
			return -1, nil
		case 1:
			return 1, nil
		}
		return 0, &MultiallelicUnsupportedError{Encoding: name, Set: set}
	}
	if target < 0 || target >= set.Len() {
		return 0, &UnknownAlleleError{Raw: name + " target", Allele: strconv.Itoa(target), Set: set}
	}
	return target, nil
}

// encodeEach runs fn over the decoded indices of every call, writing NaN for
// missing calls.
func encodeEach(a *Array, fn func(indices []int) float64) []float64 {
	out := make([]float64, len(a.codes))
	buf := make([]int, a.ploidy)
	for i, code := range a.codes {
		if code == MissingCode {
			out[i] = math.NaN()
			continue
		}
		out[i] = fn(a.codec.indices(code, buf))
	}
	return out
}

func countOf(indices []int, target int) int {
	n := 0
	for _, i := range indices {
		if i == target {
			n++
		}
	}
	return n
}

func (e Additive) Encode(a *Array) ([]float64, error) {
	target, err := resolveTarget(e.Name(), a.Alleles(), e.Target)
	if err != nil {
		return nil, err
	}
	return encodeEach(a, func(indices []int) float64 {
		return float64(countOf(indices, target))
	}), nil
}

func (e Dominant) Encode(a *Array) ([]float64, error) {
	if e.Target == 0 {
		return encodeEach(a, func(indices []int) float64 {
			for _, i := range indices {
				if i != 0 {
					return 1
				}
			}
			return 0
		}), nil
	}
	target, err := resolveTarget(e.Name(), a.Alleles(), e.Target)
	if err != nil {
		return nil, err
	}
	return encodeEach(a, func(indices []int) float64 {
		if countOf(indices, target) > 0 {
			return 1
		}
		return 0
	}), nil
}

func (e Recessive) Encode(a *Array) ([]float64, error) {
	target, err := resolveTarget(e.Name(), a.Alleles(), e.Target)
	if err != nil {
		return nil, err
	}
	return encodeEach(a, func(indices []int) float64 {
		if countOf(indices, target) == len(indices) {
			return 1
		}
		return 0
	}), nil
}

func (e Weighted) Encode(a *Array) ([]float64, error) {
	set := a.Alleles()
	if set.NAlternates() != 1 {
		return nil, &MultiallelicUnsupportedError{Encoding: e.Name(), Set: set}
	}
	if a.ploidy != 2 {
		return nil, &InconsistentPloidyError{Raw: e.Name() + " encoding", Expected: 2, Got: a.ploidy}
	}
	ref, ok := set.Index(Allele(e.Ref))
	if !ok {
		return nil, &UnknownAlleleError{Raw: e.Name() + " reference", Allele: e.Ref, Set: set}
	}
	alt, ok := set.Index(Allele(e.Alt))
	if !ok || alt == ref {
		return nil, &UnknownAlleleError{Raw: e.Name() + " alternate", Allele: e.Alt, Set: set}
	}
	return encodeEach(a, func(indices []int) float64 {
		switch countOf(indices, alt) {
		case 0:
			return 0
		case 1:
			return e.Alpha
		}
		return 1
	}), nil
}

// Categorical is a dictionary-encoded column: Codes index into Categories,
// with -1 for missing.
type Categorical struct {
	Codes      []int32
	Categories []string
}

// Labels expands the codes, using "" for missing entries.
func (c Categorical) Labels() []string {
	out := make([]string, len(c.Codes))
	for i, code := range c.Codes {
		if code >= 0 {
			out[i] = c.Categories[code]
		}
	}
	return out
}

// maxEnumeratedGenotypes caps the number of possible genotypes for which
// EncodeCodominant lists every category, observed or not.
const maxEnumeratedGenotypes = 256

// EncodeCodominant labels each call with its allele-index multiset, e.g.
// "0/1". Phase is ignored, so 1|0 is labeled "0/1". Categories are in
// genotype sort order. When the variant has at most maxEnumeratedGenotypes
// possible genotypes the categories are all of them, so two arrays of the
// same variant share categories; otherwise only the observed genotypes are
// listed, keeping the cost proportional to the array.
func EncodeCodominant(a *Array) Categorical {
	nAlleles := a.Alleles().Len()
	var categories []string
	if NGenotypes(nAlleles, a.ploidy) <= maxEnumeratedGenotypes {
		categories = genotypeSignatures(nAlleles, a.ploidy)
	} else {
		categories = observedSignatures(a)
	}
	lookup := make(map[string]int32, len(categories))
	for i, s := range categories {
		lookup[s] = int32(i)
	}

	codes := make([]int32, len(a.codes))
	for i, code := range a.codes {
		if code == MissingCode {
			codes[i] = -1
			continue
		}
		g := a.codec.decode(code &^ phasedBit)
		codes[i] = lookup[g.signature()]
	}
	return Categorical{Codes: codes, Categories: categories}
}

// genotypeSignatures enumerates all unphased genotypes of nAlleles at
// ploidy, sorted with Genotype.Compare.
func genotypeSignatures(nAlleles, ploidy int) []string {
	all := make([]Genotype, 0, NGenotypes(nAlleles, ploidy))
	cur := make([]int, ploidy)
	var walk func(slot, from int)
	walk = func(slot, from int) {
		if slot == ploidy {
			all = append(all, Unphased(cur...))
			return
		}
		for i := from; i < nAlleles; i++ {
			cur[slot] = i
			walk(slot+1, i)
		}
	}
	walk(0, 0)
	return sortedSignatures(all)
}

// observedSignatures returns the distinct unphased genotypes present in a,
// sorted with Genotype.Compare.
func observedSignatures(a *Array) []string {
	seen := make(map[uint32]bool)
	var all []Genotype
	for _, code := range a.codes {
		if code == MissingCode {
			continue
		}
		key := a.codec.canonical(code &^ phasedBit)
		if seen[key] {
			continue
		}
		seen[key] = true
		all = append(all, a.codec.decode(key).Canonical())
	}
	return sortedSignatures(all)
}

func sortedSignatures(all []Genotype) []string {
	sort.Slice(all, func(i, j int) bool { return all[i].Compare(all[j]) < 0 })
	out := make([]string, len(all))
	for i, g := range all {
		out[i] = g.signature()
	}
	return out
}
