package gtarray

import (
	"fmt"
	"sort"
	"strings"
)

// Array stores the genotypes of many samples at one variant as a dense
// buffer of codes. The variant is shared by pointer with every array derived
// from this one (slices, takes, concatenations); the code buffer is owned
// exclusively.
//
// Read-only methods may be called concurrently. Set mutates the buffer and
// must not run concurrently with anything else on the same Array.
type Array struct {
	variant *Variant
	ploidy  int
	codec   codec
	codes   []uint32
}

type options struct {
	variant   *Variant
	reference string
	ploidy    int
	parser    *Parser
}

// Option configures array construction from raw values.
type Option func(*options)

// WithVariant fixes the variant instead of inferring one from the data.
func WithVariant(v *Variant) Option {
	return func(o *options) { o.variant = v }
}

// WithAlleleSet is WithVariant for a variant without locus metadata.
func WithAlleleSet(set *AlleleSet) Option {
	return func(o *options) { o.variant = VariantOf(set) }
}

// WithReference declares the reference allele used when the allele set is
// inferred. Without it the first allele observed becomes the reference.
func WithReference(ref string) Option {
	return func(o *options) { o.reference = ref }
}

// WithPloidy sets the ploidy of every call. The default is 2.
func WithPloidy(ploidy int) Option {
	return func(o *options) { o.ploidy = ploidy }
}

// WithParser replaces the default textual notation.
func WithParser(p Parser) Option {
	return func(o *options) { o.parser = &p }
}

func newOptions(opts []Option) options {
	o := options{ploidy: 2, parser: defaultParser}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New returns an array of n missing calls.
func New(variant *Variant, ploidy, n int) (*Array, error) {
	c, err := newCodec(variant.NAlleles(), ploidy)
	if err != nil {
		return nil, err
	}
	codes := make([]uint32, n)
	for i := range codes {
		codes[i] = MissingCode
	}
	return &Array{variant: variant, ploidy: ploidy, codec: c, codes: codes}, nil
}

// FromStrings parses raw genotypes such as "A/G", "0|1" or "./.". Unless an
// allele set is supplied, the minimal one covering every observed allele is
// inferred: the declared reference (or the first allele seen) followed by
// the alternates in order of first appearance.
func FromStrings(raws []string, opts ...Option) (*Array, error) {
	o := newOptions(opts)
	calls := make([]call, len(raws))
	for i, raw := range raws {
		c, err := o.parser.tokenize(raw)
		if err != nil {
			return nil, err
		}
		calls[i] = c
	}
	return fromCalls(raws, calls, o)
}

// FromTuples builds an array from per-sample allele tokens, e.g.
// {"A", "G"}. Each token may be an allele, an index or the missing token.
func FromTuples(tuples [][]string, phased bool, opts ...Option) (*Array, error) {
	o := newOptions(opts)
	raws := make([]string, len(tuples))
	calls := make([]call, len(tuples))
	sep := o.parser.UnphasedSep
	if phased {
		sep = o.parser.PhasedSep
	}
	for i, tuple := range tuples {
		raws[i] = strings.Join(tuple, sep)
		if len(tuple) == 0 {
			return nil, &MalformedGenotypeError{Raw: raws[i], Reason: "empty genotype"}
		}
		c := call{phased: phased && len(tuple) > 1}
		for _, text := range tuple {
			tok, err := o.parser.classify(raws[i], text)
			if err != nil {
				return nil, err
			}
			c.tokens = append(c.tokens, tok)
		}
		calls[i] = c
	}
	return fromCalls(raws, calls, o)
}

func fromCalls(raws []string, calls []call, o options) (*Array, error) {
	for i, c := range calls {
		if len(c.tokens) == 1 && c.tokens[0].kind == tokenMissing {
			continue
		}
		if len(c.tokens) != o.ploidy {
			return nil, &InconsistentPloidyError{Raw: raws[i], Expected: o.ploidy, Got: len(c.tokens)}
		}
	}

	variant := o.variant
	if variant == nil {
		set, err := inferAlleleSet(raws, calls, o.reference)
		if err != nil {
			return nil, err
		}
		variant = VariantOf(set)
	}

	a, err := New(variant, o.ploidy, len(calls))
	if err != nil {
		return nil, err
	}
	set := variant.Alleles()
	for i, c := range calls {
		g, err := o.parser.resolve(raws[i], c, set, o.ploidy)
		if err != nil {
			return nil, err
		}
		a.codes[i] = a.codec.encode(g)
	}
	return a, nil
}

func inferAlleleSet(raws []string, calls []call, reference string) (*AlleleSet, error) {
	var set *AlleleSet
	if reference != "" {
		s, err := NewAlleleSet(reference)
		if err != nil {
			return nil, err
		}
		set = s
	}
	for i, c := range calls {
		for _, t := range c.tokens {
			switch t.kind {
			case tokenIndex:
				return nil, &MalformedGenotypeError{
					Raw:    raws[i],
					Reason: "allele indices need an explicit allele set",
				}
			case tokenAllele:
				a := Allele(t.text)
				if set == nil {
					set = &AlleleSet{alleles: []Allele{a}}
				} else if _, ok := set.Index(a); !ok {
					set = set.withAlternate(a)
				}
			}
		}
	}
	if set == nil {
		return nil, &MalformedGenotypeError{Reason: "cannot infer an allele set when every call is missing"}
	}
	return set, nil
}

// FromGenotypes packs already-built genotypes. Each call is validated
// against the variant's allele set and the ploidy.
func FromGenotypes(values []Genotype, variant *Variant, ploidy int) (*Array, error) {
	a, err := New(variant, ploidy, len(values))
	if err != nil {
		return nil, err
	}
	for i, g := range values {
		if err := g.validate(variant.Alleles(), ploidy); err != nil {
			return nil, err
		}
		a.codes[i] = a.codec.encode(g)
	}
	return a, nil
}

// FromCodes adopts a buffer of codes, checking that each decodes to a call
// that fits the variant. The buffer is copied.
func FromCodes(variant *Variant, ploidy int, codes []uint32) (*Array, error) {
	a, err := New(variant, ploidy, 0)
	if err != nil {
		return nil, err
	}
	a.codes = append(make([]uint32, 0, len(codes)), codes...)
	for _, code := range a.codes {
		if err := a.checkCode(code); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Array) checkCode(code uint32) error {
	if code == MissingCode {
		return nil
	}
	space := uint32(1)
	for i := 0; i < a.ploidy; i++ {
		space *= uint32(a.codec.nAlleles)
	}
	if code&^phasedBit >= space {
		return &MalformedGenotypeError{
			Raw:    fmt.Sprintf("code 0x%08x", code),
			Reason: "does not decode to a call in allele set " + a.variant.Alleles().String(),
		}
	}
	return nil
}

func (a *Array) Len() int            { return len(a.codes) }
func (a *Array) Variant() *Variant   { return a.variant }
func (a *Array) Alleles() *AlleleSet { return a.variant.Alleles() }
func (a *Array) Ploidy() int         { return a.ploidy }

// At decodes the genotype at position i. Like slice indexing it panics when
// i is out of range; use the Column adapter for checked access.
func (a *Array) At(i int) Genotype {
	return a.codec.decode(a.codes[i])
}

// Code returns the raw code at position i.
func (a *Array) Code(i int) uint32 {
	return a.codes[i]
}

// Codes returns a copy of the code buffer.
func (a *Array) Codes() []uint32 {
	return append([]uint32(nil), a.codes...)
}

// IsNA reports, per position, whether the call is missing.
func (a *Array) IsNA() []bool {
	out := make([]bool, len(a.codes))
	for i, c := range a.codes {
		out[i] = c == MissingCode
	}
	return out
}

// Count returns the number of non-missing calls.
func (a *Array) Count() int {
	n := 0
	for _, c := range a.codes {
		if c != MissingCode {
			n++
		}
	}
	return n
}

func (a *Array) derive(codes []uint32) *Array {
	return &Array{variant: a.variant, ploidy: a.ploidy, codec: a.codec, codes: codes}
}

// Copy returns an array with its own code buffer and the same variant.
func (a *Array) Copy() *Array {
	return a.derive(a.Codes())
}

// Slice copies positions start, start+step, ... up to but excluding stop.
// start and stop must satisfy 0 <= start <= stop <= Len(); step must be
// positive.
func (a *Array) Slice(start, stop, step int) (*Array, error) {
	if start < 0 || start > len(a.codes) {
		return nil, &IndexError{Index: start, Length: len(a.codes)}
	}
	if stop < start || stop > len(a.codes) {
		return nil, &IndexError{Index: stop, Length: len(a.codes)}
	}
	if step < 1 {
		return nil, fmt.Errorf("slice step must be positive, got %d", step)
	}
	codes := make([]uint32, 0, (stop-start+step-1)/step)
	for i := start; i < stop; i += step {
		codes = append(codes, a.codes[i])
	}
	return a.derive(codes), nil
}

// Take gathers the calls at indices. With allowFill, any index outside
// [0, Len()) yields fill, which must itself fit the array. Without it, such
// an index is an *IndexError.
func (a *Array) Take(indices []int, allowFill bool, fill Genotype) (*Array, error) {
	fillCode := MissingCode
	if allowFill {
		if err := fill.validate(a.variant.Alleles(), a.ploidy); err != nil {
			return nil, err
		}
		fillCode = a.codec.encode(fill)
	}
	codes := make([]uint32, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(a.codes) {
			if !allowFill {
				return nil, &IndexError{Index: idx, Length: len(a.codes)}
			}
			codes[i] = fillCode
			continue
		}
		codes[i] = a.codes[idx]
	}
	return a.derive(codes), nil
}

// Recode returns a copy of a that indexes its calls into set instead of its
// own allele set, keeping the locus metadata. Every allele of the current
// set must be present in set, in any order; this is how arrays built with
// different alternate orders are brought together before Concat.
func (a *Array) Recode(set *AlleleSet) (*Array, error) {
	old := a.variant.Alleles()
	if old.Equal(set) {
		return a.Copy(), nil
	}
	mapping := make([]int, old.Len())
	for i := range mapping {
		j, ok := set.Index(old.At(i))
		if !ok {
			return nil, &UnknownAlleleError{Raw: "recode", Allele: string(old.At(i)), Set: set}
		}
		mapping[i] = j
	}

	out, err := New(a.variant.withAlleles(set), a.ploidy, len(a.codes))
	if err != nil {
		return nil, err
	}
	buf := make([]int, a.ploidy)
	for i, code := range a.codes {
		if code == MissingCode {
			continue
		}
		indices := a.codec.indices(code, buf)
		for k, idx := range indices {
			indices[k] = mapping[idx]
		}
		out.codes[i] = out.codec.encode(Genotype{indices: indices, phased: code&phasedBit != 0})
	}
	return out, nil
}

// Compatible reports whether a and o describe the same variant at the same
// ploidy, which is required for Concat and element-wise comparison.
func (a *Array) Compatible(o *Array) bool {
	return a.ploidy == o.ploidy && a.variant.Equal(o.variant)
}

func (a *Array) incompatible(o *Array) error {
	return &IncompatibleAlleleSetError{Left: a.variant, Right: o.variant, LeftPloidy: a.ploidy, RightPloidy: o.ploidy}
}

// Concat joins arrays in order. Every array must share the first array's
// variant and ploidy; the result keeps the first array's variant pointer.
func Concat(arrays ...*Array) (*Array, error) {
	if len(arrays) == 0 {
		return nil, fmt.Errorf("concat needs at least one genotype array")
	}
	n := 0
	for _, x := range arrays {
		if !arrays[0].Compatible(x) {
			return nil, arrays[0].incompatible(x)
		}
		n += len(x.codes)
	}
	codes := make([]uint32, 0, n)
	for _, x := range arrays {
		codes = append(codes, x.codes...)
	}
	return arrays[0].derive(codes), nil
}

// Equals is true when both arrays have equal variants, the same ploidy and
// equal genotypes at every position.
func (a *Array) Equals(o *Array) bool {
	if a == o {
		return true
	}
	if o == nil || !a.Compatible(o) || len(a.codes) != len(o.codes) {
		return false
	}
	for i := range a.codes {
		if !a.codeEqual(a.codes[i], o.codes[i]) {
			return false
		}
	}
	return true
}

func (a *Array) codeEqual(x, y uint32) bool {
	return x == y || a.codec.canonical(x) == a.codec.canonical(y)
}

// EqualElementwise compares position by position with Genotype.Equal.
func (a *Array) EqualElementwise(o *Array) ([]bool, error) {
	if !a.Compatible(o) {
		return nil, a.incompatible(o)
	}
	if len(a.codes) != len(o.codes) {
		return nil, fmt.Errorf("cannot compare genotype arrays of lengths %d and %d", len(a.codes), len(o.codes))
	}
	out := make([]bool, len(a.codes))
	for i := range a.codes {
		out[i] = a.codeEqual(a.codes[i], o.codes[i])
	}
	return out, nil
}

// Set replaces the call at position i after validating it against the
// array's allele set and ploidy.
func (a *Array) Set(i int, g Genotype) error {
	if i < 0 || i >= len(a.codes) {
		return &IndexError{Index: i, Length: len(a.codes)}
	}
	if err := g.validate(a.variant.Alleles(), a.ploidy); err != nil {
		return err
	}
	a.codes[i] = a.codec.encode(g)
	return nil
}

// SetString parses raw against the array's allele set and stores it at i.
func (a *Array) SetString(i int, raw string) error {
	g, err := Parse(raw, a.variant.Alleles(), a.ploidy)
	if err != nil {
		return err
	}
	return a.Set(i, g)
}

// Compare orders positions i and j using Genotype.Compare.
func (a *Array) Compare(i, j int) int {
	return a.At(i).Compare(a.At(j))
}

// Argsort returns the permutation that stably sorts the array, missing calls
// last.
func (a *Array) Argsort() []int {
	values := make([]Genotype, len(a.codes))
	order := make([]int, len(a.codes))
	for i := range a.codes {
		values[i] = a.At(i)
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool {
		return values[order[x]].Compare(values[order[y]]) < 0
	})
	return order
}

// Factorize maps each position to the index of its genotype among the
// distinct genotypes, in order of first appearance. Missing calls map to -1
// and are not included in uniques.
func (a *Array) Factorize() (labels []int, uniques *Array) {
	labels = make([]int, len(a.codes))
	seen := make(map[uint32]int)
	var codes []uint32
	for i, code := range a.codes {
		if code == MissingCode {
			labels[i] = -1
			continue
		}
		key := a.codec.canonical(code)
		label, ok := seen[key]
		if !ok {
			label = len(codes)
			seen[key] = label
			codes = append(codes, code)
		}
		labels[i] = label
	}
	return labels, a.derive(codes)
}

// Unique returns the distinct non-missing genotypes in order of first
// appearance.
func (a *Array) Unique() *Array {
	_, u := a.Factorize()
	return u
}

// AsType converts the array with a numeric encoding policy.
func (a *Array) AsType(enc NumericEncoding) ([]float64, error) {
	return enc.Encode(a)
}

// Strings renders every call with allele symbols.
func (a *Array) Strings() []string {
	out := make([]string, len(a.codes))
	for i := range a.codes {
		out[i] = a.At(i).ToSymbols(a.variant.Alleles())
	}
	return out
}

func (a *Array) String() string {
	const preview = 5
	var b strings.Builder
	fmt.Fprintf(&b, "GenotypeArray[%s; %dn; %d samples] [", a.variant, a.ploidy, len(a.codes))
	for i := 0; i < len(a.codes) && i < preview; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.At(i).ToSymbols(a.variant.Alleles()))
	}
	if len(a.codes) > preview {
		b.WriteString(", ...")
	}
	b.WriteString("]")
	return b.String()
}
