package gtarray

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustArray(t *testing.T, raws []string, opts ...Option) *Array {
	t.Helper()
	a, err := FromStrings(raws, opts...)
	require.NoError(t, err)
	return a
}

func TestFromStringsAdditive(t *testing.T) {
	set := MustAlleleSet("A", "G")
	a := mustArray(t, []string{"A/A", "A/G", "G/G", "./."}, WithAlleleSet(set))

	require.Equal(t, 4, a.Len())
	assert.Same(t, set, a.Alleles())
	assert.Equal(t, []bool{false, false, false, true}, a.IsNA())
	assert.Equal(t, 3, a.Count())

	vals, err := a.AsType(Additive{})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2}, vals[:3])
	assert.True(t, math.IsNaN(vals[3]))
}

func TestFromStringsInference(t *testing.T) {
	t.Run("first seen is reference", func(t *testing.T) {
		a := mustArray(t, []string{"./.", "G/T", "G/G", "C/T"})
		assert.Equal(t, "G>T,C", a.Alleles().String())
		assert.Equal(t, []string{"./.", "G/T", "G/G", "C/T"}, a.Strings())
	})
	t.Run("declared reference", func(t *testing.T) {
		a := mustArray(t, []string{"G/T", "A/G"}, WithReference("A"))
		assert.Equal(t, "A>G,T", a.Alleles().String())
		assert.True(t, Unphased(1, 2).Equal(a.At(0)))
	})
	t.Run("indices need a set", func(t *testing.T) {
		_, err := FromStrings([]string{"0/1"})
		assert.ErrorIs(t, err, ErrMalformedGenotype)
	})
	t.Run("all missing", func(t *testing.T) {
		_, err := FromStrings([]string{"./.", "."})
		assert.ErrorIs(t, err, ErrMalformedGenotype)
	})
}

func TestFromStringsPloidy(t *testing.T) {
	_, err := FromStrings([]string{"A/G", "A/G/G"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInconsistentPloidy)

	a := mustArray(t, []string{"A/G/G", ".", "A|A|G"}, WithPloidy(3))
	assert.Equal(t, 3, a.Ploidy())
	assert.Equal(t, "././.", a.At(1).String())
	assert.True(t, a.At(2).IsPhased())

	haploid := mustArray(t, []string{"A", "G", "."}, WithPloidy(1))
	assert.Equal(t, []string{"A", "G", "."}, haploid.Strings())
}

func TestFromTuples(t *testing.T) {
	a, err := FromTuples([][]string{{"A", "G"}, {"G", "G"}, {".", "."}}, true)
	require.NoError(t, err)
	// Missing calls carry no phase once packed.
	assert.Equal(t, []string{"A|G", "G|G", "./."}, a.Strings())

	_, err = FromTuples([][]string{{"A", "G"}, {}}, false)
	assert.ErrorIs(t, err, ErrMalformedGenotype)
}

func TestFromGenotypesAndCodes(t *testing.T) {
	v, err := NewVariant("chr1", 100, "rs1", "A", "G")
	require.NoError(t, err)

	a, err := FromGenotypes([]Genotype{Unphased(0, 1), Phased(1, 0), Missing()}, v, 2)
	require.NoError(t, err)
	assert.Same(t, v, a.Variant())
	assert.Equal(t, MissingCode, a.Code(2))

	b, err := FromCodes(v, 2, a.Codes())
	require.NoError(t, err)
	assert.True(t, a.Equals(b))

	_, err = FromGenotypes([]Genotype{Unphased(0, 2)}, v, 2)
	assert.ErrorIs(t, err, ErrMalformedGenotype)

	_, err = FromCodes(v, 2, []uint32{4})
	assert.ErrorIs(t, err, ErrMalformedGenotype)
}

func TestNewCodeSpace(t *testing.T) {
	set := MustAlleleSet("A", "C", "G", "T")
	_, err := New(VariantOf(set), 15, 1)
	require.NoError(t, err)

	// 4^16 = 2^32 does not fit in 31 bits.
	_, err = New(VariantOf(set), 16, 1)
	assert.ErrorIs(t, err, ErrCodeSpace)

	_, err = New(VariantOf(set), 0, 1)
	assert.ErrorIs(t, err, ErrCodeSpace)
}

func TestSlice(t *testing.T) {
	a := mustArray(t, []string{"A/A", "A/G", "G/G", "./.", "G/A"})

	s, err := a.Slice(1, 5, 2)
	require.NoError(t, err)
	assert.Same(t, a.Alleles(), s.Alleles())
	assert.Equal(t, []string{"A/G", "./."}, s.Strings())

	empty, err := a.Slice(2, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
	assert.Same(t, a.Alleles(), empty.Alleles())

	// Slices copy: writing to one does not change the other.
	require.NoError(t, s.SetString(0, "G/G"))
	assert.Equal(t, "A/G", a.Strings()[1])

	_, err = a.Slice(-1, 2, 1)
	assert.ErrorIs(t, err, ErrIndex)
	_, err = a.Slice(0, 6, 1)
	assert.ErrorIs(t, err, ErrIndex)
	_, err = a.Slice(0, 2, 0)
	assert.Error(t, err)
}

func TestTake(t *testing.T) {
	a := mustArray(t, []string{"A/A", "A/G", "G/G"})

	out, err := a.Take([]int{2, 0, 0}, false, Missing())
	require.NoError(t, err)
	assert.Equal(t, []string{"G/G", "A/A", "A/A"}, out.Strings())

	_, err = a.Take([]int{3}, false, Missing())
	assert.ErrorIs(t, err, ErrIndex)

	out, err = a.Take([]int{1, -1, 7}, true, Missing())
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, true}, out.IsNA())

	out, err = a.Take([]int{-1}, true, Unphased(1, 1))
	require.NoError(t, err)
	assert.Equal(t, "G/G", out.Strings()[0])

	_, err = a.Take([]int{-1}, true, Unphased(1, 1, 1))
	assert.ErrorIs(t, err, ErrInconsistentPloidy)
}

func TestConcat(t *testing.T) {
	a := mustArray(t, []string{"A/A", "A/G", "./."})

	c, err := Concat(a, a)
	require.NoError(t, err)
	require.Equal(t, 2*a.Len(), c.Len())
	for i := 0; i < c.Len(); i++ {
		assert.True(t, a.At(i%a.Len()).Equal(c.At(i)), "position %d", i)
	}
	assert.Same(t, a.Variant(), c.Variant())

	other := mustArray(t, []string{"A/T"})
	_, err = Concat(a, other)
	assert.ErrorIs(t, err, ErrIncompatibleAlleleSet)

	triploid := mustArray(t, []string{"A/A/G"}, WithPloidy(3))
	_, err = Concat(a, triploid)
	assert.ErrorIs(t, err, ErrIncompatibleAlleleSet)

	_, err = Concat()
	assert.Error(t, err)
}

func TestRecode(t *testing.T) {
	a := mustArray(t, []string{"A/G", "T|A", "./."})
	assert.Equal(t, "A>G,T", a.Alleles().String())

	set := MustAlleleSet("A", "T", "G", "C")
	r, err := a.Recode(set)
	require.NoError(t, err)
	assert.Same(t, set, r.Alleles())
	assert.Equal(t, a.Strings(), r.Strings())
	assert.True(t, Phased(1, 0).Equal(r.At(1)))

	_, err = a.Recode(MustAlleleSet("A", "G"))
	assert.ErrorIs(t, err, ErrUnknownAllele)
}

func TestEquals(t *testing.T) {
	a := mustArray(t, []string{"A/G", "G|A", "./."})
	b := mustArray(t, []string{"G/A", "G|A", "./."}, WithAlleleSet(a.Alleles()))
	assert.True(t, a.Equals(b))

	c := mustArray(t, []string{"G/A", "A|G", "./."}, WithAlleleSet(a.Alleles()))
	assert.False(t, a.Equals(c))

	eq, err := a.EqualElementwise(c)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, eq)

	// Equal allele sets that are distinct pointers still compare equal.
	d := mustArray(t, []string{"A/G", "G|A", "./."}, WithAlleleSet(MustAlleleSet("A", "G")))
	assert.True(t, a.Equals(d))
	assert.False(t, a.Equals(nil))
}

func TestSet(t *testing.T) {
	a := mustArray(t, []string{"A/A", "A/G"})

	require.NoError(t, a.Set(0, Phased(1, 0)))
	assert.Equal(t, "G|A", a.Strings()[0])
	require.NoError(t, a.Set(1, Missing()))
	assert.True(t, a.IsNA()[1])

	assert.ErrorIs(t, a.Set(2, Missing()), ErrIndex)
	assert.ErrorIs(t, a.SetString(0, "A/C"), ErrUnknownAllele)
	assert.ErrorIs(t, a.Set(0, Unphased(0)), ErrInconsistentPloidy)
}

func TestArgsortFactorizeUnique(t *testing.T) {
	a := mustArray(t, []string{"G/G", "./.", "A/G", "A/A", "G/A"})

	assert.Equal(t, []int{3, 2, 4, 0, 1}, a.Argsort())

	labels, uniques := a.Factorize()
	assert.Equal(t, []int{0, -1, 1, 2, 1}, labels)
	assert.Equal(t, []string{"G/G", "A/G", "A/A"}, uniques.Strings())
	assert.Same(t, a.Alleles(), uniques.Alleles())

	assert.Equal(t, 3, a.Unique().Len())
	assert.Equal(t, 1, a.Compare(0, 2))
}

func TestArrayString(t *testing.T) {
	a := mustArray(t, []string{"A/A", "A/G", "G/G", "./.", "G/A", "A/A"})
	assert.Equal(t, "GenotypeArray[A>G; 2n; 6 samples] [A/A, A/G, G/G, ./., G/A, ...]", a.String())
}
