package gtarray

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnItems(t *testing.T) {
	c, err := ColumnFromStrings([]string{"A/A", "A/G", "./."})
	require.NoError(t, err)

	var ext ExtensionArray = c
	assert.Equal(t, 3, ext.Len())
	assert.Equal(t, []bool{false, false, true}, ext.IsNA())

	g, err := ext.Item(-2)
	require.NoError(t, err)
	assert.True(t, Unphased(0, 1).Equal(g))

	_, err = ext.Item(3)
	assert.ErrorIs(t, err, ErrIndex)
	_, err = ext.Item(-4)
	assert.ErrorIs(t, err, ErrIndex)

	require.NoError(t, ext.SetItem(2, "G|G"))
	require.NoError(t, ext.SetItem(0, nil))
	require.NoError(t, ext.SetItem(-2, Phased(1, 0)))
	assert.Equal(t, []string{"./.", "G|A", "G|G"}, c.Array().Strings())

	assert.ErrorIs(t, ext.SetItem(0, "A/T"), ErrUnknownAllele)
	assert.ErrorIs(t, ext.SetItem(0, 1.5), ErrNotSupported)
}

func TestColumnFromDType(t *testing.T) {
	d, err := ParseDType("genotype(2n)[1; 500; rs1; C; T]")
	require.NoError(t, err)

	c, err := ColumnFromDType(d, []string{"C/T", "T/T"})
	require.NoError(t, err)
	assert.True(t, d.Equal(c.DType()))
	assert.Equal(t, "1", c.Array().Variant().Chromosome())
}

func TestColumnTakeCopyConcat(t *testing.T) {
	c, err := ColumnFromStrings([]string{"A/A", "A/G", "G/G"})
	require.NoError(t, err)

	taken, err := c.Take([]int{-1, 0}, false, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"G/G", "A/A"}, taken.(*Column).Array().Strings())

	filled, err := c.Take([]int{-1, 1}, true, nil)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, filled.IsNA())

	filled, err = c.Take([]int{5}, true, "A/G")
	require.NoError(t, err)
	assert.Equal(t, []string{"A/G"}, filled.(*Column).Array().Strings())

	_, err = c.Take([]int{3}, false, nil)
	assert.ErrorIs(t, err, ErrIndex)

	cp := c.Copy()
	require.NoError(t, cp.SetItem(0, "G/G"))
	assert.Equal(t, "A/A", c.Array().Strings()[0])

	joined, err := c.Concat(cp, taken)
	require.NoError(t, err)
	assert.Equal(t, 8, joined.Len())

	other, err := ColumnFromStrings([]string{"A/C"})
	require.NoError(t, err)
	_, err = c.Concat(other)
	assert.ErrorIs(t, err, ErrIncompatibleAlleleSet)
}

func TestColumnCompare(t *testing.T) {
	set := MustAlleleSet("A", "G")
	c, err := ColumnFromStrings([]string{"A/A", "G/A", "G/G", "./."}, WithAlleleSet(set))
	require.NoError(t, err)
	o, err := ColumnFromStrings([]string{"A/G", "A/G", "A/G", "./."}, WithAlleleSet(set))
	require.NoError(t, err)

	cases := []struct {
		op       CompareOp
		other    any
		expected []bool
	}{
		{OpEq, o, []bool{false, true, false, true}},
		{OpNe, o, []bool{true, false, true, false}},
		{OpLt, o, []bool{true, false, false, false}},
		{OpLe, o, []bool{true, true, false, false}},
		{OpGt, o.Array(), []bool{false, false, true, false}},
		{OpGe, o.Array(), []bool{false, true, true, false}},
		{OpEq, "A/G", []bool{false, true, false, false}},
		{OpEq, nil, []bool{false, false, false, true}},
		{OpGe, Unphased(1, 1), []bool{false, false, true, false}},
	}
	for _, tc := range cases {
		t.Run(tc.op.String(), func(t *testing.T) {
			got, err := c.Compare(tc.op, tc.other)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}

	_, err = c.Compare(OpEq, "A/T")
	assert.ErrorIs(t, err, ErrUnknownAllele)
	_, err = c.Compare(OpEq, Unphased(0, 2))
	assert.ErrorIs(t, err, ErrMalformedGenotype)

	short, err := ColumnFromStrings([]string{"A/G"}, WithAlleleSet(set))
	require.NoError(t, err)
	_, err = c.Compare(OpEq, short)
	assert.Error(t, err)

	missing, err := ColumnFromStrings([]string{"./.", "./."}, WithAlleleSet(set))
	require.NoError(t, err)
	for _, tc := range []struct {
		name string
		c    *Column
	}{
		{"called", c},
		{"all missing", missing},
	} {
		t.Run("unknown op on "+tc.name, func(t *testing.T) {
			got, err := tc.c.Compare(CompareOp(99), tc.c)
			assert.ErrorIs(t, err, ErrNotSupported)
			assert.Nil(t, got)
		})
	}
}

func TestColumnArith(t *testing.T) {
	c, err := ColumnFromStrings([]string{"A/G"})
	require.NoError(t, err)
	for _, op := range []ArithOp{OpAdd, OpSub, OpMul, OpDiv} {
		_, err := c.Arith(op, c)
		assert.ErrorIs(t, err, ErrNotSupported, op.String())
	}
}

func TestColumnReduce(t *testing.T) {
	c, err := ColumnFromStrings([]string{"G/G", "A/G", "./.", "G/A", "A/A"})
	require.NoError(t, err)

	n, err := c.Reduce("count", true)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	for _, tc := range []struct {
		name     string
		expected Genotype
	}{
		{"min", Unphased(0, 0)},
		{"max", Unphased(1, 1)},
		{"mode", Unphased(0, 1)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.Reduce(tc.name, true)
			require.NoError(t, err)
			assert.True(t, tc.expected.Equal(got.(Genotype)), "got %v", got)

			got, err = c.Reduce(tc.name, false)
			require.NoError(t, err)
			assert.True(t, got.(Genotype).IsMissing())
		})
	}

	_, err = c.Reduce("sum", true)
	assert.ErrorIs(t, err, ErrNotSupported)
}
