package gtarray

import (
	"testing"

	"github.com/carbocation/genomisc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChromosome(t *testing.T) {
	cases := map[uint16]string{
		1: "1", 22: "22", 23: "X", 24: "Y", 25: "XY", 253: "XY", 26: "MT", 254: "MT", 0: "NA", 100: "NA",
	}
	for code, expected := range cases {
		assert.Equal(t, expected, Chromosome(code), "code %d", code)
	}
}

func TestNormalizeChromosome(t *testing.T) {
	cases := map[string]string{
		"1":     "1",
		"chr1":  "1",
		"CHR01": "1",
		"01":    "1",
		"23":    "X",
		"chrX":  "X",
		"x":     "X",
		"chrM":  "MT",
		"MT":    "MT",
		"26":    "MT",
		"":      "",
		"chrUn": "UN",
	}
	for in, expected := range cases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, expected, NormalizeChromosome(in))
		})
	}
}

func TestLessChromosome(t *testing.T) {
	cases := []struct {
		a, b     string
		expected bool
	}{
		{"2", "10", true},
		{"10", "2", false},
		{"chr22", "X", true},
		{"X", "Y", true},
		{"MT", "X", false},
		{"Y", "MT", true},
		{"MT", "UN", true},
		{"GL000192.1", "UN", true},
		{"chr1", "01", false},
	}
	for _, tc := range cases {
		t.Run(tc.a+" < "+tc.b, func(t *testing.T) {
			assert.Equal(t, tc.expected, lessChromosome(tc.a, tc.b))
		})
	}
}

func TestVariant(t *testing.T) {
	v, err := NewVariant("chr7", 117559590, "rs113993960", "ATCT", "A")
	require.NoError(t, err)

	assert.Equal(t, "7", v.Chromosome())
	assert.Equal(t, uint32(117559590), v.Position())
	assert.Equal(t, "rs113993960", v.ID())
	assert.Equal(t, 2, v.NAlleles())
	assert.Equal(t, "7:117559590 rs113993960 ATCT>A", v.String())

	same, err := NewVariant("7", 117559590, "rs113993960", "ATCT", "A")
	require.NoError(t, err)
	assert.True(t, v.Equal(same))

	moved, err := NewVariant("7", 117559591, "rs113993960", "ATCT", "A")
	require.NoError(t, err)
	assert.False(t, v.Equal(moved))
	assert.False(t, v.Equal(nil))

	_, err = NewVariant("1", 1, "", "A", "A")
	assert.ErrorIs(t, err, ErrDuplicateAllele)

	assert.Equal(t, "A>G", VariantOf(MustAlleleSet("A", "G")).String())
}

func TestVariantFromBIM(t *testing.T) {
	v, err := VariantFromBIM(genomisc.BIMRow{
		Chromosome: "23",
		Coordinate: 1000,
		VariantID:  "rs42",
		Allele1:    "T",
		Allele2:    "C",
	})
	require.NoError(t, err)
	assert.Equal(t, "X", v.Chromosome())
	assert.Equal(t, Allele("C"), v.Alleles().Reference())
	assert.Equal(t, []Allele{"T"}, v.Alleles().Alternates())
}
