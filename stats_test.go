package gtarray

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// repeatCalls builds a diploid A/G array with the given genotype counts.
func repeatCalls(t *testing.T, homRef, het, homAlt, missing int) *Array {
	t.Helper()
	var raws []string
	for _, x := range []struct {
		raw string
		n   int
	}{{"A/A", homRef}, {"A/G", het}, {"G/G", homAlt}, {"./.", missing}} {
		for i := 0; i < x.n; i++ {
			raws = append(raws, x.raw)
		}
	}
	return mustArray(t, raws, WithAlleleSet(MustAlleleSet("A", "G")))
}

func TestAlleleCounts(t *testing.T) {
	a := repeatCalls(t, 3, 2, 1, 4)
	assert.Equal(t, []int{8, 4}, a.AlleleCounts())
	assert.InDeltaSlice(t, []float64{8.0 / 12, 4.0 / 12}, a.AlleleFrequencies(), 1e-12)
	assert.InDelta(t, 4.0/12, a.MAF(), 1e-12)
}

func TestMAF(t *testing.T) {
	assert.Equal(t, 0.0, repeatCalls(t, 5, 0, 0, 0).MAF())
	assert.True(t, math.IsNaN(repeatCalls(t, 0, 0, 0, 3).MAF()))
	assert.InDelta(t, 0.5, repeatCalls(t, 0, 4, 0, 0).MAF(), 1e-12)

	// Multiallelic: the second most common allele.
	a := mustArray(t, strings.Fields("A/A A/A A/G T/T C/C"), WithReference("A"))
	assert.InDelta(t, 0.2, a.MAF(), 1e-12)
}

func TestHWEPValue(t *testing.T) {
	assert.InDelta(t, 1.0, repeatCalls(t, 25, 50, 25, 3).HWEPValue(), 1e-6)
	assert.Less(t, repeatCalls(t, 50, 0, 50, 0).HWEPValue(), 0.05)
	assert.Equal(t, 1.0, repeatCalls(t, 10, 0, 0, 0).HWEPValue())

	assert.True(t, math.IsNaN(repeatCalls(t, 0, 0, 0, 2).HWEPValue()))

	triploid := mustArray(t, []string{"A/A/G"}, WithPloidy(3))
	assert.True(t, math.IsNaN(triploid.HWEPValue()))

	multi := mustArray(t, []string{"A/G", "A/T"})
	assert.True(t, math.IsNaN(multi.HWEPValue()))
}

func TestHWEExactSymmetric(t *testing.T) {
	assert.InDelta(t, hweExact(10, 30, 60), hweExact(10, 60, 30), 1e-12)
	p := hweExact(10, 30, 60)
	assert.True(t, p > 0 && p <= 1)
}
