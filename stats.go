package gtarray

import (
	"math"
	"sort"
)

// AlleleCounts returns, per allele index, the number of copies observed
// across all non-missing calls.
func (a *Array) AlleleCounts() []int {
	counts := make([]int, a.Alleles().Len())
	buf := make([]int, a.ploidy)
	for _, code := range a.codes {
		if code == MissingCode {
			continue
		}
		for _, i := range a.codec.indices(code, buf) {
			counts[i]++
		}
	}
	return counts
}

// AlleleFrequencies divides AlleleCounts by the number of called alleles.
// With no calls every frequency is NaN.
func (a *Array) AlleleFrequencies() []float64 {
	counts := a.AlleleCounts()
	total := 0
	for _, c := range counts {
		total += c
	}
	out := make([]float64, len(counts))
	for i, c := range counts {
		if total == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = float64(c) / float64(total)
	}
	return out
}

// MAF is the frequency of the second most common allele, which for a
// biallelic variant is the minor allele frequency. Monomorphic variants
// have MAF 0; arrays with no calls have MAF NaN.
func (a *Array) MAF() float64 {
	freqs := a.AlleleFrequencies()
	if len(freqs) == 0 || math.IsNaN(freqs[0]) {
		return math.NaN()
	}
	if len(freqs) == 1 {
		return 0
	}
	sorted := append([]float64(nil), freqs...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	return sorted[1]
}

// HWEPValue is the exact test for Hardy-Weinberg equilibrium (Wigginton,
// Cutler and Abecasis 2005). It is defined only for diploid biallelic
// variants with at least one call, and is NaN otherwise.
func (a *Array) HWEPValue() float64 {
	if a.ploidy != 2 || a.Alleles().Len() != 2 {
		return math.NaN()
	}
	var homRef, het, homAlt int
	buf := make([]int, 2)
	for _, code := range a.codes {
		if code == MissingCode {
			continue
		}
		switch countOf(a.codec.indices(code, buf), 1) {
		case 0:
			homRef++
		case 1:
			het++
		default:
			homAlt++
		}
	}
	return hweExact(het, homRef, homAlt)
}

func hweExact(obsHets, obsHom1, obsHom2 int) float64 {
	genotypes := obsHets + obsHom1 + obsHom2
	if genotypes == 0 {
		return math.NaN()
	}
	obsHomr, obsHomc := obsHom1, obsHom2
	if obsHomr > obsHomc {
		obsHomr, obsHomc = obsHomc, obsHomr
	}
	rare := 2*obsHomr + obsHets
	if rare == 0 {
		return 1
	}

	probs := make([]float64, rare+1)
	mid := rare * (2*genotypes - rare) / (2 * genotypes)
	if (rare&1)^(mid&1) != 0 {
		mid++
	}

	probs[mid] = 1
	sum := 1.0

	hets, homr := mid, (rare-mid)/2
	homc := genotypes - hets - homr
	for hets > 1 {
		probs[hets-2] = probs[hets] * float64(hets) * float64(hets-1) /
			(4 * float64(homr+1) * float64(homc+1))
		sum += probs[hets-2]
		hets -= 2
		homr++
		homc++
	}

	hets, homr = mid, (rare-mid)/2
	homc = genotypes - hets - homr
	for hets <= rare-2 {
		probs[hets+2] = probs[hets] * 4 * float64(homr) * float64(homc) /
			(float64(hets+2) * float64(hets+1))
		sum += probs[hets+2]
		hets += 2
		homr--
		homc--
	}

	target := probs[obsHets] / sum
	p := 0.0
	for _, pr := range probs {
		if pr/sum <= target*(1+1e-9) {
			p += pr / sum
		}
	}
	return math.Min(1, p)
}
