package gtarray

import (
	"strconv"
	"strings"
)

// Chromosome takes a numeric chromosome code, as used by PLINK and older
// BGEN writers, and returns its standard name. Unknown codes yield "NA".
func Chromosome(chr uint16) string {
	switch {
	case chr >= 1 && chr <= 22:
		return strconv.Itoa(int(chr))
	case chr == 23:
		return "X"
	case chr == 24:
		return "Y"
	case chr == 25, chr == 253:
		return "XY"
	case chr == 26, chr == 254:
		return "MT"
	}

	return "NA"
}

// NormalizeChromosome strips a "chr" prefix and zero padding, and maps
// numeric sex/mitochondrial codes to their names, so that "chr01", "01" and
// "1" all compare equal.
func NormalizeChromosome(chr string) string {
	chr = strings.TrimSpace(chr)
	if len(chr) > 3 && strings.EqualFold(chr[:3], "chr") {
		chr = chr[3:]
	}
	if n, err := strconv.ParseUint(chr, 10, 16); err == nil {
		if name := Chromosome(uint16(n)); name != "NA" {
			return name
		}
		return chr
	}
	chr = strings.ToUpper(strings.TrimLeft(chr, "0"))
	if chr == "M" {
		return "MT"
	}
	return chr
}

// chromosomeRank orders chromosomes the way genome builds list them:
// autosomes numerically, then X, Y, XY and MT, then anything else.
func chromosomeRank(chr string) int {
	chr = NormalizeChromosome(chr)
	if n, err := strconv.Atoi(chr); err == nil && n >= 1 && n <= 22 {
		return n
	}
	switch chr {
	case "X":
		return 23
	case "Y":
		return 24
	case "XY":
		return 25
	case "MT":
		return 26
	}
	return 27
}

// lessChromosome reports whether a sorts before b in genomic order.
// Unrecognized names sort after the known ones, alphabetically.
func lessChromosome(a, b string) bool {
	ra, rb := chromosomeRank(a), chromosomeRank(b)
	if ra != rb {
		return ra < rb
	}
	return NormalizeChromosome(a) < NormalizeChromosome(b)
}
