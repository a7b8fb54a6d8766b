package gtarray

// Choose returns the binomial coefficient n choose k. The number of distinct
// unphased genotypes for n alleles at ploidy p is Choose(n+p-1, p).
// Originally derived from github.com/limix/bgen /src/util/choose.c
func Choose(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k == 1 {
		return n
	}

	ans := 1

	if k > n-k {
		k = n - k
	}

	for j := 1; j <= k; j++ {
		if n%j == 0 {
			ans *= n / j
		} else if ans%j == 0 {
			ans = ans / j * n
		} else {
			ans = (ans * n) / j
		}

		n--
	}

	return ans
}

// NGenotypes is the number of distinct unphased calls for a variant with
// nAlleles alleles at the given ploidy.
func NGenotypes(nAlleles, ploidy int) int {
	return Choose(nAlleles+ploidy-1, ploidy)
}

// WhichSQLiteDriver names the database/sql driver used by OpenStore, which
// depends on whether the package was built with cgo.
func WhichSQLiteDriver() string {
	return whichSQLiteDriver
}
