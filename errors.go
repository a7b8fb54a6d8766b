package gtarray

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is. Every typed error below matches exactly one of
// these.
var (
	ErrInvalidAllele           = errors.New("invalid allele")
	ErrDuplicateAllele         = errors.New("duplicate allele")
	ErrMalformedGenotype       = errors.New("malformed genotype")
	ErrUnknownAllele           = errors.New("unknown allele")
	ErrInconsistentPloidy      = errors.New("inconsistent ploidy")
	ErrIncompatibleAlleleSet   = errors.New("incompatible allele set")
	ErrMultiallelicUnsupported = errors.New("multiallelic variant not supported by encoding")
	ErrIndex                   = errors.New("index out of range")
	ErrCodeSpace               = errors.New("genotype code space exceeded")

	// ErrNotSupported is returned by the extension adapter for operations
	// that genotype columns do not implement, such as arithmetic.
	ErrNotSupported = errors.New("operation not supported for genotype columns")
)

type InvalidAlleleError struct {
	Symbols string
}

func (e *InvalidAlleleError) Error() string {
	return fmt.Sprintf("invalid allele %q: expected nucleotides (ACGTN), '*' or a symbolic <ID>", e.Symbols)
}

func (e *InvalidAlleleError) Is(target error) bool { return target == ErrInvalidAllele }

type DuplicateAlleleError struct {
	Allele Allele
	Set    []Allele
}

func (e *DuplicateAlleleError) Error() string {
	return fmt.Sprintf("allele %q appears more than once in allele set %v", e.Allele, e.Set)
}

func (e *DuplicateAlleleError) Is(target error) bool { return target == ErrDuplicateAllele }

// MalformedGenotypeError reports a raw genotype that could not be parsed,
// or a call that does not fit the array it is being placed in.
type MalformedGenotypeError struct {
	Raw    string
	Reason string
}

func (e *MalformedGenotypeError) Error() string {
	return fmt.Sprintf("malformed genotype %q: %s", e.Raw, e.Reason)
}

func (e *MalformedGenotypeError) Is(target error) bool { return target == ErrMalformedGenotype }

type UnknownAlleleError struct {
	Raw    string
	Allele string
	Set    *AlleleSet
}

func (e *UnknownAlleleError) Error() string {
	return fmt.Sprintf("allele %q in %q is not in allele set %s", e.Allele, e.Raw, e.Set)
}

func (e *UnknownAlleleError) Is(target error) bool { return target == ErrUnknownAllele }

type InconsistentPloidyError struct {
	Raw      string
	Expected int
	Got      int
}

func (e *InconsistentPloidyError) Error() string {
	return fmt.Sprintf("genotype %q has ploidy %d, expected %d", e.Raw, e.Got, e.Expected)
}

func (e *InconsistentPloidyError) Is(target error) bool { return target == ErrInconsistentPloidy }

// IncompatibleAlleleSetError is returned by cross-array operations when the
// arrays do not describe the same variant with the same ploidy.
type IncompatibleAlleleSetError struct {
	Left, Right *Variant
	LeftPloidy  int
	RightPloidy int
}

func (e *IncompatibleAlleleSetError) Error() string {
	return fmt.Sprintf("incompatible genotype arrays: %s (%dn) vs %s (%dn)", e.Left, e.LeftPloidy, e.Right, e.RightPloidy)
}

func (e *IncompatibleAlleleSetError) Is(target error) bool { return target == ErrIncompatibleAlleleSet }

type MultiallelicUnsupportedError struct {
	Encoding string
	Set      *AlleleSet
}

func (e *MultiallelicUnsupportedError) Error() string {
	return fmt.Sprintf("%s encoding needs a target alternate allele for multiallelic set %s", e.Encoding, e.Set)
}

func (e *MultiallelicUnsupportedError) Is(target error) bool {
	return target == ErrMultiallelicUnsupported
}

type IndexError struct {
	Index  int
	Length int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range for genotype array of length %d", e.Index, e.Length)
}

func (e *IndexError) Is(target error) bool { return target == ErrIndex }

// CodeSpaceError means that alleles^ploidy does not fit in a packed code.
type CodeSpaceError struct {
	NAlleles int
	Ploidy   int
}

func (e *CodeSpaceError) Error() string {
	return fmt.Sprintf("%d alleles at ploidy %d cannot be packed into %d-bit genotype codes", e.NAlleles, e.Ploidy, codeBits)
}

func (e *CodeSpaceError) Is(target error) bool { return target == ErrCodeSpace }

func notSupported(op string) error {
	return fmt.Errorf("%s: %w", op, ErrNotSupported)
}
