package gtarray

import (
	"errors"
	"fmt"
	"math"
)

// Frame is a set of genotype columns over the same samples, one column per
// variant. It provides the per-variant summaries and bulk encodings that a
// host engine would expose on a table made only of genotype columns.
type Frame struct {
	samples []Sample
	names   []string
	columns map[string]*Array
}

// NewFrame returns an empty frame. samples may be nil, in which case the
// first column added fixes the number of rows.
func NewFrame(samples []Sample) *Frame {
	return &Frame{
		samples: append([]Sample(nil), samples...),
		columns: make(map[string]*Array),
	}
}

// Add appends a column. Every column must have one call per sample.
func (f *Frame) Add(name string, a *Array) error {
	if _, ok := f.columns[name]; ok {
		return fmt.Errorf("frame already has a column named %q", name)
	}
	if n := f.NRows(); (len(f.names) > 0 || len(f.samples) > 0) && a.Len() != n {
		return fmt.Errorf("column %q has %d calls, frame has %d rows", name, a.Len(), n)
	}
	f.names = append(f.names, name)
	f.columns[name] = a
	return nil
}

// NRows is the number of samples.
func (f *Frame) NRows() int {
	if len(f.samples) > 0 {
		return len(f.samples)
	}
	if len(f.names) > 0 {
		return f.columns[f.names[0]].Len()
	}
	return 0
}

func (f *Frame) Samples() []Sample {
	return append([]Sample(nil), f.samples...)
}

// Names returns the column names in insertion order.
func (f *Frame) Names() []string {
	return append([]string(nil), f.names...)
}

func (f *Frame) Column(name string) (*Array, bool) {
	a, ok := f.columns[name]
	return a, ok
}

// VariantInfo describes one column's variant.
type VariantInfo struct {
	Column     string
	Chromosome string
	Position   uint32
	ID         string
	Ref        string
	Alt        []string
	Ploidy     int
}

func (f *Frame) VariantInfo() []VariantInfo {
	out := make([]VariantInfo, 0, len(f.names))
	for _, name := range f.names {
		a := f.columns[name]
		v := a.Variant()
		alts := make([]string, 0, v.NAlleles()-1)
		for _, x := range v.Alleles().Alternates() {
			alts = append(alts, string(x))
		}
		out = append(out, VariantInfo{
			Column:     name,
			Chromosome: v.Chromosome(),
			Position:   v.Position(),
			ID:         v.ID(),
			Ref:        string(v.Alleles().Reference()),
			Alt:        alts,
			Ploidy:     a.Ploidy(),
		})
	}
	return out
}

// MAF returns Array.MAF for every column, in column order.
func (f *Frame) MAF() []float64 {
	out := make([]float64, len(f.names))
	for i, name := range f.names {
		out[i] = f.columns[name].MAF()
	}
	return out
}

// HWEPValues returns Array.HWEPValue for every column, in column order.
func (f *Frame) HWEPValues() []float64 {
	out := make([]float64, len(f.names))
	for i, name := range f.names {
		out[i] = f.columns[name].HWEPValue()
	}
	return out
}

// Encoded is a numeric table: Values[i] is the encoding of column Names[i].
type Encoded struct {
	Names  []string
	Values [][]float64
}

// Encode applies enc to every column. The first column that enc rejects
// fails the whole frame.
func (f *Frame) Encode(enc NumericEncoding) (*Encoded, error) {
	out := &Encoded{Names: f.Names(), Values: make([][]float64, len(f.names))}
	for i, name := range f.names {
		vals, err := enc.Encode(f.columns[name])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		out.Values[i] = vals
	}
	return out, nil
}

func (f *Frame) EncodeAdditive() (*Encoded, error)  { return f.Encode(Additive{}) }
func (f *Frame) EncodeDominant() (*Encoded, error)  { return f.Encode(Dominant{}) }
func (f *Frame) EncodeRecessive() (*Encoded, error) { return f.Encode(Recessive{}) }

// EncodeCodominant returns one categorical column per genotype column.
func (f *Frame) EncodeCodominant() map[string]Categorical {
	out := make(map[string]Categorical, len(f.names))
	for _, name := range f.names {
		out[name] = EncodeCodominant(f.columns[name])
	}
	return out
}

// WeightedEncodingInfo carries the per-variant parameters of the weighted
// (edge) encoding, matched to columns by variant ID.
type WeightedEncodingInfo struct {
	VariantID string
	Alpha     float64
	Ref       string
	Alt       string
	MAF       float64
}

// EncodeWeighted applies Weighted to every column whose variant ID appears
// in infos. Columns without an entry, or whose alleles do not include the
// entry's Ref and Alt, are left out of the result. Any other encoding error,
// such as a multiallelic or non-diploid column, fails the whole frame, as do
// duplicate variant IDs in infos.
func (f *Frame) EncodeWeighted(infos []WeightedEncodingInfo) (*Encoded, error) {
	byID := make(map[string]WeightedEncodingInfo, len(infos))
	for _, info := range infos {
		if _, dup := byID[info.VariantID]; dup {
			return nil, fmt.Errorf("duplicate variant ID %q in weighted encoding info", info.VariantID)
		}
		byID[info.VariantID] = info
	}

	out := &Encoded{}
	for _, name := range f.names {
		a := f.columns[name]
		info, ok := byID[a.Variant().ID()]
		if !ok {
			continue
		}
		vals, err := Weighted{Alpha: info.Alpha, Ref: info.Ref, Alt: info.Alt}.Encode(a)
		if errors.Is(err, ErrUnknownAllele) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		out.Names = append(out.Names, name)
		out.Values = append(out.Values, vals)
	}
	return out, nil
}

func (f *Frame) filter(keep func(*Array) bool) *Frame {
	out := NewFrame(f.samples)
	for _, name := range f.names {
		if a := f.columns[name]; keep(a) {
			out.names = append(out.names, name)
			out.columns[name] = a
		}
	}
	return out
}

// FilterMAF keeps the columns whose MAF is at least keepMin.
func (f *Frame) FilterMAF(keepMin float64) *Frame {
	return f.filter(func(a *Array) bool { return a.MAF() >= keepMin })
}

// FilterHWE keeps the columns whose HWE p-value is at least cutoff. Columns
// where the test is undefined (NaN) are kept.
func (f *Frame) FilterHWE(cutoff float64) *Frame {
	return f.filter(func(a *Array) bool {
		p := a.HWEPValue()
		return math.IsNaN(p) || p >= cutoff
	})
}
