package gtarray

import (
	"fmt"

	"github.com/carbocation/pfx"
)

// Sample identifies one row of a genotype frame.
type Sample struct {
	SampleID string
}

// Samples wraps plain IDs.
func Samples(ids ...string) []Sample {
	out := make([]Sample, len(ids))
	for i, id := range ids {
		out[i] = Sample{SampleID: id}
	}
	return out
}

// ReadSamples reads the sample block, which sits between the header and the
// first column: NSamples IDs, each a str16.
func ReadSamples(f *File) ([]Sample, error) {
	if f.source == nil {
		return nil, pfx.Err(fmt.Errorf("f.source is nil"))
	}

	if f.FlagHasSampleIDs == 0 {
		return nil, pfx.Err(fmt.Errorf("This file indicates that it does not have sample IDs"))
	}

	if f.ColumnsStart < f.SamplesStart {
		return nil, pfx.Err(fmt.Errorf("Columns start at %d, before the sample block at %d", f.ColumnsStart, f.SamplesStart))
	}
	block := make([]byte, f.ColumnsStart-f.SamplesStart)
	if err := f.parseAtOffsetWithBuffer(int64(f.SamplesStart), block); err != nil {
		return nil, pfx.Err(err)
	}

	r := &byteCursor{buf: block}
	samples := make([]Sample, 0, f.NSamples)
	for i := uint32(0); i < f.NSamples; i++ {
		// Copy into a string so the block can be released
		samples = append(samples, Sample{SampleID: r.string16()})
	}
	if r.err != nil {
		return nil, pfx.Err(fmt.Errorf("Sample block: %w", r.err))
	}
	if r.off != len(block) {
		return nil, pfx.Err(fmt.Errorf("Sample block has %d trailing bytes", len(block)-r.off))
	}

	return samples, nil
}
