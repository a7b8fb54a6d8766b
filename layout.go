package gtarray

// Layout selects how a column block stores its genotype codes.
type Layout uint32

const (
	// Layout1 stores every code as a little-endian uint32.
	Layout1 Layout = iota + 1
	// Layout2 bit-packs the codes using the fewest bits that hold the
	// largest code in the block.
	Layout2
)

func (l Layout) String() string {
	switch l {
	case Layout1:
		return "Layout1"
	case Layout2:
		return "Layout2"

	default:
		return "Illegal selection"
	}
}
