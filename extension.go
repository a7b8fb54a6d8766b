package gtarray

import (
	"fmt"
)

// CompareOp is an element-wise comparison requested by a host engine.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

func (op CompareOp) String() string {
	switch op {
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	default:
		return "Illegal comparison"
	}
}

// ArithOp is an arithmetic operator. Genotype columns support none of them;
// they exist so the adapter can refuse them explicitly.
type ArithOp int

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
)

func (op ArithOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	default:
		return "Illegal arithmetic"
	}
}

// ExtensionArray is the fixed set of operations a host tabular engine needs
// from a column type. Values crossing the boundary are Genotype, string
// (parsed against the column's allele set) or nil (missing).
type ExtensionArray interface {
	DType() DType
	Len() int
	Item(i int) (Genotype, error)
	SetItem(i int, value any) error
	IsNA() []bool
	Take(indices []int, allowFill bool, fill any) (ExtensionArray, error)
	Copy() ExtensionArray
	Concat(others ...ExtensionArray) (ExtensionArray, error)
	Compare(op CompareOp, other any) ([]bool, error)
	Arith(op ArithOp, other any) (ExtensionArray, error)
	Reduce(name string, skipNA bool) (any, error)
}

// Column adapts an *Array to ExtensionArray. It holds no state of its own.
type Column struct {
	arr *Array
}

var _ ExtensionArray = (*Column)(nil)

func NewColumn(a *Array) *Column {
	return &Column{arr: a}
}

// ColumnFromStrings is the host engine's "construct from sequence" hook.
func ColumnFromStrings(raws []string, opts ...Option) (*Column, error) {
	a, err := FromStrings(raws, opts...)
	if err != nil {
		return nil, err
	}
	return NewColumn(a), nil
}

// ColumnFromDType builds a column of the given dtype from raw strings.
func ColumnFromDType(dtype DType, raws []string) (*Column, error) {
	return ColumnFromStrings(raws, WithVariant(dtype.Variant), WithPloidy(dtype.Ploidy))
}

// Array returns the underlying genotype array.
func (c *Column) Array() *Array {
	return c.arr
}

func (c *Column) DType() DType {
	return c.arr.DType()
}

func (c *Column) Len() int {
	return c.arr.Len()
}

// position resolves a possibly negative index the way host engines do.
func (c *Column) position(i int) (int, error) {
	n := c.arr.Len()
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, &IndexError{Index: i, Length: n}
	}
	return i, nil
}

func (c *Column) Item(i int) (Genotype, error) {
	pos, err := c.position(i)
	if err != nil {
		return Genotype{}, err
	}
	return c.arr.At(pos), nil
}

func (c *Column) toGenotype(value any) (Genotype, error) {
	switch v := value.(type) {
	case nil:
		return MissingOf(c.arr.ploidy), nil
	case Genotype:
		return v, nil
	case string:
		return Parse(v, c.arr.Alleles(), c.arr.ploidy)
	}
	return Genotype{}, notSupported(fmt.Sprintf("genotype value of type %T", value))
}

func (c *Column) SetItem(i int, value any) error {
	pos, err := c.position(i)
	if err != nil {
		return err
	}
	g, err := c.toGenotype(value)
	if err != nil {
		return err
	}
	return c.arr.Set(pos, g)
}

func (c *Column) IsNA() []bool {
	return c.arr.IsNA()
}

func (c *Column) Take(indices []int, allowFill bool, fill any) (ExtensionArray, error) {
	g, err := c.toGenotype(fill)
	if err != nil {
		return nil, err
	}
	if !allowFill {
		// Without fill, negative positions count from the end.
		resolved := make([]int, len(indices))
		for k, i := range indices {
			if resolved[k], err = c.position(i); err != nil {
				return nil, err
			}
		}
		indices = resolved
	}
	a, err := c.arr.Take(indices, allowFill, g)
	if err != nil {
		return nil, err
	}
	return NewColumn(a), nil
}

func (c *Column) Copy() ExtensionArray {
	return NewColumn(c.arr.Copy())
}

func (c *Column) Concat(others ...ExtensionArray) (ExtensionArray, error) {
	arrays := []*Array{c.arr}
	for _, o := range others {
		oc, ok := o.(*Column)
		if !ok {
			return nil, notSupported(fmt.Sprintf("concat with %T", o))
		}
		arrays = append(arrays, oc.arr)
	}
	a, err := Concat(arrays...)
	if err != nil {
		return nil, err
	}
	return NewColumn(a), nil
}

// Compare evaluates op element-wise against another genotype column, an
// *Array, or a single Genotype or string broadcast to every row. Equality
// follows Genotype.Equal, so two missing calls are equal. Ordering
// comparisons are false wherever either side is missing.
func (c *Column) Compare(op CompareOp, other any) ([]bool, error) {
	if op < OpEq || op > OpGe {
		return nil, notSupported(op.String())
	}
	n := c.arr.Len()
	var right func(i int) Genotype
	switch o := other.(type) {
	case *Column:
		if err := c.checkOperand(o.arr); err != nil {
			return nil, err
		}
		right = o.arr.At
	case *Array:
		if err := c.checkOperand(o); err != nil {
			return nil, err
		}
		right = o.At
	default:
		g, err := c.toGenotype(other)
		if err != nil {
			return nil, err
		}
		if err := g.validate(c.arr.Alleles(), c.arr.ploidy); err != nil {
			return nil, err
		}
		right = func(int) Genotype { return g }
	}

	out := make([]bool, n)
	for i := 0; i < n; i++ {
		l, r := c.arr.At(i), right(i)
		switch op {
		case OpEq:
			out[i] = l.Equal(r)
		case OpNe:
			out[i] = !l.Equal(r)
		default:
			if l.IsMissing() || r.IsMissing() {
				continue
			}
			cmp := l.Compare(r)
			switch op {
			case OpLt:
				out[i] = cmp < 0
			case OpLe:
				out[i] = cmp <= 0
			case OpGt:
				out[i] = cmp > 0
			case OpGe:
				out[i] = cmp >= 0
			}
		}
	}
	return out, nil
}

func (c *Column) checkOperand(o *Array) error {
	if !c.arr.Compatible(o) {
		return c.arr.incompatible(o)
	}
	if o.Len() != c.arr.Len() {
		return fmt.Errorf("cannot compare genotype columns of lengths %d and %d", c.arr.Len(), o.Len())
	}
	return nil
}

// Arith always fails: adding or multiplying genotypes has no meaning.
// Encode the column first to do arithmetic on numbers.
func (c *Column) Arith(op ArithOp, other any) (ExtensionArray, error) {
	return nil, notSupported("arithmetic " + op.String())
}

// Reduce supports count, min, max and mode. min and max use the genotype
// sort order. When skipNA is false any missing call makes min, max and mode
// missing. An empty or all-missing column reduces to a missing call.
func (c *Column) Reduce(name string, skipNA bool) (any, error) {
	a := c.arr
	missing := MissingOf(a.ploidy)
	switch name {
	case "count":
		return a.Count(), nil
	case "min", "max", "mode":
	default:
		return nil, notSupported("reduction " + name)
	}
	if !skipNA && a.Count() != a.Len() {
		return missing, nil
	}
	if a.Count() == 0 {
		return missing, nil
	}

	if name == "mode" {
		labels, uniques := a.Factorize()
		counts := make([]int, uniques.Len())
		for _, l := range labels {
			if l >= 0 {
				counts[l]++
			}
		}
		best := 0
		for i := 1; i < len(counts); i++ {
			if counts[i] > counts[best] ||
				(counts[i] == counts[best] && uniques.Compare(i, best) < 0) {
				best = i
			}
		}
		return uniques.At(best).Canonical(), nil
	}

	var best Genotype
	found := false
	for i := 0; i < a.Len(); i++ {
		g := a.At(i)
		if g.IsMissing() {
			continue
		}
		if !found ||
			(name == "min" && g.Compare(best) < 0) ||
			(name == "max" && g.Compare(best) > 0) {
			best, found = g, true
		}
	}
	return best, nil
}
