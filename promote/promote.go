package promote

import (
	"github.com/wippyai/dtype-runtime/dtype"
	errs "github.com/wippyai/dtype-runtime/errors"
)

// CommonDType resolves the common descriptor class of a pair of classes.
//
// Resolution order:
//  1. identical classes resolve to themselves;
//  2. either class's CommonWith hook may claim the pair;
//  3. the builtin lattice handles bool/int/uint/float/complex classes.
//
// The relation is commutative. Over the builtin lattice it is also
// associative except where an int class meets uint64 and a small float in
// the same chain; PromoteSequence exists to give order-independent answers
// in exactly those cases.
func CommonDType(a, b *dtype.Class) (*dtype.Class, error) {
	if a == nil || b == nil {
		return nil, errs.InvalidInput(errs.PhasePromote, "nil dtype class")
	}
	if a == b {
		return a, nil
	}

	if c, ok := a.CommonWith(b); ok {
		return c, nil
	}
	if c, ok := b.CommonWith(a); ok {
		return c, nil
	}

	if !latticeKind(a.Kind()) || !latticeKind(b.Kind()) || a.Abstract() || b.Abstract() {
		return nil, errs.NoCommonDType(a.Name(), b.Name())
	}

	return commonBuiltin(a, b)
}

// PromoteSequence resolves the common class of a whole sequence of classes.
//
// Builtin classes are aggregated over the entire sequence before any
// combination happens, so the result is independent of input order and can
// be stronger than any left-to-right fold of CommonDType. For example
// [uint64, int8, float16] promotes to float64 under every ordering, while
// pairwise folds reach float16 or float64 depending on order.
//
// Classes outside the builtin lattice are folded into the aggregate with
// CommonDType in input order; order independence for those is the hook
// author's obligation.
func PromoteSequence(classes []*dtype.Class) (*dtype.Class, error) {
	if len(classes) == 0 {
		return nil, errs.InvalidInput(errs.PhasePromote, "empty dtype sequence")
	}

	var agg aggregate
	var custom []*dtype.Class
	for _, c := range classes {
		if c == nil {
			return nil, errs.InvalidInput(errs.PhasePromote, "nil dtype class in sequence")
		}
		if latticeKind(c.Kind()) && !c.Abstract() {
			agg.add(c)
		} else {
			custom = append(custom, c)
		}
	}

	result, err := agg.resolve()
	if err != nil {
		return nil, err
	}

	for _, c := range custom {
		if result == nil {
			result = c
			continue
		}
		result, err = CommonDType(result, c)
		if err != nil {
			return nil, err
		}
	}
	if result == nil {
		// unreachable: the sequence is non-empty, so either the aggregate
		// or the custom fold produced a class
		return nil, errs.InvalidInput(errs.PhasePromote, "empty dtype sequence")
	}
	return result, nil
}

// CanCast reports whether elements of class from can be converted to class
// to without loss. Identical classes are always castable; everything else
// follows the builtin lattice. Classes outside the lattice are castable
// only to themselves.
func CanCast(from, to *dtype.Class) (bool, error) {
	if from == nil || to == nil {
		return false, errs.InvalidInput(errs.PhasePromote, "nil dtype class")
	}
	if from == to {
		return true, nil
	}
	if !latticeKind(from.Kind()) || !latticeKind(to.Kind()) || from.Abstract() || to.Abstract() {
		return false, nil
	}

	fs, ts := from.ItemSize(), to.ItemSize()
	switch from.Kind() {
	case dtype.KindBool:
		return true, nil
	case dtype.KindUint:
		switch to.Kind() {
		case dtype.KindUint:
			return ts >= fs, nil
		case dtype.KindInt:
			return ts > fs, nil
		case dtype.KindFloat:
			return ts > fs, nil
		case dtype.KindComplex:
			return ts/2 > fs, nil
		}
	case dtype.KindInt:
		switch to.Kind() {
		case dtype.KindInt:
			return ts >= fs, nil
		case dtype.KindFloat:
			return ts > fs, nil
		case dtype.KindComplex:
			return ts/2 > fs, nil
		}
	case dtype.KindFloat:
		switch to.Kind() {
		case dtype.KindFloat:
			return ts >= fs, nil
		case dtype.KindComplex:
			return ts/2 >= fs, nil
		}
	case dtype.KindComplex:
		if to.Kind() == dtype.KindComplex {
			return ts >= fs, nil
		}
	}
	return false, nil
}

func latticeKind(k dtype.Kind) bool {
	switch k {
	case dtype.KindBool, dtype.KindInt, dtype.KindUint, dtype.KindFloat, dtype.KindComplex:
		return true
	}
	return false
}

// commonBuiltin resolves a pair of concrete builtin-lattice classes.
func commonBuiltin(a, b *dtype.Class) (*dtype.Class, error) {
	var agg aggregate
	agg.add(a)
	agg.add(b)
	return agg.resolve()
}

// aggregate collects the strongest member of each builtin category across a
// sequence, deferring all cross-category combination to resolve. Because
// the collection step is a pure max per category, resolve's answer cannot
// depend on input order.
type aggregate struct {
	anyBool    bool
	maxInt     uint32
	maxUint    uint32
	maxFloat   uint32
	maxComplex uint32
}

func (g *aggregate) add(c *dtype.Class) {
	switch c.Kind() {
	case dtype.KindBool:
		g.anyBool = true
	case dtype.KindInt:
		g.maxInt = max(g.maxInt, c.ItemSize())
	case dtype.KindUint:
		g.maxUint = max(g.maxUint, c.ItemSize())
	case dtype.KindFloat:
		g.maxFloat = max(g.maxFloat, c.ItemSize())
	case dtype.KindComplex:
		g.maxComplex = max(g.maxComplex, c.ItemSize())
	}
}

func (g *aggregate) resolve() (*dtype.Class, error) {
	// Merge signed and unsigned integers first. A uint that is at least as
	// wide as every int needs the next wider int; uint64 mixed with any int
	// fits no integer class at all and escalates to float64.
	var intClass *dtype.Class
	floatSize := g.maxFloat
	switch {
	case g.maxInt > 0 && g.maxUint > 0:
		switch {
		case g.maxInt > g.maxUint:
			intClass = intOfSize(g.maxInt)
		case g.maxUint < 8:
			intClass = intOfSize(g.maxUint * 2)
		default:
			floatSize = max(floatSize, 8)
		}
	case g.maxInt > 0:
		intClass = intOfSize(g.maxInt)
	case g.maxUint > 0:
		intClass = uintOfSize(g.maxUint)
	}

	if g.maxComplex > 0 {
		size := g.maxComplex
		if floatSize > 0 {
			size = max(size, floatSize*2)
		}
		return complexOfSize(size)
	}
	if floatSize > 0 {
		return floatOfSize(floatSize)
	}
	if intClass != nil {
		return intClass, nil
	}
	if g.anyBool {
		return dtype.Bool, nil
	}
	return nil, nil
}

func intOfSize(size uint32) *dtype.Class {
	switch size {
	case 1:
		return dtype.Int8
	case 2:
		return dtype.Int16
	case 4:
		return dtype.Int32
	default:
		return dtype.Int64
	}
}

func uintOfSize(size uint32) *dtype.Class {
	switch size {
	case 1:
		return dtype.Uint8
	case 2:
		return dtype.Uint16
	case 4:
		return dtype.Uint32
	default:
		return dtype.Uint64
	}
}

func floatOfSize(size uint32) (*dtype.Class, error) {
	switch size {
	case 2:
		return dtype.Float16, nil
	case 4:
		return dtype.Float32, nil
	case 8:
		return dtype.Float64, nil
	}
	return nil, errs.InvalidInput(errs.PhasePromote, "no float class of that size")
}

func complexOfSize(size uint32) (*dtype.Class, error) {
	switch {
	case size <= 8:
		return dtype.Complex64, nil
	case size <= 16:
		return dtype.Complex128, nil
	}
	return nil, errs.InvalidInput(errs.PhasePromote, "no complex class of that size")
}
