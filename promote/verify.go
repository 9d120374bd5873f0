package promote

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/wippyai/dtype-runtime/dtype"
)

// The runtime cannot enforce that third-party promotion hooks are
// commutative and associative; that remains an obligation on dtype authors.
// The helpers in this file let extension test suites check the obligation
// explicitly over the class sets they ship.

// PairResolver resolves a pair of classes, matching CommonDType's contract.
type PairResolver func(a, b *dtype.Class) (*dtype.Class, error)

// SequenceResolver resolves a sequence of classes, matching
// PromoteSequence's contract.
type SequenceResolver func(classes []*dtype.Class) (*dtype.Class, error)

// VerifyCommutative checks resolve(a, b) == resolve(b, a) for every pair
// drawn from classes. All mismatches are aggregated into the returned error.
func VerifyCommutative(resolve PairResolver, classes []*dtype.Class) error {
	var err error
	for i, a := range classes {
		for _, b := range classes[i:] {
			ab, abErr := resolve(a, b)
			ba, baErr := resolve(b, a)
			if (abErr == nil) != (baErr == nil) {
				err = multierr.Append(err, fmt.Errorf(
					"commutativity: resolve(%s, %s) err=%v but resolve(%s, %s) err=%v",
					a.Name(), b.Name(), abErr, b.Name(), a.Name(), baErr))
				continue
			}
			if abErr == nil && ab != ba {
				err = multierr.Append(err, fmt.Errorf(
					"commutativity: resolve(%s, %s) = %s but resolve(%s, %s) = %s",
					a.Name(), b.Name(), ab.Name(), b.Name(), a.Name(), ba.Name()))
			}
		}
	}
	return err
}

// VerifyAssociative checks resolve(resolve(a, b), c) == resolve(a, resolve(b, c))
// for every triple drawn from classes. All mismatches are aggregated into
// the returned error.
func VerifyAssociative(resolve PairResolver, classes []*dtype.Class) error {
	var err error
	for _, a := range classes {
		for _, b := range classes {
			for _, c := range classes {
				left := chain(resolve, a, b, c)
				right := chainRight(resolve, a, b, c)
				if left == nil || right == nil {
					if left != right {
						err = multierr.Append(err, fmt.Errorf(
							"associativity: (%s, %s, %s) fails in one grouping only",
							a.Name(), b.Name(), c.Name()))
					}
					continue
				}
				if left != right {
					err = multierr.Append(err, fmt.Errorf(
						"associativity: ((%s, %s), %s) = %s but (%s, (%s, %s)) = %s",
						a.Name(), b.Name(), c.Name(), left.Name(),
						a.Name(), b.Name(), c.Name(), right.Name()))
				}
			}
		}
	}
	return err
}

// VerifySequenceInvariance checks that promote yields the same class for
// every permutation of classes. Any discrepancy across permutations points
// at order-dependent resolution and is aggregated into the returned error.
func VerifySequenceInvariance(promote SequenceResolver, classes []*dtype.Class) error {
	if len(classes) == 0 {
		return nil
	}

	want, wantErr := promote(classes)
	if wantErr != nil {
		return fmt.Errorf("sequence invariance: base ordering failed: %w", wantErr)
	}

	var err error
	permute(classes, func(p []*dtype.Class) {
		got, gotErr := promote(p)
		if gotErr != nil {
			err = multierr.Append(err, fmt.Errorf(
				"sequence invariance: ordering %s failed: %w", nameList(p), gotErr))
			return
		}
		if got != want {
			err = multierr.Append(err, fmt.Errorf(
				"sequence invariance: ordering %s = %s, want %s",
				nameList(p), got.Name(), want.Name()))
		}
	})
	return err
}

func chain(resolve PairResolver, a, b, c *dtype.Class) *dtype.Class {
	ab, err := resolve(a, b)
	if err != nil {
		return nil
	}
	abc, err := resolve(ab, c)
	if err != nil {
		return nil
	}
	return abc
}

func chainRight(resolve PairResolver, a, b, c *dtype.Class) *dtype.Class {
	bc, err := resolve(b, c)
	if err != nil {
		return nil
	}
	abc, err := resolve(a, bc)
	if err != nil {
		return nil
	}
	return abc
}

// permute visits every permutation of classes using Heap's algorithm. The
// slice passed to visit is reused between calls.
func permute(classes []*dtype.Class, visit func([]*dtype.Class)) {
	p := make([]*dtype.Class, len(classes))
	copy(p, classes)

	var heaps func(k int)
	heaps = func(k int) {
		if k == 1 {
			visit(p)
			return
		}
		for i := 0; i < k; i++ {
			heaps(k - 1)
			if k%2 == 0 {
				p[i], p[k-1] = p[k-1], p[i]
			} else {
				p[0], p[k-1] = p[k-1], p[0]
			}
		}
	}
	heaps(len(p))
}

func nameList(classes []*dtype.Class) string {
	s := "["
	for i, c := range classes {
		if i > 0 {
			s += ", "
		}
		s += c.Name()
	}
	return s + "]"
}
