package capability

import (
	"github.com/wippyai/dtype-runtime/dtype"
)

// Version is the capability table ABI version this package's slot layout
// belongs to. Providers compare the version a consumer requests against
// their own constant; exact equality is required.
//
// History:
//
//	1: DefaultDescriptor, CommonDType, RegisterDType
//	2: + LookupDType, CanCast
//	3: + PromoteSequence
const Version uint32 = 3

// Slot is a fixed index into the capability table. The slot-to-capability
// mapping below is frozen for ABI version 3: reordering or reusing a slot
// number is an ABI break and requires a new Version.
type Slot uint8

const (
	// SlotInvalid is reserved; binding it always fails.
	SlotInvalid Slot = iota

	// SlotDefaultDescriptor resolves a class's default descriptor.
	SlotDefaultDescriptor

	// SlotCommonDType resolves the common class of a pair of classes.
	SlotCommonDType

	// SlotPromoteSequence resolves the common class of a whole sequence.
	SlotPromoteSequence

	// SlotRegisterDType registers a third-party class with the provider.
	SlotRegisterDType

	// SlotLookupDType resolves a registered class by name.
	SlotLookupDType

	// SlotCanCast reports whether elements of one class can be cast to
	// another without the runtime refusing the conversion.
	SlotCanCast

	slotCount
)

// NumSlots is the number of slots in a version-3 table, including the
// reserved slot 0.
const NumSlots = int(slotCount)

// String returns the slot's frozen name.
func (s Slot) String() string {
	switch s {
	case SlotDefaultDescriptor:
		return "default_descriptor"
	case SlotCommonDType:
		return "common_dtype"
	case SlotPromoteSequence:
		return "promote_sequence"
	case SlotRegisterDType:
		return "register_dtype"
	case SlotLookupDType:
		return "lookup_dtype"
	case SlotCanCast:
		return "can_cast"
	default:
		return "invalid"
	}
}

// Typed entry signatures, one per slot. A Table stores exactly these types;
// binding anything else is rejected at registration time.

// DefaultDescriptorFunc is the SlotDefaultDescriptor entry type.
type DefaultDescriptorFunc func(c *dtype.Class) (*dtype.Descriptor, error)

// CommonDTypeFunc is the SlotCommonDType entry type. Implementations are
// expected to be commutative and associative over the classes they accept.
type CommonDTypeFunc func(a, b *dtype.Class) (*dtype.Class, error)

// PromoteSequenceFunc is the SlotPromoteSequence entry type. Implementations
// may produce results no left-to-right fold of the pairwise resolver can
// reach, and must not depend on input order.
type PromoteSequenceFunc func(classes []*dtype.Class) (*dtype.Class, error)

// RegisterDTypeFunc is the SlotRegisterDType entry type.
type RegisterDTypeFunc func(c *dtype.Class) error

// LookupDTypeFunc is the SlotLookupDType entry type.
type LookupDTypeFunc func(name string) (*dtype.Class, error)

// CanCastFunc is the SlotCanCast entry type.
type CanCastFunc func(from, to *dtype.Class) (bool, error)
