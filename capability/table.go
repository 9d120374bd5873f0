package capability

import (
	"fmt"

	errs "github.com/wippyai/dtype-runtime/errors"
)

// Table is a capability table: a fixed sequence of typed entries indexed by
// Slot. Providers build a table with Bind, then Freeze it before handing it
// to consumers. A frozen table is immutable, so concurrent reads need no
// synchronization.
//
// Entries are validated against the slot's documented signature when bound.
// There is no cast at call sites; consumers retrieve entries through the
// typed accessors.
type Table struct {
	entries [slotCount]any
	frozen  bool
}

// NewTable creates an empty, unfrozen table.
func NewTable() *Table {
	return &Table{}
}

// Bind stores an entry in a slot after validating its concrete type.
func (t *Table) Bind(slot Slot, entry any) error {
	if t.frozen {
		return errs.New(errs.PhaseBind, errs.KindInvalidInput).
			Slot(slot.String()).
			Detail("table is frozen").
			Build()
	}
	if slot == SlotInvalid || slot >= slotCount {
		return errs.New(errs.PhaseBind, errs.KindInvalidInput).
			Slot(slot.String()).
			Detail("slot %d out of range", slot).
			Build()
	}
	if entry == nil {
		return errs.New(errs.PhaseBind, errs.KindInvalidInput).
			Slot(slot.String()).
			Detail("nil entry").
			Build()
	}

	var ok bool
	var want string
	switch slot {
	case SlotDefaultDescriptor:
		_, ok = entry.(DefaultDescriptorFunc)
		want = "capability.DefaultDescriptorFunc"
	case SlotCommonDType:
		_, ok = entry.(CommonDTypeFunc)
		want = "capability.CommonDTypeFunc"
	case SlotPromoteSequence:
		_, ok = entry.(PromoteSequenceFunc)
		want = "capability.PromoteSequenceFunc"
	case SlotRegisterDType:
		_, ok = entry.(RegisterDTypeFunc)
		want = "capability.RegisterDTypeFunc"
	case SlotLookupDType:
		_, ok = entry.(LookupDTypeFunc)
		want = "capability.LookupDTypeFunc"
	case SlotCanCast:
		_, ok = entry.(CanCastFunc)
		want = "capability.CanCastFunc"
	}
	if !ok {
		return errs.SlotMismatch(slot.String(), want, fmt.Sprintf("%T", entry))
	}

	t.entries[slot] = entry
	return nil
}

// Freeze marks the table immutable. Further Bind calls fail. Providers must
// freeze a table before returning it from a handshake.
func (t *Table) Freeze() {
	t.frozen = true
}

// Frozen reports whether the table has been frozen.
func (t *Table) Frozen() bool {
	return t.frozen
}

// Bound reports whether a slot holds an entry.
func (t *Table) Bound(slot Slot) bool {
	return slot > SlotInvalid && slot < slotCount && t.entries[slot] != nil
}

// Typed accessors. Each returns (entry, true) when the slot is bound.

// DefaultDescriptor returns the SlotDefaultDescriptor entry.
func (t *Table) DefaultDescriptor() (DefaultDescriptorFunc, bool) {
	fn, ok := t.entries[SlotDefaultDescriptor].(DefaultDescriptorFunc)
	return fn, ok
}

// CommonDType returns the SlotCommonDType entry.
func (t *Table) CommonDType() (CommonDTypeFunc, bool) {
	fn, ok := t.entries[SlotCommonDType].(CommonDTypeFunc)
	return fn, ok
}

// PromoteSequence returns the SlotPromoteSequence entry.
func (t *Table) PromoteSequence() (PromoteSequenceFunc, bool) {
	fn, ok := t.entries[SlotPromoteSequence].(PromoteSequenceFunc)
	return fn, ok
}

// RegisterDType returns the SlotRegisterDType entry.
func (t *Table) RegisterDType() (RegisterDTypeFunc, bool) {
	fn, ok := t.entries[SlotRegisterDType].(RegisterDTypeFunc)
	return fn, ok
}

// LookupDType returns the SlotLookupDType entry.
func (t *Table) LookupDType() (LookupDTypeFunc, bool) {
	fn, ok := t.entries[SlotLookupDType].(LookupDTypeFunc)
	return fn, ok
}

// CanCast returns the SlotCanCast entry.
func (t *Table) CanCast() (CanCastFunc, bool) {
	fn, ok := t.entries[SlotCanCast].(CanCastFunc)
	return fn, ok
}
