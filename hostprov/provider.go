package hostprov

import (
	"sync"

	"github.com/wippyai/dtype-runtime/capability"
	"github.com/wippyai/dtype-runtime/dtype"
	errs "github.com/wippyai/dtype-runtime/errors"
	"github.com/wippyai/dtype-runtime/promote"
)

// ABIVersion is the capability table layout this provider is built against.
const ABIVersion = capability.Version

// Provider is the in-process producer of the capability table. It owns the
// process-wide set of registered descriptor classes, seeds it with the
// builtins, and serves a frozen table to any consumer that requests a
// matching ABI version.
//
// The table is built once and shared between consumers; registration after
// the first handshake is visible to every consumer because the table entries
// close over the provider's class map.
type Provider struct {
	mu      sync.RWMutex
	classes map[string]*dtype.Class

	tableOnce sync.Once
	table     *capability.Table
	tableErr  error
}

// New creates a provider seeded with the builtin classes.
func New() *Provider {
	p := &Provider{classes: make(map[string]*dtype.Class)}
	for _, c := range dtype.Builtins() {
		p.classes[c.Name()] = c
	}
	return p
}

// ABIVersion returns the provider's built-in table version.
func (p *Provider) ABIVersion() uint32 { return ABIVersion }

// AcquireTable implements registry.Provider. The requested version must
// equal ABIVersion exactly; the table layout has no notion of partial
// compatibility.
func (p *Provider) AcquireTable(requested uint32) (*capability.Table, error) {
	if requested != ABIVersion {
		return nil, errs.VersionMismatch(requested, ABIVersion)
	}

	p.tableOnce.Do(func() {
		p.table, p.tableErr = p.buildTable()
	})
	return p.table, p.tableErr
}

// Register adds a third-party class to the provider. Duplicate names are
// rejected so a name always resolves to one class for the process lifetime.
func (p *Provider) Register(c *dtype.Class) error {
	if c == nil {
		return errs.InvalidInput(errs.PhaseRegister, "nil dtype class")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.classes[c.Name()]; exists {
		return errs.Duplicate(c.Name())
	}
	p.classes[c.Name()] = c
	return nil
}

// Lookup resolves a registered class by name.
func (p *Provider) Lookup(name string) (*dtype.Class, error) {
	p.mu.RLock()
	c, ok := p.classes[name]
	p.mu.RUnlock()
	if !ok {
		return nil, errs.NotFound("dtype", name)
	}
	return c, nil
}

// Classes returns a snapshot of all registered classes in no particular
// order.
func (p *Provider) Classes() []*dtype.Class {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*dtype.Class, 0, len(p.classes))
	for _, c := range p.classes {
		out = append(out, c)
	}
	return out
}

func (p *Provider) buildTable() (*capability.Table, error) {
	t := capability.NewTable()

	bindings := []struct {
		slot  capability.Slot
		entry any
	}{
		{capability.SlotDefaultDescriptor, capability.DefaultDescriptorFunc(p.defaultDescriptor)},
		{capability.SlotCommonDType, capability.CommonDTypeFunc(promote.CommonDType)},
		{capability.SlotPromoteSequence, capability.PromoteSequenceFunc(promote.PromoteSequence)},
		{capability.SlotRegisterDType, capability.RegisterDTypeFunc(p.Register)},
		{capability.SlotLookupDType, capability.LookupDTypeFunc(p.Lookup)},
		{capability.SlotCanCast, capability.CanCastFunc(promote.CanCast)},
	}
	for _, b := range bindings {
		if err := t.Bind(b.slot, b.entry); err != nil {
			return nil, err
		}
	}

	t.Freeze()
	return t, nil
}

func (p *Provider) defaultDescriptor(c *dtype.Class) (*dtype.Descriptor, error) {
	if c == nil {
		return nil, errs.InvalidInput(errs.PhaseResolve, "nil dtype class")
	}
	return c.DefaultDescr()
}
