package registry

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/dtype-runtime/capability"
	"github.com/wippyai/dtype-runtime/dtype"
	errs "github.com/wippyai/dtype-runtime/errors"
)

// Provider is the producer side of the handshake: it owns the real
// capability table and hands it out to consumers that request a matching
// ABI version.
type Provider interface {
	// ABIVersion returns the table layout version the provider was built
	// against.
	ABIVersion() uint32

	// AcquireTable returns the provider's capability table if requested
	// matches its ABI version exactly, and a version-mismatch error naming
	// both versions otherwise. The returned table must be frozen.
	AcquireTable(requested uint32) (*capability.Table, error)
}

// Registry is the consumer side: it performs the one-time import handshake
// and exposes the imported capabilities as ordinary typed methods.
//
// Until Import succeeds the registry is in its uninitialized state and every
// accessor fails with a not-initialized error. A failed Import leaves that
// state untouched, so retrying (with a corrected version, or once the
// provider recovers) is always safe.
//
// Registry is safe for concurrent use, including concurrent first-time
// Import calls.
type Registry struct {
	provider Provider

	mu    sync.Mutex
	table atomic.Pointer[capability.Table]
}

// New creates a registry bound to a provider. No handshake happens yet.
func New(provider Provider) *Registry {
	return &Registry{provider: provider}
}

// Import performs the versioned handshake. It is idempotent: once a table
// has been installed, further calls succeed immediately without contacting
// the provider again, whatever version they pass.
func (r *Registry) Import(version uint32) error {
	if r.table.Load() != nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under the lock: another goroutine may have finished the
	// handshake while we waited.
	if r.table.Load() != nil {
		return nil
	}

	if r.provider == nil {
		return errs.New(errs.PhaseHandshake, errs.KindInvalidInput).
			Detail("registry has no provider").
			Build()
	}

	table, err := r.provider.AcquireTable(version)
	if err != nil {
		Logger().Warn("capability table import failed",
			zap.Uint32("requested_version", version),
			zap.Uint32("provider_version", r.provider.ABIVersion()),
			zap.Error(err))
		return err
	}
	if table == nil || !table.Frozen() {
		return errs.New(errs.PhaseHandshake, errs.KindInvalidData).
			Detail("provider returned an unfrozen table").
			Build()
	}

	r.table.Store(table)
	Logger().Info("capability table imported",
		zap.Uint32("abi_version", version))
	return nil
}

// Imported reports whether a successful handshake has happened.
func (r *Registry) Imported() bool {
	return r.table.Load() != nil
}

// Reset drops the imported table, returning the registry to its
// uninitialized state. Intended for tests and controlled teardown; callers
// must ensure no accessor runs concurrently with Reset.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.table.Store(nil)
}

// get returns the imported table, or a not-initialized error naming the
// operation. Failing loudly here is deliberate: a silent no-op before the
// handshake hides real bugs from callers.
func (r *Registry) get(op string) (*capability.Table, error) {
	t := r.table.Load()
	if t == nil {
		Logger().Warn("capability accessed before import", zap.String("op", op))
		return nil, errs.NotInitialized(op)
	}
	return t, nil
}

// DefaultDescriptor resolves a class's default descriptor.
//
// When the class has already materialized its descriptor singleton, that
// cached value is returned without touching the table at all.
func (r *Registry) DefaultDescriptor(c *dtype.Class) (*dtype.Descriptor, error) {
	if c != nil {
		if d := c.Singleton(); d != nil {
			return d, nil
		}
	}

	t, err := r.get("DefaultDescriptor")
	if err != nil {
		return nil, err
	}
	fn, ok := t.DefaultDescriptor()
	if !ok {
		return nil, errs.SlotUnbound(capability.SlotDefaultDescriptor.String())
	}
	return fn(c)
}

// CommonDType resolves the common class of a pair of classes.
func (r *Registry) CommonDType(a, b *dtype.Class) (*dtype.Class, error) {
	t, err := r.get("CommonDType")
	if err != nil {
		return nil, err
	}
	fn, ok := t.CommonDType()
	if !ok {
		return nil, errs.SlotUnbound(capability.SlotCommonDType.String())
	}
	return fn(a, b)
}

// PromoteSequence resolves the common class of a sequence of classes.
func (r *Registry) PromoteSequence(classes []*dtype.Class) (*dtype.Class, error) {
	t, err := r.get("PromoteSequence")
	if err != nil {
		return nil, err
	}
	fn, ok := t.PromoteSequence()
	if !ok {
		return nil, errs.SlotUnbound(capability.SlotPromoteSequence.String())
	}
	return fn(classes)
}

// RegisterDType registers a third-party class with the provider.
func (r *Registry) RegisterDType(c *dtype.Class) error {
	t, err := r.get("RegisterDType")
	if err != nil {
		return err
	}
	fn, ok := t.RegisterDType()
	if !ok {
		return errs.SlotUnbound(capability.SlotRegisterDType.String())
	}
	return fn(c)
}

// LookupDType resolves a registered class by name.
func (r *Registry) LookupDType(name string) (*dtype.Class, error) {
	t, err := r.get("LookupDType")
	if err != nil {
		return nil, err
	}
	fn, ok := t.LookupDType()
	if !ok {
		return nil, errs.SlotUnbound(capability.SlotLookupDType.String())
	}
	return fn(name)
}

// CanCast reports whether elements of one class can be safely cast to
// another.
func (r *Registry) CanCast(from, to *dtype.Class) (bool, error) {
	t, err := r.get("CanCast")
	if err != nil {
		return false, err
	}
	fn, ok := t.CanCast()
	if !ok {
		return false, errs.SlotUnbound(capability.SlotCanCast.String())
	}
	return fn(from, to)
}
