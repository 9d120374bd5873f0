package wasmext

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/wippyai/dtype-runtime/capability"
	"github.com/wippyai/dtype-runtime/dtype"
	errs "github.com/wippyai/dtype-runtime/errors"
	"github.com/wippyai/dtype-runtime/promote"
	"github.com/wippyai/dtype-runtime/registry"
)

// Extension is a dtype extension backed by a wasm module. It implements
// registry.Provider: a registry can import directly from it, and the
// resulting table resolves promotions involving the extension's classes by
// calling into the guest.
type Extension struct {
	name    string
	guest   guest
	abi     uint32
	classes []*dtype.Class
	index   map[*dtype.Class]uint32
}

// Load instantiates a wasm extension module and discovers its classes.
func Load(ctx context.Context, name string, wasmBytes []byte) (*Extension, error) {
	g, err := newWazeroGuest(ctx, wasmBytes)
	if err != nil {
		return nil, err
	}
	ext, err := newExtension(ctx, name, g)
	if err != nil {
		_ = g.close(ctx)
		return nil, err
	}
	return ext, nil
}

// LoadFile reads a wasm module from disk and loads it as an extension.
func LoadFile(ctx context.Context, path string) (*Extension, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Load("read extension file", err)
	}
	return Load(ctx, path, data)
}

func newExtension(ctx context.Context, name string, g guest) (*Extension, error) {
	if missing := g.missing(); len(missing) > 0 {
		return nil, errs.NewMissingExportsError(missing)
	}

	abi, err := callU32(ctx, g, expABIVersion)
	if err != nil {
		return nil, err
	}
	count, err := callU32(ctx, g, expCount)
	if err != nil {
		return nil, err
	}

	ext := &Extension{
		name:  name,
		guest: g,
		abi:   abi,
		index: make(map[*dtype.Class]uint32, count),
	}

	for i := uint32(0); i < count; i++ {
		c, err := ext.discoverClass(ctx, i)
		if err != nil {
			return nil, err
		}
		ext.classes = append(ext.classes, c)
		ext.index[c] = i
	}

	registry.Logger().Debug("wasm extension loaded",
		zap.String("extension", name),
		zap.Uint32("abi_version", abi),
		zap.Int("dtypes", len(ext.classes)))
	return ext, nil
}

// Name returns the extension's name (the file path for LoadFile).
func (e *Extension) Name() string { return e.name }

// Classes returns the classes the guest declared, in guest index order.
func (e *Extension) Classes() []*dtype.Class { return e.classes }

// ABIVersion returns the table version the guest reports.
func (e *Extension) ABIVersion() uint32 { return e.abi }

// AcquireTable implements registry.Provider. The extension's table serves
// lookups over its own classes and resolves promotions through the promote
// package, whose hooks route extension pairs into the guest. Registration
// through an extension table is not supported; extensions are sealed.
func (e *Extension) AcquireTable(requested uint32) (*capability.Table, error) {
	if requested != e.abi {
		return nil, errs.VersionMismatch(requested, e.abi)
	}

	t := capability.NewTable()
	bindings := []struct {
		slot  capability.Slot
		entry any
	}{
		{capability.SlotDefaultDescriptor, capability.DefaultDescriptorFunc(
			func(c *dtype.Class) (*dtype.Descriptor, error) {
				if c == nil {
					return nil, errs.InvalidInput(errs.PhaseResolve, "nil dtype class")
				}
				return c.DefaultDescr()
			})},
		{capability.SlotCommonDType, capability.CommonDTypeFunc(promote.CommonDType)},
		{capability.SlotPromoteSequence, capability.PromoteSequenceFunc(promote.PromoteSequence)},
		{capability.SlotRegisterDType, capability.RegisterDTypeFunc(
			func(c *dtype.Class) error {
				return errs.Unsupported(errs.PhaseRegister, "wasm extensions are sealed")
			})},
		{capability.SlotLookupDType, capability.LookupDTypeFunc(e.lookup)},
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

// Close releases the guest runtime.
func (e *Extension) Close(ctx context.Context) error {
	return e.guest.close(ctx)
}

func (e *Extension) lookup(name string) (*dtype.Class, error) {
	for _, c := range e.classes {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, errs.NotFound("dtype", name)
}

func (e *Extension) discoverClass(ctx context.Context, i uint32) (*dtype.Class, error) {
	kindCode, err := callU32(ctx, e.guest, expKind, uint64(i))
	if err != nil {
		return nil, err
	}
	size, err := callU32(ctx, e.guest, expSize, uint64(i))
	if err != nil {
		return nil, err
	}
	ptr, err := callU32(ctx, e.guest, expNamePtr, uint64(i))
	if err != nil {
		return nil, err
	}
	length, err := callU32(ctx, e.guest, expNameLen, uint64(i))
	if err != nil {
		return nil, err
	}
	name, ok := e.guest.readString(ptr, length)
	if !ok {
		return nil, errs.Load("dtype name out of guest memory bounds", nil)
	}

	kind, err := kindFromCode(kindCode)
	if err != nil {
		return nil, err
	}

	c, err := dtype.NewClass(dtype.ClassSpec{
		Name:       name,
		Kind:       kind,
		ItemSize:   size,
		CommonWith: e.commonWith,
	})
	if err != nil {
		return nil, errs.Registration(name, err)
	}
	return c, nil
}

// commonWith routes promotion between two extension classes into the guest.
// Pairs involving a non-extension class are left to the builtin lattice.
func (e *Extension) commonWith(owner, other *dtype.Class) (*dtype.Class, bool) {
	oi, ok := e.index[owner]
	if !ok {
		return nil, false
	}
	ti, ok := e.index[other]
	if !ok {
		return nil, false
	}

	results, err := e.guest.call(context.Background(), expCommon, uint64(oi), uint64(ti))
	if err != nil || len(results) == 0 {
		registry.Logger().Warn("extension promotion call failed",
			zap.String("extension", e.name),
			zap.Error(err))
		return nil, false
	}

	idx := int32(uint32(results[0]))
	if idx < 0 || int(idx) >= len(e.classes) {
		return nil, false
	}
	return e.classes[idx], true
}

// Guest kind codes, frozen alongside the export names.
func kindFromCode(code uint32) (dtype.Kind, error) {
	switch code {
	case 0:
		return dtype.KindBool, nil
	case 1:
		return dtype.KindInt, nil
	case 2:
		return dtype.KindUint, nil
	case 3:
		return dtype.KindFloat, nil
	case 4:
		return dtype.KindComplex, nil
	case 5:
		return dtype.KindOther, nil
	}
	return dtype.KindInvalid, errs.Load("unknown dtype kind code", nil)
}

func callU32(ctx context.Context, g guest, name string, args ...uint64) (uint32, error) {
	results, err := g.call(ctx, name, args...)
	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, errs.Load(name+" returned no result", nil)
	}
	return uint32(results[0]), nil
}
