package wasmext

import (
	"context"
	"errors"
	"testing"

	"github.com/wippyai/dtype-runtime/dtype"
	errs "github.com/wippyai/dtype-runtime/errors"
	"github.com/wippyai/dtype-runtime/registry"
)

// fakeGuest implements guest over in-memory tables, standing in for an
// instantiated wasm module.
type fakeGuest struct {
	abi        uint32
	names      []string
	kinds      []uint32
	sizes      []uint32
	common     func(a, b uint32) int32
	missingSet []string
	memory     []byte
	nameOffset []uint32
	closed     bool
}

func newFakeGuest() *fakeGuest {
	g := &fakeGuest{
		abi:   3,
		names: []string{"posit8", "posit16"},
		kinds: []uint32{5, 5}, // KindOther
		sizes: []uint32{1, 2},
		common: func(a, b uint32) int32 {
			if a > b {
				return int32(a)
			}
			return int32(b)
		},
	}
	for _, name := range g.names {
		g.nameOffset = append(g.nameOffset, uint32(len(g.memory)))
		g.memory = append(g.memory, name...)
	}
	return g
}

func (g *fakeGuest) call(ctx context.Context, name string, args ...uint64) ([]uint64, error) {
	switch name {
	case expABIVersion:
		return []uint64{uint64(g.abi)}, nil
	case expCount:
		return []uint64{uint64(len(g.names))}, nil
	case expKind:
		return []uint64{uint64(g.kinds[args[0]])}, nil
	case expSize:
		return []uint64{uint64(g.sizes[args[0]])}, nil
	case expNamePtr:
		return []uint64{uint64(g.nameOffset[args[0]])}, nil
	case expNameLen:
		return []uint64{uint64(len(g.names[args[0]]))}, nil
	case expCommon:
		return []uint64{uint64(uint32(g.common(uint32(args[0]), uint32(args[1]))))}, nil
	}
	return nil, errs.NewMissingExportsError([]string{name})
}

func (g *fakeGuest) readString(ptr, size uint32) (string, bool) {
	if int(ptr)+int(size) > len(g.memory) {
		return "", false
	}
	return string(g.memory[ptr : ptr+size]), true
}

func (g *fakeGuest) missing() []string { return g.missingSet }

func (g *fakeGuest) close(ctx context.Context) error {
	g.closed = true
	return nil
}

func TestNewExtension_DiscoversClasses(t *testing.T) {
	ext, err := newExtension(context.Background(), "posits", newFakeGuest())
	if err != nil {
		t.Fatal(err)
	}

	classes := ext.Classes()
	if len(classes) != 2 {
		t.Fatalf("expected 2 classes, got %d", len(classes))
	}
	if classes[0].Name() != "posit8" || classes[1].Name() != "posit16" {
		t.Fatalf("class names = %s, %s", classes[0].Name(), classes[1].Name())
	}
	if classes[0].Kind() != dtype.KindOther {
		t.Errorf("kind = %v", classes[0].Kind())
	}
	if classes[1].ItemSize() != 2 {
		t.Errorf("item size = %d", classes[1].ItemSize())
	}
	if ext.ABIVersion() != 3 {
		t.Errorf("abi version = %d", ext.ABIVersion())
	}
}

func TestNewExtension_MissingExports(t *testing.T) {
	g := newFakeGuest()
	g.missingSet = []string{"common_dtype:(i32, i32) -> i32"}

	_, err := newExtension(context.Background(), "broken", g)
	if err == nil {
		t.Fatal("expected missing-exports error")
	}
	if !errors.Is(err, &errs.MissingExportsError{}) {
		t.Fatalf("expected MissingExportsError, got %v", err)
	}
}

func TestExtension_GuestPromotion(t *testing.T) {
	ext, err := newExtension(context.Background(), "posits", newFakeGuest())
	if err != nil {
		t.Fatal(err)
	}

	reg := registry.New(ext)
	if err := reg.Import(3); err != nil {
		t.Fatal(err)
	}

	posit8, err := reg.LookupDType("posit8")
	if err != nil {
		t.Fatal(err)
	}
	posit16, err := reg.LookupDType("posit16")
	if err != nil {
		t.Fatal(err)
	}

	// Pairs of extension classes resolve through the guest.
	got, err := reg.CommonDType(posit8, posit16)
	if err != nil {
		t.Fatal(err)
	}
	if got != posit16 {
		t.Fatalf("posit8 + posit16 = %s, want posit16", got.Name())
	}

	// And symmetrically.
	rev, err := reg.CommonDType(posit16, posit8)
	if err != nil {
		t.Fatal(err)
	}
	if rev != got {
		t.Fatal("guest promotion not symmetric")
	}

	// A pair mixing extension and builtin classes has no resolution: the
	// guest declines pairs it does not own and posit classes are KindOther.
	if _, err := reg.CommonDType(posit8, dtype.Float32); err == nil {
		t.Fatal("expected no common dtype for posit8 and float32")
	}
}

func TestExtension_VersionMismatch(t *testing.T) {
	ext, err := newExtension(context.Background(), "posits", newFakeGuest())
	if err != nil {
		t.Fatal(err)
	}

	reg := registry.New(ext)
	err = reg.Import(2)
	if err == nil {
		t.Fatal("expected version mismatch against abi-3 extension")
	}
	if !errors.Is(err, &errs.Error{Phase: errs.PhaseHandshake, Kind: errs.KindVersionMismatch}) {
		t.Fatalf("expected version_mismatch, got %v", err)
	}
}

func TestExtension_Sealed(t *testing.T) {
	ext, err := newExtension(context.Background(), "posits", newFakeGuest())
	if err != nil {
		t.Fatal(err)
	}

	reg := registry.New(ext)
	if err := reg.Import(3); err != nil {
		t.Fatal(err)
	}

	c, err := dtype.NewClass(dtype.ClassSpec{Name: "intruder", Kind: dtype.KindOther, ItemSize: 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := reg.RegisterDType(c); err == nil {
		t.Fatal("extension tables must reject registration")
	}
}

func TestExtension_Close(t *testing.T) {
	g := newFakeGuest()
	ext, err := newExtension(context.Background(), "posits", g)
	if err != nil {
		t.Fatal(err)
	}
	if err := ext.Close(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !g.closed {
		t.Fatal("Close did not reach the guest")
	}
}

func TestNewExtension_BadName(t *testing.T) {
	g := newFakeGuest()
	g.nameOffset[1] = 1 << 20 // out of memory bounds

	if _, err := newExtension(context.Background(), "posits", g); err == nil {
		t.Fatal("expected error for out-of-bounds name")
	}
}
