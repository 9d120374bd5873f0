package dtype

import (
	"sync"

	errs "github.com/wippyai/dtype-runtime/errors"
)

// Kind is the category of data a descriptor class describes.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindComplex
	// KindOther marks third-party classes whose promotion behavior is
	// defined entirely by their CommonWith hook.
	KindOther
)

// String returns the kind as a lowercase name.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindComplex:
		return "complex"
	case KindOther:
		return "other"
	default:
		return "invalid"
	}
}

// KindFromString parses a kind name as used in extension manifests.
func KindFromString(s string) (Kind, error) {
	switch s {
	case "bool":
		return KindBool, nil
	case "int":
		return KindInt, nil
	case "uint":
		return KindUint, nil
	case "float":
		return KindFloat, nil
	case "complex":
		return KindComplex, nil
	case "other":
		return KindOther, nil
	}
	return KindInvalid, errs.InvalidInput(errs.PhaseManifest, "unknown dtype kind "+s)
}

// CommonWithFunc lets a third-party class take part in promotion.
// It returns the common class for (owner, other) and true, or false if the
// class has no opinion and the resolver should fall back to its own rules.
//
// Authors are expected to keep the relation commutative and associative
// across every class they ship. The runtime does not enforce this; the
// promote package ships test-time verification helpers for it.
type CommonWithFunc func(owner, other *Class) (*Class, bool)

// ClassSpec describes a descriptor class to NewClass.
type ClassSpec struct {
	Name     string
	Kind     Kind
	ItemSize uint32 // bytes per element; 0 only for abstract classes
	Abstract bool

	// MakeDescr builds the class's default descriptor. Optional; when nil
	// a native-order descriptor of ItemSize is used.
	MakeDescr func(*Class) *Descriptor

	// CommonWith is the class's promotion hook. Optional.
	CommonWith CommonWithFunc
}

// Class is a type-descriptor class: it describes the kind of data stored in
// a numeric container. Classes are identified by name and are expected to be
// process-wide singletons. Third parties create new classes with NewClass
// and register them through the capability table.
type Class struct {
	name     string
	kind     Kind
	itemSize uint32
	abstract bool

	makeDescr  func(*Class) *Descriptor
	commonWith CommonWithFunc

	descrOnce sync.Once
	descrMu   sync.Mutex
	descr     *Descriptor
}

// NewClass creates a descriptor class from a spec.
func NewClass(spec ClassSpec) (*Class, error) {
	if spec.Name == "" {
		return nil, errs.InvalidInput(errs.PhaseRegister, "dtype class requires a name")
	}
	if spec.Kind == KindInvalid {
		return nil, errs.InvalidInput(errs.PhaseRegister, "dtype class "+spec.Name+" requires a kind")
	}
	if !spec.Abstract && spec.ItemSize == 0 {
		return nil, errs.InvalidInput(errs.PhaseRegister, "concrete dtype class "+spec.Name+" requires an item size")
	}
	return &Class{
		name:       spec.Name,
		kind:       spec.Kind,
		itemSize:   spec.ItemSize,
		abstract:   spec.Abstract,
		makeDescr:  spec.MakeDescr,
		commonWith: spec.CommonWith,
	}, nil
}

// Name returns the class name, e.g. "float64".
func (c *Class) Name() string { return c.name }

// Kind returns the class's data category.
func (c *Class) Kind() Kind { return c.kind }

// ItemSize returns the size in bytes of one element.
func (c *Class) ItemSize() uint32 { return c.itemSize }

// Abstract reports whether the class describes a category rather than a
// concrete storage layout. Abstract classes have no default descriptor.
func (c *Class) Abstract() bool { return c.abstract }

// CommonWith invokes the class's promotion hook, if any.
func (c *Class) CommonWith(other *Class) (*Class, bool) {
	if c.commonWith == nil {
		return nil, false
	}
	return c.commonWith(c, other)
}

// DefaultDescr returns the class's default descriptor, building and caching
// it on first use. The descriptor is a per-class singleton: every call
// returns the same pointer.
func (c *Class) DefaultDescr() (*Descriptor, error) {
	if c.abstract {
		return nil, errs.Unsupported(errs.PhaseResolve, "abstract dtype "+c.name+" has no default descriptor")
	}
	c.descrOnce.Do(func() {
		d := c.buildDescr()
		c.descrMu.Lock()
		c.descr = d
		c.descrMu.Unlock()
	})
	c.descrMu.Lock()
	d := c.descr
	c.descrMu.Unlock()
	return d, nil
}

// Singleton returns the cached default descriptor, or nil if none has been
// built yet. It never triggers construction; callers use it as a fast path
// before going through the capability table.
func (c *Class) Singleton() *Descriptor {
	c.descrMu.Lock()
	d := c.descr
	c.descrMu.Unlock()
	return d
}

func (c *Class) buildDescr() *Descriptor {
	if c.makeDescr != nil {
		return c.makeDescr(c)
	}
	return &Descriptor{
		class:     c,
		byteOrder: NativeOrder,
		itemSize:  c.itemSize,
		alignment: naturalAlignment(c.itemSize),
	}
}

func naturalAlignment(size uint32) uint32 {
	switch {
	case size >= 8:
		return 8
	case size >= 4:
		return 4
	case size >= 2:
		return 2
	default:
		return 1
	}
}
