package dtype

// Builtin descriptor classes. These are process-wide singletons seeded into
// the host provider's lookup table; extensions add their own alongside them.
var (
	Bool = mustBuiltin("bool", KindBool, 1)

	Int8  = mustBuiltin("int8", KindInt, 1)
	Int16 = mustBuiltin("int16", KindInt, 2)
	Int32 = mustBuiltin("int32", KindInt, 4)
	Int64 = mustBuiltin("int64", KindInt, 8)

	Uint8  = mustBuiltin("uint8", KindUint, 1)
	Uint16 = mustBuiltin("uint16", KindUint, 2)
	Uint32 = mustBuiltin("uint32", KindUint, 4)
	Uint64 = mustBuiltin("uint64", KindUint, 8)

	Float16 = mustBuiltin("float16", KindFloat, 2)
	Float32 = mustBuiltin("float32", KindFloat, 4)
	Float64 = mustBuiltin("float64", KindFloat, 8)

	Complex64  = mustBuiltin("complex64", KindComplex, 8)
	Complex128 = mustBuiltin("complex128", KindComplex, 16)
)

func mustBuiltin(name string, kind Kind, size uint32) *Class {
	c, err := NewClass(ClassSpec{Name: name, Kind: kind, ItemSize: size})
	if err != nil {
		panic(err)
	}
	return c
}

// Builtins returns the builtin classes in a stable order.
func Builtins() []*Class {
	return []*Class{
		Bool,
		Int8, Int16, Int32, Int64,
		Uint8, Uint16, Uint32, Uint64,
		Float16, Float32, Float64,
		Complex64, Complex128,
	}
}

// IsBuiltin reports whether c is one of the builtin classes.
func IsBuiltin(c *Class) bool {
	for _, b := range Builtins() {
		if b == c {
			return true
		}
	}
	return false
}
