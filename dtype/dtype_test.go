package dtype

import (
	"sync"
	"testing"
)

func TestNewClass_Validation(t *testing.T) {
	if _, err := NewClass(ClassSpec{Kind: KindInt, ItemSize: 4}); err == nil {
		t.Error("expected error for missing name")
	}
	if _, err := NewClass(ClassSpec{Name: "x", ItemSize: 4}); err == nil {
		t.Error("expected error for missing kind")
	}
	if _, err := NewClass(ClassSpec{Name: "x", Kind: KindInt}); err == nil {
		t.Error("expected error for concrete class without item size")
	}
	if _, err := NewClass(ClassSpec{Name: "integral", Kind: KindInt, Abstract: true}); err != nil {
		t.Errorf("abstract class without item size should be valid: %v", err)
	}
}

func TestDefaultDescr_Singleton(t *testing.T) {
	c, err := NewClass(ClassSpec{Name: "test16", Kind: KindFloat, ItemSize: 2})
	if err != nil {
		t.Fatal(err)
	}

	if c.Singleton() != nil {
		t.Fatal("Singleton should be nil before first DefaultDescr call")
	}

	d1, err := c.DefaultDescr()
	if err != nil {
		t.Fatal(err)
	}
	d2, err := c.DefaultDescr()
	if err != nil {
		t.Fatal(err)
	}
	if d1 != d2 {
		t.Fatal("DefaultDescr must return the same pointer on every call")
	}
	if c.Singleton() != d1 {
		t.Fatal("Singleton must return the cached default descriptor")
	}

	if d1.Class() != c {
		t.Error("descriptor class mismatch")
	}
	if d1.ItemSize() != 2 {
		t.Errorf("expected item size 2, got %d", d1.ItemSize())
	}
	if d1.Alignment() != 2 {
		t.Errorf("expected alignment 2, got %d", d1.Alignment())
	}
}

func TestDefaultDescr_Concurrent(t *testing.T) {
	c, err := NewClass(ClassSpec{Name: "race64", Kind: KindFloat, ItemSize: 8})
	if err != nil {
		t.Fatal(err)
	}

	const goroutines = 16
	descrs := make([]*Descriptor, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d, err := c.DefaultDescr()
			if err != nil {
				t.Error(err)
				return
			}
			descrs[i] = d
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		if descrs[i] != descrs[0] {
			t.Fatal("concurrent DefaultDescr calls observed different singletons")
		}
	}
}

func TestDefaultDescr_Abstract(t *testing.T) {
	c, err := NewClass(ClassSpec{Name: "numeric", Kind: KindFloat, Abstract: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.DefaultDescr(); err == nil {
		t.Fatal("abstract class must not produce a default descriptor")
	}
}

func TestDefaultDescr_CustomMakeDescr(t *testing.T) {
	c, err := NewClass(ClassSpec{
		Name:     "swapped32",
		Kind:     KindInt,
		ItemSize: 4,
		MakeDescr: func(c *Class) *Descriptor {
			return NewDescriptor(c, BigEndian, 0, 0)
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	d, err := c.DefaultDescr()
	if err != nil {
		t.Fatal(err)
	}
	if d.ByteOrder() != BigEndian {
		t.Errorf("expected big-endian descriptor, got %v", d.ByteOrder())
	}
	if d.ItemSize() != 4 {
		t.Errorf("item size should default to the class size, got %d", d.ItemSize())
	}
}

func TestBuiltins(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range Builtins() {
		if seen[c.Name()] {
			t.Errorf("duplicate builtin name %s", c.Name())
		}
		seen[c.Name()] = true
		if c.Abstract() {
			t.Errorf("builtin %s must be concrete", c.Name())
		}
		if !IsBuiltin(c) {
			t.Errorf("IsBuiltin(%s) = false", c.Name())
		}
	}

	custom, err := NewClass(ClassSpec{Name: "custom", Kind: KindOther, ItemSize: 1})
	if err != nil {
		t.Fatal(err)
	}
	if IsBuiltin(custom) {
		t.Error("IsBuiltin(custom) = true")
	}
}

func TestKindFromString(t *testing.T) {
	for _, k := range []Kind{KindBool, KindInt, KindUint, KindFloat, KindComplex, KindOther} {
		got, err := KindFromString(k.String())
		if err != nil {
			t.Fatalf("round trip %v: %v", k, err)
		}
		if got != k {
			t.Fatalf("round trip %v: got %v", k, got)
		}
	}
	if _, err := KindFromString("decimal"); err == nil {
		t.Error("expected error for unknown kind name")
	}
}
