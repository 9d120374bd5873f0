package dtyperuntime

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/dtype-runtime/dtype"
)

func TestNew_EndToEnd(t *testing.T) {
	reg := New()

	if reg.Imported() {
		t.Fatal("fresh registry must start uninitialized")
	}
	if err := reg.Import(ABIVersion); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		classes []*dtype.Class
		want    string
	}{
		{[]*dtype.Class{dtype.Int8, dtype.Uint8}, "int16"},
		{[]*dtype.Class{dtype.Uint64, dtype.Int64}, "float64"},
		{[]*dtype.Class{dtype.Uint64, dtype.Int8, dtype.Float16}, "float64"},
		{[]*dtype.Class{dtype.Bool, dtype.Complex64}, "complex64"},
	}

	var got, want []string
	for _, tt := range cases {
		c, err := reg.PromoteSequence(tt.classes)
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, c.Name())
		want = append(want, tt.want)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("promotion results mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()

	if err := a.Import(ABIVersion); err != nil {
		t.Fatal(err)
	}

	// Importing one registry must not initialize another.
	if b.Imported() {
		t.Fatal("registries must not share handshake state")
	}

	c, err := dtype.NewClass(dtype.ClassSpec{Name: "only-in-a", Kind: dtype.KindOther, ItemSize: 4})
	if err != nil {
		t.Fatal(err)
	}
	if err := a.RegisterDType(c); err != nil {
		t.Fatal(err)
	}

	if err := b.Import(ABIVersion); err != nil {
		t.Fatal(err)
	}
	if _, err := b.LookupDType("only-in-a"); err == nil {
		t.Fatal("providers must not share registered classes")
	}
}
