package manifest

import (
	"strings"
	"testing"

	"github.com/wippyai/dtype-runtime/dtype"
)

const validManifest = `{
  "name": "quaternions",
  "version": "1.2.0",
  "abi_version": 3,
  "dtypes": [
    {"name": "quaternion128", "kind": "other", "item_size": 16},
    {"name": "quaternion256", "kind": "other", "item_size": 32}
  ],
  "wasm": "quaternions.wasm"
}`

func TestParse_Valid(t *testing.T) {
	m, err := Parse([]byte(validManifest))
	if err != nil {
		t.Fatal(err)
	}

	if m.Name != "quaternions" {
		t.Errorf("name = %q", m.Name)
	}
	if m.ABIVersion != 3 {
		t.Errorf("abi_version = %d", m.ABIVersion)
	}
	if len(m.DTypes) != 2 {
		t.Fatalf("expected 2 dtype declarations, got %d", len(m.DTypes))
	}
	if m.Wasm != "quaternions.wasm" {
		t.Errorf("wasm = %q", m.Wasm)
	}

	v, err := m.ReleaseVersion()
	if err != nil {
		t.Fatal(err)
	}
	if v.Major != 1 || v.Minor != 2 || v.Patch != 0 {
		t.Errorf("release version = %v", v)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"missing name", `{"version": "1.0.0", "abi_version": 3, "dtypes": [{"name": "q", "kind": "other", "item_size": 4}]}`},
		{"missing dtypes", `{"name": "x", "version": "1.0.0", "abi_version": 3}`},
		{"empty dtypes", `{"name": "x", "version": "1.0.0", "abi_version": 3, "dtypes": []}`},
		{"bad kind", `{"name": "x", "version": "1.0.0", "abi_version": 3, "dtypes": [{"name": "q", "kind": "decimal", "item_size": 4}]}`},
		{"bad semver", `{"name": "x", "version": "latest", "abi_version": 3, "dtypes": [{"name": "q", "kind": "other", "item_size": 4}]}`},
		{"missing abi version", `{"name": "x", "version": "1.0.0", "dtypes": [{"name": "q", "kind": "other", "item_size": 4}]}`},
		{"concrete without size", `{"name": "x", "version": "1.0.0", "abi_version": 3, "dtypes": [{"name": "q", "kind": "other"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); err == nil {
				t.Fatal("expected parse to fail")
			}
		})
	}
}

func TestParse_AbstractDecl(t *testing.T) {
	doc := `{
  "name": "cats",
  "version": "0.1.0",
  "abi_version": 3,
  "dtypes": [{"name": "categorical", "kind": "other", "abstract": true}]
}`
	m, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	classes, err := m.Classes()
	if err != nil {
		t.Fatal(err)
	}
	if len(classes) != 1 || !classes[0].Abstract() {
		t.Fatal("expected one abstract class")
	}
}

func TestClasses(t *testing.T) {
	m, err := Parse([]byte(validManifest))
	if err != nil {
		t.Fatal(err)
	}
	classes, err := m.Classes()
	if err != nil {
		t.Fatal(err)
	}
	if len(classes) != 2 {
		t.Fatalf("expected 2 classes, got %d", len(classes))
	}
	if classes[0].Name() != "quaternion128" || classes[0].Kind() != dtype.KindOther {
		t.Errorf("first class = %s/%v", classes[0].Name(), classes[0].Kind())
	}
	if classes[1].ItemSize() != 32 {
		t.Errorf("second class item size = %d", classes[1].ItemSize())
	}
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, want := range []string{"abi_version", "dtypes", "item_size", "wasm"} {
		if !strings.Contains(s, want) {
			t.Errorf("schema does not mention %q", want)
		}
	}
}
