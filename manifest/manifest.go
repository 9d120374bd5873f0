package manifest

import (
	"encoding/json"

	"github.com/coreos/go-semver/semver"
	"github.com/go-playground/validator/v10"

	"github.com/wippyai/dtype-runtime/dtype"
	errs "github.com/wippyai/dtype-runtime/errors"
)

// DTypeDecl declares one descriptor class an extension ships.
type DTypeDecl struct {
	Name     string `json:"name" validate:"required"`
	Kind     string `json:"kind" validate:"required,oneof=bool int uint float complex other"`
	ItemSize uint32 `json:"item_size" validate:"required_unless=Abstract true"`
	Abstract bool   `json:"abstract,omitempty"`
}

// Manifest describes a dtype extension: its identity, the capability-table
// ABI version it was built against, the classes it declares, and optionally
// the wasm module implementing them.
//
// Version is the extension's own release version and follows semver;
// ABIVersion is the integer table-layout version and is matched exactly at
// handshake time. The two are deliberately separate: an extension can cut
// releases freely, but it speaks exactly one table layout.
type Manifest struct {
	Name       string      `json:"name" validate:"required"`
	Version    string      `json:"version" validate:"required"`
	ABIVersion uint32      `json:"abi_version" validate:"required"`
	DTypes     []DTypeDecl `json:"dtypes" validate:"required,min=1,dive"`
	Wasm       string      `json:"wasm,omitempty"`
}

var validate = validator.New()

// Parse decodes and validates a manifest document.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errs.Wrap(errs.PhaseManifest, errs.KindInvalidData, err, "decode manifest")
	}
	if err := validate.Struct(&m); err != nil {
		return nil, errs.Wrap(errs.PhaseManifest, errs.KindInvalidData, err, "validate manifest")
	}
	if _, err := semver.NewVersion(m.Version); err != nil {
		return nil, errs.New(errs.PhaseManifest, errs.KindInvalidData).
			Detail("release version %q is not valid semver", m.Version).
			Cause(err).
			Build()
	}
	return &m, nil
}

// ReleaseVersion returns the extension's parsed release version.
func (m *Manifest) ReleaseVersion() (*semver.Version, error) {
	v, err := semver.NewVersion(m.Version)
	if err != nil {
		return nil, errs.Wrap(errs.PhaseManifest, errs.KindInvalidData, err, "parse release version")
	}
	return v, nil
}

// Classes builds descriptor classes from the manifest's declarations.
// Classes built here carry no promotion hook; hook-bearing extensions are
// loaded through their wasm module instead.
func (m *Manifest) Classes() ([]*dtype.Class, error) {
	out := make([]*dtype.Class, 0, len(m.DTypes))
	for _, decl := range m.DTypes {
		kind, err := dtype.KindFromString(decl.Kind)
		if err != nil {
			return nil, err
		}
		c, err := dtype.NewClass(dtype.ClassSpec{
			Name:     decl.Name,
			Kind:     kind,
			ItemSize: decl.ItemSize,
			Abstract: decl.Abstract,
		})
		if err != nil {
			return nil, errs.Registration(decl.Name, err)
		}
		out = append(out, c)
	}
	return out, nil
}
