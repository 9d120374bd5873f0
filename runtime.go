package dtyperuntime

import (
	"github.com/wippyai/dtype-runtime/capability"
	"github.com/wippyai/dtype-runtime/hostprov"
	"github.com/wippyai/dtype-runtime/registry"
)

// ABIVersion is the capability-table layout version this build of the
// library speaks.
const ABIVersion = capability.Version

// New creates a registry wired to a fresh in-process provider. The caller
// still performs the handshake with Import.
func New() *registry.Registry {
	return registry.New(hostprov.New())
}

// NewWithProvider creates a registry bound to a custom table provider, such
// as a wasm extension.
func NewWithProvider(p registry.Provider) *registry.Registry {
	return registry.New(p)
}
