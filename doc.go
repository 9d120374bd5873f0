// Package dtyperuntime provides a versioned capability-table mechanism for
// extending a numeric runtime's type system.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	dtyperuntime/    Root package with the default wiring
//	├── dtype/       Descriptor classes and descriptors
//	├── capability/  Versioned, typed capability table and slot layout
//	├── registry/    Consumer-side handshake and typed facade
//	├── hostprov/    Reference in-process table provider
//	├── promote/     Common-type resolution and verification helpers
//	├── manifest/    JSON extension manifests
//	├── wasmext/     WebAssembly-backed extension providers
//	└── errors/      Structured error types
//
// # Quick Start
//
// Wire the default provider, perform the handshake once, then call
// capabilities as ordinary methods:
//
//	reg := dtyperuntime.New()
//	if err := reg.Import(dtyperuntime.ABIVersion); err != nil {
//	    log.Fatal(err)
//	}
//
//	common, err := reg.CommonDType(dtype.Uint64, dtype.Int64)
//	// common == dtype.Float64
//
// # Versioning
//
// The capability table's slot layout is identified by a single integer
// version. The handshake requires an exact match between the version a
// consumer was compiled against and the version the provider implements;
// on mismatch the import fails with an error naming both versions and the
// registry stays uninitialized, so a corrected retry is always safe.
//
// # Thread Safety
//
// Registry is safe for concurrent use, including concurrent first-time
// imports. Capability tables are frozen before they are handed out and are
// immutable afterwards.
package dtyperuntime
