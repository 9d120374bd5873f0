// Package wasmext loads dtype extensions implemented as WebAssembly
// modules.
//
// An extension is a core wasm module exposing a small, frozen set of
// exports (see guest.go). On load the module's classes are discovered
// through those exports; the resulting Extension acts as a capability-table
// provider whose promotion entry calls back into the guest for pairs of its
// own classes.
//
// The guest runs under wazero, so extensions load without cgo or platform
// plugins.
package wasmext
