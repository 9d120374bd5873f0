// Package manifest defines the JSON manifest format for dtype extensions.
//
// A manifest names the extension, pins its semver release version and the
// integer capability-table ABI version it targets, declares the classes it
// ships, and optionally points at the wasm module implementing them.
package manifest
