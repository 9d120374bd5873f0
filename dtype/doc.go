// Package dtype defines descriptor classes and descriptors for the numeric
// type system.
//
// A Class describes a kind of element data ("float64", "bfloat16"); a
// Descriptor is a concrete storage layout for one class. The split mirrors
// the class/instance distinction used by extensible array libraries: code
// promotes and registers classes, and materializes descriptors only when a
// container needs a layout.
//
// Each class caches its default descriptor as a singleton. The cached value
// is observable without construction via Singleton, which the registry uses
// as a fast path before dispatching through the capability table.
//
// Third-party classes are created with NewClass and participate in promotion
// through their CommonWith hook. They become visible to the rest of the
// process only after registration through the capability table.
package dtype
