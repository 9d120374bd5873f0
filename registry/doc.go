// Package registry implements the consumer side of the capability-table
// handshake.
//
// A Registry starts uninitialized. Import exchanges a caller-declared ABI
// version for the provider's capability table; the provider rejects any
// version other than its own, naming both versions in the error, so silent
// layout drift between the two sides is impossible. A successful import
// installs the table exactly once; later Import calls return immediately
// without contacting the provider.
//
// After the handshake every capability is an ordinary typed method call.
// Before it, every accessor fails with an explicit not-initialized error
// rather than doing nothing quietly.
package registry
