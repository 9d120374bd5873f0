// Package capability defines the versioned capability table through which a
// provider exposes the dtype extension API.
//
// A Table holds one entry per Slot. The slot numbering is a frozen contract
// between provider and consumer: both sides compile against the same layout,
// and the handshake in the registry package rejects any version skew before
// a consumer ever reads a slot.
//
// Unlike a raw pointer table, entries are typed function values validated at
// Bind time, so a provider cannot install an entry with the wrong signature
// and a consumer never casts.
package capability
