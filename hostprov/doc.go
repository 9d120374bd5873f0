// Package hostprov provides the reference capability-table producer.
//
// It owns the process-wide class set (builtins plus registered extensions)
// and binds the promote package's resolvers into a frozen capability table,
// which it hands to any registry requesting ABI version 3.
package hostprov
