// Package errors provides structured error types for the dtype-runtime library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes the capability slot and dtype name where
// relevant, plus a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseBind, errors.KindSlotMismatch).
//		Slot("common_dtype").
//		Detail("expected entry type CommonDTypeFunc").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.VersionMismatch(2, 3)
//	err := errors.NotInitialized("CommonDType")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
