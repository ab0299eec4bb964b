// Package errors provides structured error types for the d3d12-capture module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the field path, the wire type name, the buffer offset
// and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidVariant).
//		Path("pDesc", "subobjects[3]").
//		Type("D3D12_PIPELINE_STATE_SUBOBJECT_TYPE").
//		Detail("unrecognized tag %d", tag).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OutOfBounds(errors.PhaseDecode, off, 8, len(buf))
//	err := errors.InvalidVariant(errors.PhaseDecode, "D3D12_RESOURCE_BARRIER_TYPE", 9)
//
// Decode errors are fatal: a malformed capture is never patched or skipped.
// All errors implement the standard error interface and support errors.Is/As.
package errors
