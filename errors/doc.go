// Package errors provides structured error types for the cilscope library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes rich context: field path, the offending
// value, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseParse, errors.KindMalformed).
//		Path("fixed_args", "2").
//		Detail("array length %d exceeds remaining data", n).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Malformed("invalid custom attribute prolog")
//	err := errors.OutOfBounds(index, length)
//
// All errors implement the standard error interface and support errors.Is/As.
// Two *Error values match under errors.Is when their Phase and Kind agree,
// which is how callers test for the error taxonomy without string matching.
package errors
