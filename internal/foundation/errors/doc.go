// Package errors provides the classified error primitives used across readmegen.
//
// Every failure that reaches the CLI is a ClassifiedError: a category (config,
// validation, filesystem, directive, ...), a severity and a small context map
// naming the offending path. The CLI adapter turns the category into an exit code.
//
// Errors are built with the fluent builder:
//
//	err := errors.WrapError(cause, errors.CategoryFileSystem, "include target not readable").
//		Fatal().
//		WithContext("path", target).
//		Build()
//
// readmegen never retries: every classified error is terminal for the run.
package errors
