// Package errors provides classified error primitives used across kicadexport.
//
// A ClassifiedError carries a category (config, validation, filesystem,
// tool, build, internal), a severity and a free-form context map. Commands
// return them unchanged and the CLI adapter turns them into a message and a
// process exit code.
//
//	err := errors.ConfigError("missing required keys").
//		WithContext("keys", missing).
//		WithContext("file", path).
//		Build()
package errors
