// errors.go defines sentinel errors for validation and filesystem failures.
//
// Separated to centralise error definitions. Every error kind surfaced by
// the registry, sync engine and ingestor wraps one of these, so callers
// match with errors.Is() regardless of which layer detected the failure.
//
// Design: Sentinel errors (not error types) because the kinds carry no
// structured payload. Detail is added by wrapping with fmt.Errorf.

package validate

import "errors"

var (
	ErrInvalidTagName   = errors.New("invalid tag name")
	ErrInvalidDirectory = errors.New("invalid directory")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrFilesystem       = errors.New("filesystem error")

	ErrNotFound    = errors.New("image not found")
	ErrTagNotFound = errors.New("tag not found")
	ErrImageExists = errors.New("image already exists")
)
