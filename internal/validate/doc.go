// Package validate provides input validation for imgtag's domain types.
//
// Each validation function returns nil (or a normalised value) on success
// or an error wrapping one of the sentinels in errors.go:
//
//	if errors.Is(err, validate.ErrInvalidTagName) {
//	    // reject the input, nothing was changed
//	}
//
// Validation always runs before any mutation so a rejected input leaves
// the registry exactly as it was.
package validate
