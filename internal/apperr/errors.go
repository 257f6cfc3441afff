// Package apperr holds the sentinel errors shared across layers.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// ErrAssetNotFound aborts a checklist generation: there is nothing to inspect.
	ErrAssetNotFound = errors.New("asset not found")
	// ErrSuperseded is returned by a generation run whose result was discarded
	// because a newer run started before it completed.
	ErrSuperseded     = errors.New("generation superseded")
	ErrInvalidField   = errors.New("invalid checklist field")
	ErrInvalidVerdict = errors.New("invalid verdict")
)
