package kernel

import "errors"

var (
	// ErrUnknownKernel is returned when a name does not resolve to a catalog entry.
	ErrUnknownKernel = errors.New("unknown kernel")

	// ErrMalformedKernel is returned for invalid matrices and invalid catalog wiring.
	ErrMalformedKernel = errors.New("malformed kernel")
)
