package wifi

import "errors"

var (
	ErrNotSupported     = errors.New("not supported")
	ErrNotFound         = errors.New("not found")
	ErrNotAvailable     = errors.New("not available")
	ErrOperationFailed  = errors.New("operation failed")
	ErrWirelessDisabled = errors.New("wireless is disabled")
	// ErrNoAccessPoints is returned by a scan that saw nothing. Callers treat
	// it as an empty result rather than a failure.
	ErrNoAccessPoints = errors.New("no access points found")
)
