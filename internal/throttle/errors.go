package throttle

import "errors"

var (
	// ErrStoreUnavailable indicates the throttle backend is unreachable.
	ErrStoreUnavailable = errors.New("throttle store unavailable")
	// ErrBadReply indicates the store returned a reply the ledger cannot decode.
	ErrBadReply = errors.New("throttle store reply malformed")
)
