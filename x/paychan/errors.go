package paychan

import "github.com/iov-one/weave-paychan/errors"

// paychan takes 1021-1029
var (
	ErrInvalidClaim  = errors.Register(1021, "invalid claim signature")
	ErrStaleClaim    = errors.Register(1022, "stale claim")
	ErrCapacity      = errors.Register(1023, "channel capacity exceeded")
	ErrTimelock      = errors.Register(1024, "channel is time locked")
	ErrClosedChannel = errors.Register(1025, "channel closed")
)
