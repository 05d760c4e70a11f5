package app

import "github.com/iov-one/weave-paychan/errors"

// ErrNoSuchPath is returned when a message path has no handler registered.
var ErrNoSuchPath = errors.Register(100, "path not registered")
