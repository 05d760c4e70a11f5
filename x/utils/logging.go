package utils

import (
	"time"

	"github.com/iov-one/weave-paychan"
	"github.com/iov-one/weave-paychan/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Logging reports the outcome of every transaction.
//
// A transaction rejected with a registered error, for example a stale claim,
// is a regular outcome and is logged as info together with its code. Only
// internal errors are logged as errors.
type Logging struct{}

var _ weave.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs success as debug
func (Logging) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	logger := callLogger(ctx, start)
	if err != nil {
		logFailure(logger, err)
		return nil, err
	}
	logger.Debug(res.Log, "gas", res.GasAllocated)
	return res, nil
}

// Deliver logs success as info
func (Logging) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	logger := callLogger(ctx, start)
	if err != nil {
		logFailure(logger, err)
		return nil, err
	}
	// The message can be empty, the entry is still worth emitting.
	logger.Info(res.Log, "tags", len(res.Tags))
	return res, nil
}

func callLogger(ctx weave.Context, start time.Time) log.Logger {
	return weave.GetLogger(ctx).With("duration", time.Since(start)/time.Microsecond)
}

func logFailure(logger log.Logger, err error) {
	code := errors.Code(err)
	if code == errors.InternalCode || errors.ErrPanic.Is(err) {
		logger.Error("internal failure", "code", code, "err", err)
		return
	}
	logger.Info("rejected", "code", code, "err", err)
}
