package paychan

import (
	"github.com/iov-one/weave-paychan"
	"github.com/iov-one/weave-paychan/errors"
	"github.com/iov-one/weave-paychan/x"
)

const (
	fundCost       int64 = 300
	withdrawCost   int64 = 500
	unlockCost     int64 = 100
	closeCost      int64 = 200
	forceCloseCost int64 = 200
)

// RegisterRoutes registers handlers for payment channel messages.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, ledger *Ledger) {
	r.Handle(pathFundMsg, &fundHandler{auth: auth, ledger: ledger})
	r.Handle(pathWithdrawMsg, &withdrawHandler{auth: auth, ledger: ledger})
	r.Handle(pathUnlockMsg, &unlockHandler{auth: auth, ledger: ledger})
	r.Handle(pathCloseMsg, &closeHandler{auth: auth, ledger: ledger})
	r.Handle(pathForceCloseMsg, &forceCloseHandler{auth: auth, ledger: ledger})
}

type fundHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ weave.Handler = (*fundHandler)(nil)

func (h *fundHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: fundCost}, nil
}

func (h *fundHandler) validate(ctx weave.Context, tx weave.Tx) (*FundMsg, error) {
	var msg FundMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, msg.Owner, "owner"); err != nil {
		return nil, errors.Wrap(err, "fund")
	}
	return &msg, nil
}

func (h *fundHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	ev, err := h.ledger.Fund(ctx, db, msg.Owner, msg.Receiver, msg.Amount)
	if err != nil {
		return nil, err
	}
	return &weave.DeliverResult{Tags: ev.Tags()}, nil
}

type withdrawHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ weave.Handler = (*withdrawHandler)(nil)

func (h *withdrawHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: withdrawCost}, nil
}

func (h *withdrawHandler) validate(ctx weave.Context, tx weave.Tx) (*WithdrawMsg, error) {
	var msg WithdrawMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, msg.Receiver, "receiver"); err != nil {
		return nil, errors.Wrap(err, "withdraw")
	}
	return &msg, nil
}

func (h *withdrawHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	ev, err := h.ledger.Withdraw(ctx, db, msg.Owner, msg.Receiver, msg.Amount, msg.Signature)
	if err != nil {
		return nil, err
	}
	return &weave.DeliverResult{Tags: ev.Tags()}, nil
}

type unlockHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ weave.Handler = (*unlockHandler)(nil)

func (h *unlockHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: unlockCost}, nil
}

func (h *unlockHandler) validate(ctx weave.Context, tx weave.Tx) (*UnlockMsg, error) {
	var msg UnlockMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, msg.Owner, "owner"); err != nil {
		return nil, errors.Wrap(err, "unlock")
	}
	return &msg, nil
}

func (h *unlockHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	ev, err := h.ledger.Unlock(ctx, db, msg.Owner, msg.Receiver)
	if err != nil {
		return nil, err
	}
	return &weave.DeliverResult{Tags: ev.Tags()}, nil
}

type closeHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ weave.Handler = (*closeHandler)(nil)

func (h *closeHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: closeCost}, nil
}

func (h *closeHandler) validate(ctx weave.Context, tx weave.Tx) (*CloseMsg, error) {
	var msg CloseMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, msg.Owner, "owner"); err != nil {
		return nil, errors.Wrap(err, "close")
	}
	return &msg, nil
}

func (h *closeHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	ev, err := h.ledger.Close(ctx, db, msg.Owner, msg.Receiver)
	if err != nil {
		return nil, err
	}
	return &weave.DeliverResult{Tags: ev.Tags()}, nil
}

type forceCloseHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ weave.Handler = (*forceCloseHandler)(nil)

func (h *forceCloseHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: forceCloseCost}, nil
}

func (h *forceCloseHandler) validate(ctx weave.Context, tx weave.Tx) (*ForceCloseMsg, error) {
	var msg ForceCloseMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, msg.Receiver, "receiver"); err != nil {
		return nil, errors.Wrap(err, "force close")
	}
	return &msg, nil
}

func (h *forceCloseHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	ev, err := h.ledger.ForceClose(ctx, db, msg.Owner, msg.Receiver)
	if err != nil {
		return nil, err
	}
	return &weave.DeliverResult{Tags: ev.Tags()}, nil
}
