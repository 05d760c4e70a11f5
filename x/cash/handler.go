package cash

import (
	"github.com/iov-one/weave-paychan"
	"github.com/iov-one/weave-paychan/errors"
	"github.com/iov-one/weave-paychan/x"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r weave.Registry, auth x.Authenticator, control AllowanceController, receivers *Receivers) {
	r.Handle(SendMsg{}.Path(), NewSendHandler(auth, control))
	r.Handle(ApproveMsg{}.Path(), NewApproveHandler(auth, control))
	r.Handle(TransferAndCallMsg{}.Path(), NewTransferAndCallHandler(auth, control, receivers))
}

// SendHandler will handle sending coins
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ weave.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h SendHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: sendTxCost}, nil
}

// Deliver moves the tokens from source to receiver if
// all preconditions are met
func (h SendHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(db, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{}, nil
}

func (h SendHandler) validate(ctx weave.Context, tx weave.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, msg.Source, "source"); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ApproveHandler sets allowances.
type ApproveHandler struct {
	auth    x.Authenticator
	control AllowanceController
}

var _ weave.Handler = ApproveHandler{}

// NewApproveHandler creates a handler for ApproveMsg
func NewApproveHandler(auth x.Authenticator, control AllowanceController) ApproveHandler {
	return ApproveHandler{
		auth:    auth,
		control: control,
	}
}

func (h ApproveHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: approveTxCost}, nil
}

func (h ApproveHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.Approve(db, msg.Owner, msg.Spender, msg.Amount); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{}, nil
}

func (h ApproveHandler) validate(ctx weave.Context, tx weave.Tx) (*ApproveMsg, error) {
	var msg ApproveMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, msg.Owner, "owner"); err != nil {
		return nil, err
	}
	return &msg, nil
}

// TransferAndCallHandler moves coins to a registered receiver and notifies
// it.
type TransferAndCallHandler struct {
	auth      x.Authenticator
	control   Controller
	receivers *Receivers
}

var _ weave.Handler = TransferAndCallHandler{}

// NewTransferAndCallHandler creates a handler for TransferAndCallMsg
func NewTransferAndCallHandler(auth x.Authenticator, control Controller, receivers *Receivers) TransferAndCallHandler {
	return TransferAndCallHandler{
		auth:      auth,
		control:   control,
		receivers: receivers,
	}
}

func (h TransferAndCallHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: transferTxCost}, nil
}

// Deliver credits the recipient and calls its receiver. Any receiver error
// fails the whole delivery so the transfer is discarded together with it.
// The result carries the tags reported by the receiver.
func (h TransferAndCallHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, rcv, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(db, msg.Sender, msg.Recipient, msg.Amount); err != nil {
		return nil, err
	}
	tags, err := rcv.OnTokenReceived(ctx, db, msg.Sender, msg.Amount, msg.Payload)
	if err != nil {
		return nil, errors.Wrap(err, "token receiver")
	}
	return &weave.DeliverResult{Tags: tags}, nil
}

func (h TransferAndCallHandler) validate(ctx weave.Context, tx weave.Tx) (*TransferAndCallMsg, TokenReceiver, error) {
	var msg TransferAndCallMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, msg.Sender, "sender"); err != nil {
		return nil, nil, err
	}
	rcv, ok := h.receivers.Lookup(msg.Recipient)
	if !ok {
		return nil, nil, errors.Wrapf(errors.ErrInput, "%s is not a token receiver", msg.Recipient)
	}
	return &msg, rcv, nil
}
