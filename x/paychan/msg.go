package paychan

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/weave-paychan"
	"github.com/iov-one/weave-paychan/crypto"
	"github.com/iov-one/weave-paychan/errors"
)

const (
	pathFundMsg       = "paychan/fund"
	pathWithdrawMsg   = "paychan/withdraw"
	pathUnlockMsg     = "paychan/unlock"
	pathCloseMsg      = "paychan/close"
	pathForceCloseMsg = "paychan/force_close"
)

// FundMsg pulls coins from the owner wallet into the channel. The owner
// must first approve the ModuleAddress to spend at least the amount.
type FundMsg struct {
	Owner    weave.Address `protobuf:"bytes,1,opt,name=owner,proto3,casttype=github.com/iov-one/weave-paychan.Address" json:"owner,omitempty"`
	Receiver weave.Address `protobuf:"bytes,2,opt,name=receiver,proto3,casttype=github.com/iov-one/weave-paychan.Address" json:"receiver,omitempty"`
	Amount   uint64        `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
}

var _ weave.Msg = (*FundMsg)(nil)

func (FundMsg) Path() string {
	return pathFundMsg
}

func (m *FundMsg) Validate() error {
	errs := validateParties(m.Owner, m.Receiver)
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", ErrCapacity, "must be positive"))
	}
	return errs
}

func (m *FundMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*fundMsgPB)(m))
}

func (m *FundMsg) Unmarshal(raw []byte) error {
	return unmarshal(raw, (*fundMsgPB)(m), errors.ErrInput)
}

// WithdrawMsg redeems a claim signed by the owner. Amount is the total the
// receiver is owed, not the increment.
type WithdrawMsg struct {
	Owner     weave.Address    `protobuf:"bytes,1,opt,name=owner,proto3,casttype=github.com/iov-one/weave-paychan.Address" json:"owner,omitempty"`
	Receiver  weave.Address    `protobuf:"bytes,2,opt,name=receiver,proto3,casttype=github.com/iov-one/weave-paychan.Address" json:"receiver,omitempty"`
	Amount    uint64           `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
	Signature crypto.Signature `protobuf:"bytes,4,opt,name=signature,proto3,casttype=github.com/iov-one/weave-paychan/crypto.Signature" json:"signature,omitempty"`
}

var _ weave.Msg = (*WithdrawMsg)(nil)

func (WithdrawMsg) Path() string {
	return pathWithdrawMsg
}

func (m *WithdrawMsg) Validate() error {
	errs := validateParties(m.Owner, m.Receiver)
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", ErrStaleClaim, "must be positive"))
	}
	if err := m.Signature.Validate(); err != nil {
		errs = errors.AppendField(errs, "Signature", errors.Wrap(ErrInvalidClaim, err.Error()))
	}
	return errs
}

func (m *WithdrawMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*withdrawMsgPB)(m))
}

func (m *WithdrawMsg) Unmarshal(raw []byte) error {
	return unmarshal(raw, (*withdrawMsgPB)(m), errors.ErrInput)
}

// UnlockMsg starts the dispute window of a channel.
type UnlockMsg struct {
	Owner    weave.Address `protobuf:"bytes,1,opt,name=owner,proto3,casttype=github.com/iov-one/weave-paychan.Address" json:"owner,omitempty"`
	Receiver weave.Address `protobuf:"bytes,2,opt,name=receiver,proto3,casttype=github.com/iov-one/weave-paychan.Address" json:"receiver,omitempty"`
}

var _ weave.Msg = (*UnlockMsg)(nil)

func (UnlockMsg) Path() string {
	return pathUnlockMsg
}

func (m *UnlockMsg) Validate() error {
	return validateParties(m.Owner, m.Receiver)
}

func (m *UnlockMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*unlockMsgPB)(m))
}

func (m *UnlockMsg) Unmarshal(raw []byte) error {
	return unmarshal(raw, (*unlockMsgPB)(m), errors.ErrInput)
}

// CloseMsg refunds the remaining deposit to the owner once the dispute
// window elapsed.
type CloseMsg struct {
	Owner    weave.Address `protobuf:"bytes,1,opt,name=owner,proto3,casttype=github.com/iov-one/weave-paychan.Address" json:"owner,omitempty"`
	Receiver weave.Address `protobuf:"bytes,2,opt,name=receiver,proto3,casttype=github.com/iov-one/weave-paychan.Address" json:"receiver,omitempty"`
}

var _ weave.Msg = (*CloseMsg)(nil)

func (CloseMsg) Path() string {
	return pathCloseMsg
}

func (m *CloseMsg) Validate() error {
	return validateParties(m.Owner, m.Receiver)
}

func (m *CloseMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*closeMsgPB)(m))
}

func (m *CloseMsg) Unmarshal(raw []byte) error {
	return unmarshal(raw, (*closeMsgPB)(m), errors.ErrInput)
}

// ForceCloseMsg is sent by the receiver to close the channel immediately.
type ForceCloseMsg struct {
	Owner    weave.Address `protobuf:"bytes,1,opt,name=owner,proto3,casttype=github.com/iov-one/weave-paychan.Address" json:"owner,omitempty"`
	Receiver weave.Address `protobuf:"bytes,2,opt,name=receiver,proto3,casttype=github.com/iov-one/weave-paychan.Address" json:"receiver,omitempty"`
}

var _ weave.Msg = (*ForceCloseMsg)(nil)

func (ForceCloseMsg) Path() string {
	return pathForceCloseMsg
}

func (m *ForceCloseMsg) Validate() error {
	return validateParties(m.Owner, m.Receiver)
}

func (m *ForceCloseMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*forceCloseMsgPB)(m))
}

func (m *ForceCloseMsg) Unmarshal(raw []byte) error {
	return unmarshal(raw, (*forceCloseMsgPB)(m), errors.ErrInput)
}

func validateParties(owner, receiver weave.Address) error {
	var errs error
	errs = errors.AppendField(errs, "Owner", owner.Validate())
	errs = errors.AppendField(errs, "Receiver", receiver.Validate())
	if errs == nil && owner.Equals(receiver) {
		errs = errors.Field("Receiver", errors.ErrInput, "owner cannot pay self")
	}
	return errs
}
