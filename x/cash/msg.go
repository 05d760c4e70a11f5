package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/weave-paychan"
	"github.com/iov-one/weave-paychan/errors"
)

const (
	sendTxCost     int64 = 100
	approveTxCost  int64 = 100
	transferTxCost int64 = 200

	maxMemoSize    int = 128
	maxPayloadSize int = 256
)

// SendMsg moves coins from the source to the destination.
type SendMsg struct {
	Source      weave.Address `protobuf:"bytes,1,opt,name=source,proto3,casttype=github.com/iov-one/weave-paychan.Address" json:"source,omitempty"`
	Destination weave.Address `protobuf:"bytes,2,opt,name=destination,proto3,casttype=github.com/iov-one/weave-paychan.Address" json:"destination,omitempty"`
	Amount      uint64        `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
	Memo        string        `protobuf:"bytes,4,opt,name=memo,proto3" json:"memo,omitempty"`
}

var _ weave.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	var err error
	err = errors.AppendField(err, "Source", m.Source.Validate())
	err = errors.AppendField(err, "Destination", m.Destination.Validate())
	if m.Amount == 0 {
		err = errors.Append(err, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	if len(m.Memo) > maxMemoSize {
		err = errors.Append(err, errors.Field("Memo", errors.ErrInput, "memo too long"))
	}
	return err
}

func (m *SendMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*sendMsgPB)(m))
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	return unmarshal(raw, (*sendMsgPB)(m), errors.ErrInput)
}

// ApproveMsg allows the spender to pull up to the amount from the owner
// wallet. A zero amount revokes the allowance.
type ApproveMsg struct {
	Owner   weave.Address `protobuf:"bytes,1,opt,name=owner,proto3,casttype=github.com/iov-one/weave-paychan.Address" json:"owner,omitempty"`
	Spender weave.Address `protobuf:"bytes,2,opt,name=spender,proto3,casttype=github.com/iov-one/weave-paychan.Address" json:"spender,omitempty"`
	Amount  uint64        `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
}

var _ weave.Msg = (*ApproveMsg)(nil)

func (ApproveMsg) Path() string {
	return "cash/approve"
}

func (m *ApproveMsg) Validate() error {
	var err error
	err = errors.AppendField(err, "Owner", m.Owner.Validate())
	err = errors.AppendField(err, "Spender", m.Spender.Validate())
	if m.Owner.Equals(m.Spender) {
		err = errors.Append(err, errors.Field("Spender", errors.ErrInput, "cannot approve self"))
	}
	return err
}

func (m *ApproveMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*approveMsgPB)(m))
}

func (m *ApproveMsg) Unmarshal(raw []byte) error {
	return unmarshal(raw, (*approveMsgPB)(m), errors.ErrInput)
}

// TransferAndCallMsg moves coins to the recipient and notifies it, within
// the same transaction, by calling the TokenReceiver registered for the
// recipient address. The payload is passed to the receiver unchanged.
type TransferAndCallMsg struct {
	Sender    weave.Address `protobuf:"bytes,1,opt,name=sender,proto3,casttype=github.com/iov-one/weave-paychan.Address" json:"sender,omitempty"`
	Recipient weave.Address `protobuf:"bytes,2,opt,name=recipient,proto3,casttype=github.com/iov-one/weave-paychan.Address" json:"recipient,omitempty"`
	Amount    uint64        `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
	Payload   []byte        `protobuf:"bytes,4,opt,name=payload,proto3" json:"payload,omitempty"`
}

var _ weave.Msg = (*TransferAndCallMsg)(nil)

func (TransferAndCallMsg) Path() string {
	return "cash/transfer_and_call"
}

func (m *TransferAndCallMsg) Validate() error {
	var err error
	err = errors.AppendField(err, "Sender", m.Sender.Validate())
	err = errors.AppendField(err, "Recipient", m.Recipient.Validate())
	if m.Amount == 0 {
		err = errors.Append(err, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	if len(m.Payload) > maxPayloadSize {
		err = errors.Append(err, errors.Field("Payload", errors.ErrInput, "payload too long"))
	}
	return err
}

func (m *TransferAndCallMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*transferAndCallMsgPB)(m))
}

func (m *TransferAndCallMsg) Unmarshal(raw []byte) error {
	return unmarshal(raw, (*transferAndCallMsgPB)(m), errors.ErrInput)
}
