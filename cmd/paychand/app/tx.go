package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/weave-paychan"
	"github.com/iov-one/weave-paychan/errors"
	"github.com/iov-one/weave-paychan/x/cash"
	"github.com/iov-one/weave-paychan/x/paychan"
	"github.com/iov-one/weave-paychan/x/sigs"
)

// Tx is the transaction format of the payment channel chain. It carries
// any number of signatures and exactly one of the message fields. Field
// numbers must never be reused.
type Tx struct {
	Signatures []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures,proto3" json:"signatures,omitempty"`

	SendMsg            *cash.SendMsg            `protobuf:"bytes,10,opt,name=send_msg,json=sendMsg,proto3" json:"send_msg,omitempty"`
	ApproveMsg         *cash.ApproveMsg         `protobuf:"bytes,11,opt,name=approve_msg,json=approveMsg,proto3" json:"approve_msg,omitempty"`
	TransferAndCallMsg *cash.TransferAndCallMsg `protobuf:"bytes,12,opt,name=transfer_and_call_msg,json=transferAndCallMsg,proto3" json:"transfer_and_call_msg,omitempty"`
	FundMsg            *paychan.FundMsg         `protobuf:"bytes,20,opt,name=fund_msg,json=fundMsg,proto3" json:"fund_msg,omitempty"`
	WithdrawMsg        *paychan.WithdrawMsg     `protobuf:"bytes,21,opt,name=withdraw_msg,json=withdrawMsg,proto3" json:"withdraw_msg,omitempty"`
	UnlockMsg          *paychan.UnlockMsg       `protobuf:"bytes,22,opt,name=unlock_msg,json=unlockMsg,proto3" json:"unlock_msg,omitempty"`
	CloseMsg           *paychan.CloseMsg        `protobuf:"bytes,23,opt,name=close_msg,json=closeMsg,proto3" json:"close_msg,omitempty"`
	ForceCloseMsg      *paychan.ForceCloseMsg   `protobuf:"bytes,24,opt,name=force_close_msg,json=forceCloseMsg,proto3" json:"force_close_msg,omitempty"`
	BumpSequenceMsg    *sigs.BumpSequenceMsg    `protobuf:"bytes,30,opt,name=bump_sequence_msg,json=bumpSequenceMsg,proto3" json:"bump_sequence_msg,omitempty"`
}

// make sure tx fulfills all interfaces
var _ weave.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// txPB is the wire form of Tx, serialized by gogo/protobuf from the struct
// tags. Nested messages marshal themselves.
type txPB Tx

func (m *txPB) Reset()         { *m = txPB{} }
func (m *txPB) String() string { return proto.CompactTextString(m) }
func (*txPB) ProtoMessage()    {}

func init() {
	proto.RegisterType((*txPB)(nil), "paychand.Tx")
}

// NewTx returns an unsigned transaction carrying msg.
func NewTx(msg weave.Msg) (*Tx, error) {
	tx := new(Tx)
	if err := tx.SetMsg(msg); err != nil {
		return nil, err
	}
	return tx, nil
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (weave.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	if len(tx.msgs()) > 1 {
		return nil, errors.Wrap(errors.ErrInput, "more than one message")
	}
	return tx, nil
}

// SetMsg replaces the message of this transaction. Signatures are kept.
func (tx *Tx) SetMsg(msg weave.Msg) error {
	*tx = Tx{Signatures: tx.Signatures}
	switch m := msg.(type) {
	case *cash.SendMsg:
		tx.SendMsg = m
	case *cash.ApproveMsg:
		tx.ApproveMsg = m
	case *cash.TransferAndCallMsg:
		tx.TransferAndCallMsg = m
	case *paychan.FundMsg:
		tx.FundMsg = m
	case *paychan.WithdrawMsg:
		tx.WithdrawMsg = m
	case *paychan.UnlockMsg:
		tx.UnlockMsg = m
	case *paychan.CloseMsg:
		tx.CloseMsg = m
	case *paychan.ForceCloseMsg:
		tx.ForceCloseMsg = m
	case *sigs.BumpSequenceMsg:
		tx.BumpSequenceMsg = m
	default:
		return errors.Wrapf(errors.ErrMsg, "unsupported message %T", msg)
	}
	return nil
}

// GetMsg returns the single message of this transaction.
func (tx *Tx) GetMsg() (weave.Msg, error) {
	switch msgs := tx.msgs(); len(msgs) {
	case 0:
		return nil, errors.Wrap(errors.ErrInput, "unable to decode")
	case 1:
		return msgs[0], nil
	default:
		return nil, errors.Wrap(errors.ErrInput, "more than one message")
	}
}

// msgs returns all messages set on this transaction.
func (tx *Tx) msgs() []weave.Msg {
	var res []weave.Msg
	if tx.SendMsg != nil {
		res = append(res, tx.SendMsg)
	}
	if tx.ApproveMsg != nil {
		res = append(res, tx.ApproveMsg)
	}
	if tx.TransferAndCallMsg != nil {
		res = append(res, tx.TransferAndCallMsg)
	}
	if tx.FundMsg != nil {
		res = append(res, tx.FundMsg)
	}
	if tx.WithdrawMsg != nil {
		res = append(res, tx.WithdrawMsg)
	}
	if tx.UnlockMsg != nil {
		res = append(res, tx.UnlockMsg)
	}
	if tx.CloseMsg != nil {
		res = append(res, tx.CloseMsg)
	}
	if tx.ForceCloseMsg != nil {
		res = append(res, tx.ForceCloseMsg)
	}
	if tx.BumpSequenceMsg != nil {
		res = append(res, tx.BumpSequenceMsg)
	}
	return res
}

// GetSignatures returns all signatures of this transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign, which is the transaction
// serialized without signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := *tx
	unsigned.Signatures = nil
	return unsigned.Marshal()
}

func (tx *Tx) Marshal() ([]byte, error) {
	return proto.Marshal((*txPB)(tx))
}

func (tx *Tx) Unmarshal(raw []byte) error {
	if err := proto.Unmarshal(raw, (*txPB)(tx)); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}
