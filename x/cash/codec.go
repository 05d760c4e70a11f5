package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/weave-paychan/errors"
)

// Wire forms of the cash models and messages. Without a Marshal method of
// their own they are serialized by gogo/protobuf from the struct tags.
type (
	walletPB             Wallet
	allowancePB          Allowance
	sendMsgPB            SendMsg
	approveMsgPB         ApproveMsg
	transferAndCallMsgPB TransferAndCallMsg
)

func (m *walletPB) Reset()         { *m = walletPB{} }
func (m *walletPB) String() string { return proto.CompactTextString(m) }
func (*walletPB) ProtoMessage()    {}

func (m *allowancePB) Reset()         { *m = allowancePB{} }
func (m *allowancePB) String() string { return proto.CompactTextString(m) }
func (*allowancePB) ProtoMessage()    {}

func (m *sendMsgPB) Reset()         { *m = sendMsgPB{} }
func (m *sendMsgPB) String() string { return proto.CompactTextString(m) }
func (*sendMsgPB) ProtoMessage()    {}

func (m *approveMsgPB) Reset()         { *m = approveMsgPB{} }
func (m *approveMsgPB) String() string { return proto.CompactTextString(m) }
func (*approveMsgPB) ProtoMessage()    {}

func (m *transferAndCallMsgPB) Reset()         { *m = transferAndCallMsgPB{} }
func (m *transferAndCallMsgPB) String() string { return proto.CompactTextString(m) }
func (*transferAndCallMsgPB) ProtoMessage()    {}

func init() {
	proto.RegisterType((*walletPB)(nil), "cash.Wallet")
	proto.RegisterType((*allowancePB)(nil), "cash.Allowance")
	proto.RegisterType((*sendMsgPB)(nil), "cash.SendMsg")
	proto.RegisterType((*approveMsgPB)(nil), "cash.ApproveMsg")
	proto.RegisterType((*transferAndCallMsgPB)(nil), "cash.TransferAndCallMsg")
}

func unmarshal(raw []byte, pb proto.Message, kind *errors.Error) error {
	if err := proto.Unmarshal(raw, pb); err != nil {
		return errors.Wrap(kind, err.Error())
	}
	return nil
}
