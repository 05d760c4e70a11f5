package paychan

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/weave-paychan/errors"
)

// Wire forms of the models and messages. Each shares the layout and struct
// tags of its public type but has no Marshal method, so gogo/protobuf
// serializes it from the tags instead of calling back into Marshal.
type (
	channelPB       Channel
	configurationPB Configuration
	fundMsgPB       FundMsg
	withdrawMsgPB   WithdrawMsg
	unlockMsgPB     UnlockMsg
	closeMsgPB      CloseMsg
	forceCloseMsgPB ForceCloseMsg
)

func (m *channelPB) Reset()         { *m = channelPB{} }
func (m *channelPB) String() string { return proto.CompactTextString(m) }
func (*channelPB) ProtoMessage()    {}

func (m *configurationPB) Reset()         { *m = configurationPB{} }
func (m *configurationPB) String() string { return proto.CompactTextString(m) }
func (*configurationPB) ProtoMessage()    {}

func (m *fundMsgPB) Reset()         { *m = fundMsgPB{} }
func (m *fundMsgPB) String() string { return proto.CompactTextString(m) }
func (*fundMsgPB) ProtoMessage()    {}

func (m *withdrawMsgPB) Reset()         { *m = withdrawMsgPB{} }
func (m *withdrawMsgPB) String() string { return proto.CompactTextString(m) }
func (*withdrawMsgPB) ProtoMessage()    {}

func (m *unlockMsgPB) Reset()         { *m = unlockMsgPB{} }
func (m *unlockMsgPB) String() string { return proto.CompactTextString(m) }
func (*unlockMsgPB) ProtoMessage()    {}

func (m *closeMsgPB) Reset()         { *m = closeMsgPB{} }
func (m *closeMsgPB) String() string { return proto.CompactTextString(m) }
func (*closeMsgPB) ProtoMessage()    {}

func (m *forceCloseMsgPB) Reset()         { *m = forceCloseMsgPB{} }
func (m *forceCloseMsgPB) String() string { return proto.CompactTextString(m) }
func (*forceCloseMsgPB) ProtoMessage()    {}

func init() {
	proto.RegisterType((*channelPB)(nil), "paychan.Channel")
	proto.RegisterType((*configurationPB)(nil), "paychan.Configuration")
	proto.RegisterType((*fundMsgPB)(nil), "paychan.FundMsg")
	proto.RegisterType((*withdrawMsgPB)(nil), "paychan.WithdrawMsg")
	proto.RegisterType((*unlockMsgPB)(nil), "paychan.UnlockMsg")
	proto.RegisterType((*closeMsgPB)(nil), "paychan.CloseMsg")
	proto.RegisterType((*forceCloseMsgPB)(nil), "paychan.ForceCloseMsg")
}

// unmarshal decodes raw into pb, reporting malformed input as kind.
func unmarshal(raw []byte, pb proto.Message, kind *errors.Error) error {
	if err := proto.Unmarshal(raw, pb); err != nil {
		return errors.Wrap(kind, err.Error())
	}
	return nil
}
