package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/weave-paychan/errors"
)

// Wire forms serialized by gogo/protobuf from the struct tags of the
// public types they are converted from.
type (
	userDataPB        UserData
	stdSignaturePB    StdSignature
	bumpSequenceMsgPB BumpSequenceMsg
)

func (m *userDataPB) Reset()         { *m = userDataPB{} }
func (m *userDataPB) String() string { return proto.CompactTextString(m) }
func (*userDataPB) ProtoMessage()    {}

func (m *stdSignaturePB) Reset()         { *m = stdSignaturePB{} }
func (m *stdSignaturePB) String() string { return proto.CompactTextString(m) }
func (*stdSignaturePB) ProtoMessage()    {}

func (m *bumpSequenceMsgPB) Reset()         { *m = bumpSequenceMsgPB{} }
func (m *bumpSequenceMsgPB) String() string { return proto.CompactTextString(m) }
func (*bumpSequenceMsgPB) ProtoMessage()    {}

func init() {
	proto.RegisterType((*userDataPB)(nil), "sigs.UserData")
	proto.RegisterType((*stdSignaturePB)(nil), "sigs.StdSignature")
	proto.RegisterType((*bumpSequenceMsgPB)(nil), "sigs.BumpSequenceMsg")
}

func unmarshal(raw []byte, pb proto.Message, kind *errors.Error) error {
	if err := proto.Unmarshal(raw, pb); err != nil {
		return errors.Wrap(kind, err.Error())
	}
	return nil
}
