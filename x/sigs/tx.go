package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/weave-paychan/crypto"
	"github.com/iov-one/weave-paychan/errors"
)

// SignedTx represents a transaction that contains signatures,
// which can be verified by the sigs.Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the
	// transaction with all signatures removed.
	GetSignBytes() ([]byte, error)

	// Signatures returns the signature of signers who signed the Msg.
	GetSignatures() []*StdSignature
}

// StdSignature is a single signature of a transaction, together with the
// sequence the signer used.
type StdSignature struct {
	Sequence  int64            `protobuf:"varint,1,opt,name=sequence,proto3" json:"sequence,omitempty"`
	Signature crypto.Signature `protobuf:"bytes,2,opt,name=signature,proto3,casttype=github.com/iov-one/weave-paychan/crypto.Signature" json:"signature,omitempty"`
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if len(s.Signature) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	if err := s.Signature.Validate(); err != nil {
		return errors.Wrap(errors.ErrUnauthorized, err.Error())
	}
	return nil
}

func (s *StdSignature) Marshal() ([]byte, error) {
	return proto.Marshal((*stdSignaturePB)(s))
}

func (s *StdSignature) Unmarshal(raw []byte) error {
	return unmarshal(raw, (*stdSignaturePB)(s), errors.ErrInput)
}
