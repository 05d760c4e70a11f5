package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/weave-paychan"
	"github.com/iov-one/weave-paychan/errors"
	"github.com/iov-one/weave-paychan/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequenceValue is limited by the client. The greatest supported
// nonce value at client side is
//
//	Number.MAX_SAFE_INTEGER = 9007199254740991 = 2^53 - 1
const maxSequenceValue = (1 << 53) - 1

// UserData is the replay protection state of a single signer. It is
// created when the signer signs the first transaction.
type UserData struct {
	Sequence int64 `protobuf:"varint,1,opt,name=sequence,proto3" json:"sequence,omitempty"`
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Validate() error {
	if u.Sequence <= 0 || u.Sequence > maxSequenceValue {
		return errors.Field("Sequence", ErrInvalidSequence, "out of range")
	}
	return nil
}

func (u *UserData) Marshal() ([]byte, error) {
	return proto.Marshal((*userDataPB)(u))
}

func (u *UserData) Unmarshal(raw []byte) error {
	return unmarshal(raw, (*userDataPB)(u), errors.ErrModel)
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
// Before incrementing the sequence, this function is testing for a value
// overflow.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// Bucket stores UserData under the signer address.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName),
	}
}

// GetOrCreate returns the state of given signer. A signer that never signed
// anything starts with a zero sequence.
func (b Bucket) GetOrCreate(db weave.ReadOnlyKVStore, signer weave.Address) (*UserData, error) {
	var user UserData
	switch err := b.One(db, signer, &user); {
	case err == nil:
		return &user, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{}, nil
	default:
		return nil, errors.Wrap(err, "load user")
	}
}
