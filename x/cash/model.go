package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/weave-paychan"
	"github.com/iov-one/weave-paychan/errors"
	"github.com/iov-one/weave-paychan/orm"
)

// Wallet holds the balance of a single address. Empty wallets are not
// stored.
type Wallet struct {
	Balance uint64 `protobuf:"varint,1,opt,name=balance,proto3" json:"balance,omitempty"`
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Marshal() ([]byte, error) {
	return proto.Marshal((*walletPB)(w))
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return unmarshal(raw, (*walletPB)(w), errors.ErrModel)
}

func (w *Wallet) Validate() error {
	if w.Balance == 0 {
		return errors.Wrap(errors.ErrModel, "empty wallet")
	}
	return nil
}

// Allowance is the amount a spender may still pull from the owner wallet.
type Allowance struct {
	Amount uint64 `protobuf:"varint,1,opt,name=amount,proto3" json:"amount,omitempty"`
}

var _ orm.Model = (*Allowance)(nil)

func (a *Allowance) Marshal() ([]byte, error) {
	return proto.Marshal((*allowancePB)(a))
}

func (a *Allowance) Unmarshal(raw []byte) error {
	return unmarshal(raw, (*allowancePB)(a), errors.ErrModel)
}

func (a *Allowance) Validate() error {
	if a.Amount == 0 {
		return errors.Wrap(errors.ErrModel, "empty allowance")
	}
	return nil
}

// NewWalletBucket returns a bucket holding wallets keyed by their address.
func NewWalletBucket() orm.ModelBucket {
	return orm.NewModelBucket("cash")
}

// NewAllowanceBucket returns a bucket holding allowances keyed by
// AllowanceKey.
func NewAllowanceBucket() orm.ModelBucket {
	return orm.NewModelBucket("allowance")
}

// AllowanceKey returns the key of the allowance given by owner to spender.
func AllowanceKey(owner, spender weave.Address) []byte {
	key := make([]byte, 0, len(owner)+len(spender))
	key = append(key, owner...)
	return append(key, spender...)
}
