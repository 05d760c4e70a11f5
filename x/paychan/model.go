package paychan

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/weave-paychan"
	"github.com/iov-one/weave-paychan/errors"
	"github.com/iov-one/weave-paychan/orm"
)

// Channel is the state of a single payment channel.
type Channel struct {
	Owner    weave.Address `protobuf:"bytes,1,opt,name=owner,proto3,casttype=github.com/iov-one/weave-paychan.Address" json:"owner,omitempty"`
	Receiver weave.Address `protobuf:"bytes,2,opt,name=receiver,proto3,casttype=github.com/iov-one/weave-paychan.Address" json:"receiver,omitempty"`
	// Deposited is the total amount of coins ever deposited.
	Deposited uint64 `protobuf:"varint,3,opt,name=deposited,proto3" json:"deposited,omitempty"`
	// Withdrawn is the total amount of coins paid to the receiver. It is
	// the amount of the last redeemed claim.
	Withdrawn uint64 `protobuf:"varint,4,opt,name=withdrawn,proto3" json:"withdrawn,omitempty"`
	// UnlockAt is zero until the owner requests the channel to be closed.
	UnlockAt weave.UnixTime `protobuf:"varint,5,opt,name=unlock_at,json=unlockAt,proto3,casttype=github.com/iov-one/weave-paychan.UnixTime" json:"unlock_at,omitempty"`
	Closed   bool           `protobuf:"varint,6,opt,name=closed,proto3" json:"closed,omitempty"`
}

var _ orm.Model = (*Channel)(nil)

// Validate ensures the payment channel is valid.
func (c *Channel) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	errs = errors.AppendField(errs, "Receiver", c.Receiver.Validate())
	if c.Deposited == 0 {
		errs = errors.Append(errs,
			errors.Field("Deposited", errors.ErrModel, "channel was never funded"))
	}
	if c.Withdrawn > c.Deposited {
		errs = errors.Append(errs,
			errors.Field("Withdrawn", errors.ErrModel, "more withdrawn than deposited"))
	}
	if err := c.UnlockAt.Validate(); err != nil {
		errs = errors.AppendField(errs, "UnlockAt", err)
	}
	return errs
}

// Remaining returns the amount of coins still held in custody for this
// channel.
func (c *Channel) Remaining() uint64 {
	if c.Closed {
		return 0
	}
	return c.Deposited - c.Withdrawn
}

func (c *Channel) Marshal() ([]byte, error) {
	return proto.Marshal((*channelPB)(c))
}

func (c *Channel) Unmarshal(raw []byte) error {
	return unmarshal(raw, (*channelPB)(c), errors.ErrModel)
}

// ChannelKey returns the key a channel between owner and receiver is stored
// under.
func ChannelKey(owner, receiver weave.Address) []byte {
	key := make([]byte, 0, len(owner)+len(receiver))
	key = append(key, owner...)
	return append(key, receiver...)
}

// ChannelAccount returns the address of the account holding the deposit of
// the channel between owner and receiver.
func ChannelAccount(owner, receiver weave.Address) weave.Address {
	return weave.NewCondition("paychan", "chan", ChannelKey(owner, receiver)).Address()
}

// ModuleAddress is allowed to pull deposits from owner wallets and receives
// pushed deposits before they are moved into the channel custody account.
var ModuleAddress = weave.NewCondition("paychan", "module", []byte("ledger")).Address()

// Bucket is a wrapper over orm.ModelBucket that ensures that only Channel
// entities can be persisted.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket returns a bucket for storing Channel state.
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket("paychan"),
	}
}

// Channel returns the channel between owner and receiver. It returns
// ErrNotFound if the channel was never funded.
func (b Bucket) Channel(db weave.ReadOnlyKVStore, owner, receiver weave.Address) (*Channel, error) {
	var ch Channel
	if err := b.One(db, ChannelKey(owner, receiver), &ch); err != nil {
		return nil, errors.Wrapf(err, "channel %s to %s", owner, receiver)
	}
	return &ch, nil
}

// Save updates the state of given Channel in the store.
func (b Bucket) Save(db weave.KVStore, ch *Channel) error {
	return b.Put(db, ChannelKey(ch.Owner, ch.Receiver), ch)
}

// ByOwner returns all channels funded by given owner, ordered by the
// receiver address.
func (b Bucket) ByOwner(db weave.ReadOnlyKVStore, owner weave.Address) ([]*Channel, error) {
	if err := owner.Validate(); err != nil {
		return nil, errors.Wrap(err, "owner")
	}
	it, err := b.PrefixScan(db, owner, false)
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var res []*Channel
	for {
		var ch Channel
		switch _, err := it.LoadNext(&ch); {
		case err == nil:
			res = append(res, &ch)
		case errors.ErrIteratorDone.Is(err):
			return res, nil
		default:
			return nil, err
		}
	}
}
