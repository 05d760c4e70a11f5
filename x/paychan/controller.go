package paychan

import (
	"github.com/iov-one/weave-paychan"
	"github.com/iov-one/weave-paychan/crypto"
	"github.com/iov-one/weave-paychan/errors"
	"github.com/iov-one/weave-paychan/x/cash"
	"github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

// Ledger holds the rules of the payment channel life cycle. All coins are
// moved using the value ledger it was created with.
//
// Ledger does not check who is calling. Authorization is the job of the
// message handlers.
type Ledger struct {
	bucket Bucket
	cash   cash.Controller
}

var _ cash.TokenReceiver = (*Ledger)(nil)

// NewLedger returns a ledger storing channels in given bucket.
func NewLedger(bucket Bucket, cash cash.Controller) *Ledger {
	return &Ledger{
		bucket: bucket,
		cash:   cash,
	}
}

// Fund pulls amount from the owner wallet into the channel custody. The
// owner must have approved at least amount for the ModuleAddress. The
// first funding creates the channel.
func (l *Ledger) Fund(ctx weave.Context, db weave.KVStore, owner, receiver weave.Address, amount uint64) (*Event, error) {
	return l.deposit(ctx, db, owner, receiver, amount, func() error {
		return l.cash.TransferFrom(db, ModuleAddress, owner, ChannelAccount(owner, receiver), amount)
	})
}

// Deposit books amount as deposited into the channel. Use it only after the
// coins were moved to the channel custody account by other means.
func (l *Ledger) Deposit(ctx weave.Context, db weave.KVStore, owner, receiver weave.Address, amount uint64) (*Event, error) {
	return l.deposit(ctx, db, owner, receiver, amount, nil)
}

// OnTokenReceived is called when coins were pushed to the ModuleAddress.
// The payload must be the receiver address. The pushed coins are moved into
// the custody of the channel between the sender and that receiver. The
// returned tags describe the fund event.
func (l *Ledger) OnTokenReceived(ctx weave.Context, db weave.KVStore, sender weave.Address, amount uint64, payload []byte) ([]common.KVPair, error) {
	if len(payload) != weave.AddressLength {
		return nil, errors.Wrapf(errors.ErrInput, "payload must be a %d byte receiver address, got %d bytes", weave.AddressLength, len(payload))
	}
	receiver := weave.Address(payload)
	ev, err := l.deposit(ctx, db, sender, receiver, amount, func() error {
		return l.cash.MoveCoins(db, ModuleAddress, ChannelAccount(sender, receiver), amount)
	})
	if err != nil {
		return nil, err
	}
	return ev.Tags(), nil
}

// deposit validates that the channel can be funded, calls move and books
// the deposit. move is not called when the channel cannot be funded.
func (l *Ledger) deposit(ctx weave.Context, db weave.KVStore, owner, receiver weave.Address, amount uint64, move func() error) (*Event, error) {
	if amount == 0 {
		return nil, errors.Wrap(ErrCapacity, "deposit must be positive")
	}
	if err := validatePair(owner, receiver); err != nil {
		return nil, err
	}

	ch, err := l.bucket.Channel(db, owner, receiver)
	switch {
	case errors.ErrNotFound.Is(err):
		ch = &Channel{Owner: owner, Receiver: receiver}
	case err != nil:
		return nil, err
	case ch.Closed:
		return nil, errors.Wrap(ErrClosedChannel, "cannot fund")
	}

	total := ch.Deposited + amount
	if total < ch.Deposited {
		return nil, errors.Wrap(errors.ErrOverflow, "deposited")
	}
	if move != nil {
		if err := move(); err != nil {
			return nil, errors.Wrap(err, "cannot move deposit")
		}
	}
	ch.Deposited = total
	if err := l.bucket.Save(db, ch); err != nil {
		return nil, errors.Wrap(err, "save channel")
	}

	logger(ctx, owner, receiver).Debug("channel funded", "amount", amount, "deposited", ch.Deposited)
	return &Event{Action: ActionFund, Owner: owner, Receiver: receiver, Amount: amount}, nil
}

// Withdraw redeems a claim signed by the owner. The receiver is paid the
// difference between amount and the previously withdrawn amount.
func (l *Ledger) Withdraw(ctx weave.Context, db weave.KVStore, owner, receiver weave.Address, amount uint64, sig crypto.Signature) (*Event, error) {
	ch, err := l.bucket.Channel(db, owner, receiver)
	if err != nil {
		return nil, err
	}
	if ch.Closed {
		return nil, errors.Wrap(ErrClosedChannel, "cannot withdraw")
	}
	if amount <= ch.Withdrawn {
		return nil, errors.Wrapf(ErrStaleClaim, "claim of %d, already withdrawn %d", amount, ch.Withdrawn)
	}
	if amount > ch.Deposited {
		return nil, errors.Wrapf(ErrCapacity, "claim of %d, deposited %d", amount, ch.Deposited)
	}
	if !crypto.VerifyClaim(owner, receiver, amount, sig) {
		return nil, errors.Wrap(ErrInvalidClaim, "not signed by the owner")
	}

	delta := amount - ch.Withdrawn
	if err := l.cash.MoveCoins(db, ChannelAccount(owner, receiver), receiver, delta); err != nil {
		return nil, errors.Wrap(err, "cannot pay receiver")
	}
	ch.Withdrawn = amount
	if err := l.bucket.Save(db, ch); err != nil {
		return nil, errors.Wrap(err, "save channel")
	}

	logger(ctx, owner, receiver).Debug("claim redeemed", "paid", delta, "withdrawn", amount)
	return &Event{Action: ActionWithdraw, Owner: owner, Receiver: receiver, Amount: delta}, nil
}

// Unlock starts the dispute window. When it elapses, the owner can close
// the channel.
func (l *Ledger) Unlock(ctx weave.Context, db weave.KVStore, owner, receiver weave.Address) (*Event, error) {
	ch, err := l.bucket.Channel(db, owner, receiver)
	if err != nil {
		return nil, err
	}
	if ch.Closed {
		return nil, errors.Wrap(ErrClosedChannel, "cannot unlock")
	}
	if ch.UnlockAt != 0 {
		return nil, errors.Wrapf(ErrTimelock, "already unlocking until %s", ch.UnlockAt)
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}

	ch.UnlockAt = blockNow(ctx).Add(conf.DisputeWindow.Duration())
	if err := l.bucket.Save(db, ch); err != nil {
		return nil, errors.Wrap(err, "save channel")
	}

	logger(ctx, owner, receiver).Debug("channel unlocked", "unlock_at", ch.UnlockAt)
	return &Event{Action: ActionUnlock, Owner: owner, Receiver: receiver}, nil
}

// Close returns the remaining deposit to the owner and closes the channel.
// It is allowed only after the dispute window started by Unlock elapsed.
func (l *Ledger) Close(ctx weave.Context, db weave.KVStore, owner, receiver weave.Address) (*Event, error) {
	ch, err := l.bucket.Channel(db, owner, receiver)
	if err != nil {
		return nil, err
	}
	if ch.Closed {
		return nil, errors.Wrap(ErrClosedChannel, "cannot close")
	}
	if ch.UnlockAt == 0 {
		return nil, errors.Wrap(ErrTimelock, "channel was not unlocked")
	}
	if !weave.IsExpired(ctx, ch.UnlockAt) {
		return nil, errors.Wrapf(ErrTimelock, "dispute window open until %s", ch.UnlockAt)
	}
	return l.settle(ctx, db, ch, ActionClose)
}

// ForceClose closes the channel immediately. The receiver accepts the
// amount withdrawn so far as final and the remaining deposit is refunded to
// the owner.
func (l *Ledger) ForceClose(ctx weave.Context, db weave.KVStore, owner, receiver weave.Address) (*Event, error) {
	ch, err := l.bucket.Channel(db, owner, receiver)
	if err != nil {
		return nil, err
	}
	if ch.Closed {
		return nil, errors.Wrap(ErrClosedChannel, "cannot force close")
	}
	return l.settle(ctx, db, ch, ActionForceClose)
}

// settle refunds the remaining deposit to the owner and closes the channel.
func (l *Ledger) settle(ctx weave.Context, db weave.KVStore, ch *Channel, action string) (*Event, error) {
	refund := ch.Remaining()
	if refund > 0 {
		if err := l.cash.MoveCoins(db, ChannelAccount(ch.Owner, ch.Receiver), ch.Owner, refund); err != nil {
			return nil, errors.Wrap(err, "cannot refund owner")
		}
	}
	ch.Closed = true
	if err := l.bucket.Save(db, ch); err != nil {
		return nil, errors.Wrap(err, "save channel")
	}

	logger(ctx, ch.Owner, ch.Receiver).Debug("channel closed", "action", action, "refund", refund)
	return &Event{Action: action, Owner: ch.Owner, Receiver: ch.Receiver, Amount: refund}, nil
}

// Channel returns the state of the channel between owner and receiver.
func (l *Ledger) Channel(db weave.ReadOnlyKVStore, owner, receiver weave.Address) (*Channel, error) {
	return l.bucket.Channel(db, owner, receiver)
}

// IsLocked returns true if the owner did not request the channel to be
// closed yet.
func (l *Ledger) IsLocked(db weave.ReadOnlyKVStore, owner, receiver weave.Address) (bool, error) {
	ch, err := l.bucket.Channel(db, owner, receiver)
	if err != nil {
		return false, err
	}
	return !ch.Closed && ch.UnlockAt == 0, nil
}

// IsTimeLocked returns true if the channel is unlocked and the dispute
// window has not elapsed yet.
func (l *Ledger) IsTimeLocked(ctx weave.Context, db weave.ReadOnlyKVStore, owner, receiver weave.Address) (bool, error) {
	ch, err := l.bucket.Channel(db, owner, receiver)
	if err != nil {
		return false, err
	}
	if ch.Closed || ch.UnlockAt == 0 {
		return false, nil
	}
	return !weave.IsExpired(ctx, ch.UnlockAt), nil
}

// Deposited returns the total amount ever deposited into the channel.
func (l *Ledger) Deposited(db weave.ReadOnlyKVStore, owner, receiver weave.Address) (uint64, error) {
	ch, err := l.bucket.Channel(db, owner, receiver)
	if err != nil {
		return 0, err
	}
	return ch.Deposited, nil
}

// Withdrawn returns the total amount paid to the receiver.
func (l *Ledger) Withdrawn(db weave.ReadOnlyKVStore, owner, receiver weave.Address) (uint64, error) {
	ch, err := l.bucket.Channel(db, owner, receiver)
	if err != nil {
		return 0, err
	}
	return ch.Withdrawn, nil
}

// IsValidSig returns true if sig is the owner signature of a claim of
// amount for receiver.
func (l *Ledger) IsValidSig(owner, receiver weave.Address, amount uint64, sig crypto.Signature) bool {
	return crypto.VerifyClaim(owner, receiver, amount, sig)
}

// ChannelsByOwner returns all channels funded by given owner, including the
// closed ones.
func (l *Ledger) ChannelsByOwner(db weave.ReadOnlyKVStore, owner weave.Address) ([]*Channel, error) {
	return l.bucket.ByOwner(db, owner)
}

// Balance returns the amount of coins held in the channel custody account.
func (l *Ledger) Balance(db weave.ReadOnlyKVStore, owner, receiver weave.Address) (uint64, error) {
	return l.cash.Balance(db, ChannelAccount(owner, receiver))
}

func validatePair(owner, receiver weave.Address) error {
	if err := owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := receiver.Validate(); err != nil {
		return errors.Wrap(err, "receiver")
	}
	if owner.Equals(receiver) {
		return errors.Wrap(errors.ErrInput, "owner cannot pay self")
	}
	return nil
}

// blockNow returns the time of the current block. It panics if the block
// time is not present, which is a setup error.
func blockNow(ctx weave.Context) weave.UnixTime {
	now, ok := weave.BlockTime(ctx)
	if !ok {
		panic("block time is not present")
	}
	return weave.AsUnixTime(now)
}

func logger(ctx weave.Context, owner, receiver weave.Address) log.Logger {
	return weave.GetLogger(ctx).With("owner", owner, "receiver", receiver)
}
