package paychan

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/weave-paychan"
	"github.com/iov-one/weave-paychan/crypto"
	"github.com/iov-one/weave-paychan/errors"
	"github.com/iov-one/weave-paychan/gconf"
	"github.com/iov-one/weave-paychan/store"
	"github.com/iov-one/weave-paychan/weavetest"
	"github.com/iov-one/weave-paychan/weavetest/assert"
	"github.com/iov-one/weave-paychan/x/cash"
)

var now = time.Date(2019, time.May, 5, 12, 0, 0, 0, time.UTC)

// fixture is a ledger with a funded owner ready to open a channel.
type fixture struct {
	db     store.CacheableKVStore
	cash   cash.BaseController
	ledger *Ledger
	owner  *crypto.PrivateKey
	// signer is the condition controlling the receiver address.
	signer   weave.Condition
	receiver weave.Address
}

func newFixture(t testing.TB, balance, allowance uint64) *fixture {
	t.Helper()
	f := &fixture{
		db:     store.MemStore(),
		cash:   cash.NewController(),
		owner:  weavetest.NewKey(),
		signer: weavetest.NewCondition(),
	}
	f.receiver = f.signer.Address()
	f.ledger = NewLedger(NewBucket(), f.cash)
	if balance > 0 {
		assert.Nil(t, f.cash.IssueCoins(f.db, f.owner.Address(), balance))
	}
	if allowance > 0 {
		assert.Nil(t, f.cash.Approve(f.db, f.owner.Address(), ModuleAddress, allowance))
	}
	return f
}

// open funds the channel with amount.
func (f *fixture) open(t testing.TB, amount uint64) {
	t.Helper()
	_, err := f.ledger.Fund(ctxAt(now), f.db, f.owner.Address(), f.receiver, amount)
	assert.Nil(t, err)
}

func (f *fixture) claim(t testing.TB, amount uint64) crypto.Signature {
	t.Helper()
	sig, err := crypto.SignClaim(f.owner, f.owner.Address(), f.receiver, amount)
	assert.Nil(t, err)
	return sig
}

func (f *fixture) balance(t testing.TB, addr weave.Address) uint64 {
	t.Helper()
	b, err := f.cash.Balance(f.db, addr)
	assert.Nil(t, err)
	return b
}

func (f *fixture) channel(t testing.TB) *Channel {
	t.Helper()
	ch, err := f.ledger.Channel(f.db, f.owner.Address(), f.receiver)
	assert.Nil(t, err)
	return ch
}

// assertConserved checks that the custody account holds exactly what was
// deposited and not yet paid out.
func (f *fixture) assertConserved(t testing.TB) {
	t.Helper()
	ch := f.channel(t)
	if ch.Withdrawn > ch.Deposited {
		t.Fatalf("withdrawn %d exceeds deposited %d", ch.Withdrawn, ch.Deposited)
	}
	custody, err := f.ledger.Balance(f.db, ch.Owner, ch.Receiver)
	assert.Nil(t, err)
	assert.Equal(t, ch.Remaining(), custody)
}

func ctxAt(t time.Time) weave.Context {
	return weave.WithBlockTime(context.Background(), t)
}

func TestLedgerFund(t *testing.T) {
	cases := map[string]struct {
		balance   uint64
		allowance uint64
		before    []uint64
		closed    bool
		receiver  weave.Address
		amount    uint64
		wantErr   *errors.Error
		wantTotal uint64
	}{
		"first funding opens the channel": {
			balance:   100,
			allowance: 100,
			amount:    40,
			wantTotal: 40,
		},
		"funding adds to the deposit": {
			balance:   100,
			allowance: 100,
			before:    []uint64{10, 20},
			amount:    30,
			wantTotal: 60,
		},
		"zero amount": {
			balance:   100,
			allowance: 100,
			amount:    0,
			wantErr:   ErrCapacity,
		},
		"more than allowed": {
			balance:   100,
			allowance: 10,
			amount:    11,
			wantErr:   errors.ErrAmount,
		},
		"more than owned": {
			balance:   10,
			allowance: 100,
			amount:    11,
			wantErr:   errors.ErrAmount,
		},
		"closed channel": {
			balance:   100,
			allowance: 100,
			before:    []uint64{10},
			closed:    true,
			amount:    10,
			wantErr:   ErrClosedChannel,
			wantTotal: 10,
		},
		"invalid receiver": {
			balance:   100,
			allowance: 100,
			receiver:  weave.Address("short"),
			amount:    10,
			wantErr:   errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, tc.balance, tc.allowance)
			for _, amount := range tc.before {
				f.open(t, amount)
			}
			if tc.closed {
				_, err := f.ledger.ForceClose(ctxAt(now), f.db, f.owner.Address(), f.receiver)
				assert.Nil(t, err)
			}
			receiver := f.receiver
			if tc.receiver != nil {
				receiver = tc.receiver
			}
			ownerBefore := f.balance(t, f.owner.Address())

			ev, err := f.ledger.Fund(ctxAt(now), f.db, f.owner.Address(), receiver, tc.amount)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if err != nil {
				assert.Equal(t, ownerBefore, f.balance(t, f.owner.Address()))
				if tc.wantTotal == 0 {
					_, err := f.ledger.Channel(f.db, f.owner.Address(), receiver)
					if !errors.ErrNotFound.Is(err) {
						t.Fatalf("failed funding must not create a channel: %+v", err)
					}
				}
				return
			}

			assert.Equal(t, ActionFund, ev.Action)
			assert.Equal(t, tc.amount, ev.Amount)
			assert.Equal(t, ownerBefore-tc.amount, f.balance(t, f.owner.Address()))
			deposited, err := f.ledger.Deposited(f.db, f.owner.Address(), f.receiver)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantTotal, deposited)
			f.assertConserved(t)
		})
	}
}

func TestLedgerWithdraw(t *testing.T) {
	stranger := weavetest.NewKey()

	cases := map[string]struct {
		withdrawn    uint64
		closed       bool
		amount       uint64
		sig          func(*fixture) crypto.Signature
		wantErr      *errors.Error
		wantPaid     uint64
		wantReceived uint64
	}{
		"first claim": {
			amount:       30,
			wantPaid:     30,
			wantReceived: 30,
		},
		"only the difference is paid": {
			withdrawn:    30,
			amount:       45,
			wantPaid:     15,
			wantReceived: 45,
		},
		"claim of the whole deposit": {
			amount:       100,
			wantPaid:     100,
			wantReceived: 100,
		},
		"replayed claim": {
			withdrawn:    30,
			amount:       30,
			wantErr:      ErrStaleClaim,
			wantReceived: 30,
		},
		"older claim": {
			withdrawn:    30,
			amount:       20,
			wantErr:      ErrStaleClaim,
			wantReceived: 30,
		},
		"claim above the deposit": {
			amount:  101,
			wantErr: ErrCapacity,
		},
		"claim signed by a stranger": {
			amount: 10,
			sig: func(f *fixture) crypto.Signature {
				sig, _ := crypto.SignClaim(stranger, f.owner.Address(), f.receiver, 10)
				return sig
			},
			wantErr: ErrInvalidClaim,
		},
		"claim signed for a different amount": {
			amount: 10,
			sig: func(f *fixture) crypto.Signature {
				sig, _ := crypto.SignClaim(f.owner, f.owner.Address(), f.receiver, 9)
				return sig
			},
			wantErr: ErrInvalidClaim,
		},
		"claim signed for a different receiver": {
			amount: 10,
			sig: func(f *fixture) crypto.Signature {
				other := weavetest.NewCondition().Address()
				sig, _ := crypto.SignClaim(f.owner, f.owner.Address(), other, 10)
				return sig
			},
			wantErr: ErrInvalidClaim,
		},
		"ethereum style recovery byte": {
			amount: 10,
			sig: func(f *fixture) crypto.Signature {
				sig, _ := crypto.SignClaim(f.owner, f.owner.Address(), f.receiver, 10)
				sig[64] += 27
				return sig
			},
			wantPaid:     10,
			wantReceived: 10,
		},
		"closed channel": {
			closed:  true,
			amount:  10,
			wantErr: ErrClosedChannel,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, 100, 100)
			f.open(t, 100)
			if tc.withdrawn > 0 {
				_, err := f.ledger.Withdraw(ctxAt(now), f.db, f.owner.Address(), f.receiver, tc.withdrawn, f.claim(t, tc.withdrawn))
				assert.Nil(t, err)
			}
			if tc.closed {
				_, err := f.ledger.ForceClose(ctxAt(now), f.db, f.owner.Address(), f.receiver)
				assert.Nil(t, err)
			}
			sig := f.claim(t, tc.amount)
			if tc.sig != nil {
				sig = tc.sig(f)
			}

			ev, err := f.ledger.Withdraw(ctxAt(now), f.db, f.owner.Address(), f.receiver, tc.amount, sig)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if err == nil {
				assert.Equal(t, ActionWithdraw, ev.Action)
				assert.Equal(t, tc.wantPaid, ev.Amount)
				withdrawn, err := f.ledger.Withdrawn(f.db, f.owner.Address(), f.receiver)
				assert.Nil(t, err)
				assert.Equal(t, tc.amount, withdrawn)
			}
			assert.Equal(t, tc.wantReceived, f.balance(t, f.receiver))
			if !tc.closed {
				f.assertConserved(t)
			}
		})
	}
}

func TestLedgerWithdrawUnknownChannel(t *testing.T) {
	f := newFixture(t, 100, 100)
	_, err := f.ledger.Withdraw(ctxAt(now), f.db, f.owner.Address(), f.receiver, 10, f.claim(t, 10))
	if !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found, got %+v", err)
	}
}

func TestLedgerDisputeWindow(t *testing.T) {
	window := DefaultDisputeWindow

	cases := map[string]struct {
		unlock    bool
		closeAt   time.Time
		wantErr   *errors.Error
		wantOwner uint64
	}{
		"close without unlock": {
			closeAt:   now.Add(24 * time.Hour),
			wantErr:   ErrTimelock,
			wantOwner: 0,
		},
		"close right after unlock": {
			unlock:    true,
			closeAt:   now,
			wantErr:   ErrTimelock,
			wantOwner: 0,
		},
		"close a second before the window elapses": {
			unlock:    true,
			closeAt:   now.Add(window - time.Second),
			wantErr:   ErrTimelock,
			wantOwner: 0,
		},
		"close when the window elapses": {
			unlock:    true,
			closeAt:   now.Add(window),
			wantOwner: 70,
		},
		"close long after the window elapsed": {
			unlock:    true,
			closeAt:   now.Add(30 * 24 * time.Hour),
			wantOwner: 70,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, 100, 100)
			f.open(t, 100)
			_, err := f.ledger.Withdraw(ctxAt(now), f.db, f.owner.Address(), f.receiver, 30, f.claim(t, 30))
			assert.Nil(t, err)

			if tc.unlock {
				ev, err := f.ledger.Unlock(ctxAt(now), f.db, f.owner.Address(), f.receiver)
				assert.Nil(t, err)
				assert.Equal(t, ActionUnlock, ev.Action)
				assert.Equal(t, weave.AsUnixTime(now.Add(window)), f.channel(t).UnlockAt)
			}

			ev, err := f.ledger.Close(ctxAt(tc.closeAt), f.db, f.owner.Address(), f.receiver)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			assert.Equal(t, tc.wantOwner, f.balance(t, f.owner.Address()))
			if err == nil {
				assert.Equal(t, ActionClose, ev.Action)
				assert.Equal(t, tc.wantOwner, ev.Amount)
				ch := f.channel(t)
				assert.Equal(t, true, ch.Closed)
				assert.Equal(t, uint64(30), ch.Withdrawn)
				custody, err := f.ledger.Balance(f.db, ch.Owner, ch.Receiver)
				assert.Nil(t, err)
				assert.Equal(t, uint64(0), custody)
			}
		})
	}
}

func TestLedgerUnlockTwice(t *testing.T) {
	f := newFixture(t, 100, 100)
	f.open(t, 100)

	_, err := f.ledger.Unlock(ctxAt(now), f.db, f.owner.Address(), f.receiver)
	assert.Nil(t, err)
	_, err = f.ledger.Unlock(ctxAt(now.Add(time.Minute)), f.db, f.owner.Address(), f.receiver)
	if !ErrTimelock.Is(err) {
		t.Fatalf("want timelock error, got %+v", err)
	}
	// The second call must not extend the window.
	assert.Equal(t, weave.AsUnixTime(now.Add(DefaultDisputeWindow)), f.channel(t).UnlockAt)
}

func TestLedgerUnlockUsesConfiguredWindow(t *testing.T) {
	f := newFixture(t, 100, 100)
	f.open(t, 100)
	conf := Configuration{DisputeWindow: weave.AsUnixDuration(10 * time.Minute)}
	assert.Nil(t, gconf.Save(f.db, packageName, &conf))

	_, err := f.ledger.Unlock(ctxAt(now), f.db, f.owner.Address(), f.receiver)
	assert.Nil(t, err)
	assert.Equal(t, weave.AsUnixTime(now.Add(10*time.Minute)), f.channel(t).UnlockAt)
}

func TestLedgerWithdrawDuringDisputeWindow(t *testing.T) {
	f := newFixture(t, 100, 100)
	f.open(t, 100)
	_, err := f.ledger.Unlock(ctxAt(now), f.db, f.owner.Address(), f.receiver)
	assert.Nil(t, err)

	later := now.Add(DefaultDisputeWindow / 2)
	_, err = f.ledger.Withdraw(ctxAt(later), f.db, f.owner.Address(), f.receiver, 60, f.claim(t, 60))
	assert.Nil(t, err)
	assert.Equal(t, uint64(60), f.balance(t, f.receiver))

	_, err = f.ledger.Close(ctxAt(now.Add(DefaultDisputeWindow)), f.db, f.owner.Address(), f.receiver)
	assert.Nil(t, err)
	assert.Equal(t, uint64(40), f.balance(t, f.owner.Address()))
}

func TestLedgerForceClose(t *testing.T) {
	cases := map[string]struct {
		unlock    bool
		withdrawn uint64
		wantOwner uint64
	}{
		"open channel": {
			withdrawn: 25,
			wantOwner: 75,
		},
		"unlocking channel": {
			unlock:    true,
			withdrawn: 25,
			wantOwner: 75,
		},
		"fully withdrawn channel": {
			withdrawn: 100,
			wantOwner: 0,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, 100, 100)
			f.open(t, 100)
			if tc.withdrawn > 0 {
				_, err := f.ledger.Withdraw(ctxAt(now), f.db, f.owner.Address(), f.receiver, tc.withdrawn, f.claim(t, tc.withdrawn))
				assert.Nil(t, err)
			}
			if tc.unlock {
				_, err := f.ledger.Unlock(ctxAt(now), f.db, f.owner.Address(), f.receiver)
				assert.Nil(t, err)
			}

			ev, err := f.ledger.ForceClose(ctxAt(now), f.db, f.owner.Address(), f.receiver)
			assert.Nil(t, err)
			assert.Equal(t, ActionForceClose, ev.Action)
			assert.Equal(t, tc.wantOwner, ev.Amount)
			assert.Equal(t, tc.wantOwner, f.balance(t, f.owner.Address()))
			assert.Equal(t, tc.withdrawn, f.balance(t, f.receiver))
			assert.Equal(t, true, f.channel(t).Closed)
		})
	}
}

func TestLedgerClosedChannelIsRetired(t *testing.T) {
	f := newFixture(t, 200, 200)
	f.open(t, 100)
	_, err := f.ledger.ForceClose(ctxAt(now), f.db, f.owner.Address(), f.receiver)
	assert.Nil(t, err)
	later := ctxAt(now.Add(48 * time.Hour))

	calls := map[string]func() error{
		"fund": func() error {
			_, err := f.ledger.Fund(later, f.db, f.owner.Address(), f.receiver, 10)
			return err
		},
		"withdraw": func() error {
			_, err := f.ledger.Withdraw(later, f.db, f.owner.Address(), f.receiver, 10, f.claim(t, 10))
			return err
		},
		"unlock": func() error {
			_, err := f.ledger.Unlock(later, f.db, f.owner.Address(), f.receiver)
			return err
		},
		"close": func() error {
			_, err := f.ledger.Close(later, f.db, f.owner.Address(), f.receiver)
			return err
		},
		"force close": func() error {
			_, err := f.ledger.ForceClose(later, f.db, f.owner.Address(), f.receiver)
			return err
		},
		"push deposit": func() error {
			assert.Nil(t, f.cash.MoveCoins(f.db, f.owner.Address(), ModuleAddress, 10))
			_, err := f.ledger.OnTokenReceived(later, f.db, f.owner.Address(), 10, f.receiver)
			return err
		},
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			before := *f.channel(t)
			if err := call(); !ErrClosedChannel.Is(err) {
				t.Fatalf("want closed channel error, got %+v", err)
			}
			assert.Equal(t, before, *f.channel(t))
		})
	}
}

func TestLedgerQueries(t *testing.T) {
	f := newFixture(t, 100, 100)
	owner, receiver := f.owner.Address(), f.receiver

	_, err := f.ledger.IsLocked(f.db, owner, receiver)
	if !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found, got %+v", err)
	}
	_, err = f.ledger.IsTimeLocked(ctxAt(now), f.db, owner, receiver)
	if !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found, got %+v", err)
	}
	_, err = f.ledger.Deposited(f.db, owner, receiver)
	if !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found, got %+v", err)
	}

	assertState := func(t *testing.T, at time.Time, wantLocked, wantTimeLocked bool) {
		t.Helper()
		locked, err := f.ledger.IsLocked(f.db, owner, receiver)
		assert.Nil(t, err)
		assert.Equal(t, wantLocked, locked)
		timeLocked, err := f.ledger.IsTimeLocked(ctxAt(at), f.db, owner, receiver)
		assert.Nil(t, err)
		assert.Equal(t, wantTimeLocked, timeLocked)
	}

	f.open(t, 100)
	assertState(t, now, true, false)

	_, err = f.ledger.Unlock(ctxAt(now), f.db, owner, receiver)
	assert.Nil(t, err)
	assertState(t, now, false, true)
	assertState(t, now.Add(DefaultDisputeWindow), false, false)

	_, err = f.ledger.Close(ctxAt(now.Add(DefaultDisputeWindow)), f.db, owner, receiver)
	assert.Nil(t, err)
	assertState(t, now, false, false)

	sig := f.claim(t, 10)
	assert.Equal(t, true, f.ledger.IsValidSig(owner, receiver, 10, sig))
	assert.Equal(t, false, f.ledger.IsValidSig(owner, receiver, 11, sig))
	assert.Equal(t, false, f.ledger.IsValidSig(receiver, owner, 10, sig))
}

func TestLedgerChannelsByOwner(t *testing.T) {
	f := newFixture(t, 100, 100)
	other := weavetest.NewCondition().Address()
	f.open(t, 10)
	_, err := f.ledger.Fund(ctxAt(now), f.db, f.owner.Address(), other, 20)
	assert.Nil(t, err)

	chans, err := f.ledger.ChannelsByOwner(f.db, f.owner.Address())
	assert.Nil(t, err)
	assert.Equal(t, 2, len(chans))
	var total uint64
	for _, ch := range chans {
		assert.Equal(t, f.owner.Address(), ch.Owner)
		total += ch.Deposited
	}
	assert.Equal(t, uint64(30), total)

	chans, err = f.ledger.ChannelsByOwner(f.db, f.receiver)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(chans))
}

func TestLedgerOnTokenReceived(t *testing.T) {
	cases := map[string]struct {
		payload  func(*fixture) []byte
		wantErr  *errors.Error
		wantSeen uint64
	}{
		"receiver in payload": {
			payload:  func(f *fixture) []byte { return f.receiver },
			wantSeen: 40,
		},
		"empty payload": {
			payload: func(f *fixture) []byte { return nil },
			wantErr: errors.ErrInput,
		},
		"payload too long": {
			payload: func(f *fixture) []byte { return append(append([]byte{}, f.receiver...), 0) },
			wantErr: errors.ErrInput,
		},
		"payload naming the sender": {
			payload: func(f *fixture) []byte { return f.owner.Address() },
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, 100, 0)
			// Pushed coins land on the module account before the callback.
			assert.Nil(t, f.cash.MoveCoins(f.db, f.owner.Address(), ModuleAddress, 40))

			tags, err := f.ledger.OnTokenReceived(ctxAt(now), f.db, f.owner.Address(), 40, tc.payload(f))
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if err != nil {
				assert.Nil(t, tags)
				return
			}
			ev := Event{Action: ActionFund, Owner: f.owner.Address(), Receiver: f.receiver, Amount: 40}
			assert.Equal(t, ev.Tags(), tags)
			assert.Equal(t, uint64(0), f.balance(t, ModuleAddress))
			assert.Equal(t, tc.wantSeen, f.channel(t).Deposited)
			f.assertConserved(t)
		})
	}
}

func TestPushAndPullFundingAreEquivalent(t *testing.T) {
	pull := newFixture(t, 100, 100)
	ev, err := pull.ledger.Fund(ctxAt(now), pull.db, pull.owner.Address(), pull.receiver, 70)
	assert.Nil(t, err)

	push := newFixture(t, 100, 0)
	assert.Nil(t, push.cash.MoveCoins(push.db, push.owner.Address(), ModuleAddress, 70))
	tags, err := push.ledger.OnTokenReceived(ctxAt(now), push.db, push.owner.Address(), 70, push.receiver)
	assert.Nil(t, err)

	// Both report the same fund event, each for its own parties.
	assert.Equal(t, ActionFund, ev.Action)
	assert.Equal(t, uint64(70), ev.Amount)
	want := Event{Action: ActionFund, Owner: push.owner.Address(), Receiver: push.receiver, Amount: 70}
	assert.Equal(t, want.Tags(), tags)
	assert.Equal(t, TagAction, string(tags[0].Key))
	assert.Equal(t, ActionFund, string(tags[0].Value))
	assert.Equal(t, push.owner.Address().String(), string(tags[1].Value))
	assert.Equal(t, push.receiver.String(), string(tags[2].Value))
	assert.Equal(t, len(ev.Tags()), len(tags))

	a, b := pull.channel(t), push.channel(t)
	assert.Equal(t, a.Deposited, b.Deposited)
	assert.Equal(t, a.Withdrawn, b.Withdrawn)
	assert.Equal(t, a.UnlockAt, b.UnlockAt)
	assert.Equal(t, a.Closed, b.Closed)
	assert.Equal(t, pull.balance(t, pull.owner.Address()), push.balance(t, push.owner.Address()))
}
