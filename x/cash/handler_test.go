package cash

import (
	"context"
	"testing"

	"github.com/iov-one/weave-paychan"
	"github.com/iov-one/weave-paychan/app"
	"github.com/iov-one/weave-paychan/errors"
	"github.com/iov-one/weave-paychan/store"
	"github.com/iov-one/weave-paychan/weavetest"
	"github.com/iov-one/weave-paychan/weavetest/assert"
	"github.com/tendermint/tendermint/libs/common"
)

// recordingReceiver records every notification and optionally fails.
type recordingReceiver struct {
	err     error
	senders []weave.Address
	amounts []uint64
	payload []byte
}

func (r *recordingReceiver) OnTokenReceived(ctx weave.Context, db weave.KVStore, sender weave.Address, amount uint64, payload []byte) ([]common.KVPair, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.senders = append(r.senders, sender)
	r.amounts = append(r.amounts, amount)
	r.payload = payload
	return []common.KVPair{{Key: []byte("received"), Value: payload}}, nil
}

func TestCashHandlers(t *testing.T) {
	alice := weavetest.NewCondition()
	bob := weavetest.NewCondition()
	hook := weavetest.NewCondition().Address()

	cases := map[string]struct {
		signer        weave.Condition
		msg           weave.Msg
		receiver      *recordingReceiver
		wantCheck     *errors.Error
		wantErr       *errors.Error
		wantAlice     uint64
		wantBob       uint64
		wantHook      uint64
		wantAllowance uint64
	}{
		"send": {
			signer:    alice,
			msg:       &SendMsg{Source: alice.Address(), Destination: bob.Address(), Amount: 10},
			wantAlice: 90,
			wantBob:   10,
		},
		"send requires the source signature": {
			signer:    bob,
			msg:       &SendMsg{Source: alice.Address(), Destination: bob.Address(), Amount: 10},
			wantCheck: errors.ErrUnauthorized,
			wantErr:   errors.ErrUnauthorized,
			wantAlice: 100,
		},
		"send more than owned": {
			signer:    alice,
			msg:       &SendMsg{Source: alice.Address(), Destination: bob.Address(), Amount: 101},
			wantErr:   errors.ErrAmount,
			wantAlice: 100,
		},
		"invalid message": {
			signer:    alice,
			msg:       &SendMsg{Source: alice.Address(), Amount: 1},
			wantCheck: errors.ErrEmpty,
			wantErr:   errors.ErrEmpty,
			wantAlice: 100,
		},
		"approve": {
			signer:        alice,
			msg:           &ApproveMsg{Owner: alice.Address(), Spender: bob.Address(), Amount: 33},
			wantAlice:     100,
			wantAllowance: 33,
		},
		"approve requires the owner signature": {
			signer:    bob,
			msg:       &ApproveMsg{Owner: alice.Address(), Spender: bob.Address(), Amount: 33},
			wantCheck: errors.ErrUnauthorized,
			wantErr:   errors.ErrUnauthorized,
			wantAlice: 100,
		},
		"transfer and call": {
			signer:    alice,
			msg:       &TransferAndCallMsg{Sender: alice.Address(), Recipient: hook, Amount: 25, Payload: []byte("x")},
			receiver:  &recordingReceiver{},
			wantAlice: 75,
			wantHook:  25,
		},
		"transfer and call to an address without a receiver": {
			signer:    alice,
			msg:       &TransferAndCallMsg{Sender: alice.Address(), Recipient: bob.Address(), Amount: 25},
			receiver:  &recordingReceiver{},
			wantCheck: errors.ErrInput,
			wantErr:   errors.ErrInput,
			wantAlice: 100,
		},
		"failing receiver reverts the transfer": {
			signer:    alice,
			msg:       &TransferAndCallMsg{Sender: alice.Address(), Recipient: hook, Amount: 25},
			receiver:  &recordingReceiver{err: errors.ErrState},
			wantErr:   errors.ErrState,
			wantAlice: 100,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController()
			assert.Nil(t, ctrl.IssueCoins(db, alice.Address(), 100))

			auth := &weavetest.CtxAuth{Key: "auth"}
			ctx := auth.SetConditions(context.Background(), tc.signer)

			receivers := NewReceivers()
			if tc.receiver != nil {
				receivers.Register(hook, tc.receiver)
			}
			rt := app.NewRouter()
			RegisterRoutes(rt, auth, ctrl, receivers)

			tx := &weavetest.Tx{Msg: tc.msg}
			_, err := rt.Check(ctx, db.CacheWrap(), tx)
			if !tc.wantCheck.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}

			// Deliver the way a savepoint would.
			cache := db.CacheWrap()
			res, err := rt.Deliver(ctx, cache, tx)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
			if err == nil {
				assert.Nil(t, cache.Write())
			} else {
				cache.Discard()
			}

			for addr, want := range map[string]uint64{
				"alice": tc.wantAlice,
				"bob":   tc.wantBob,
				"hook":  tc.wantHook,
			} {
				a := map[string]weave.Address{"alice": alice.Address(), "bob": bob.Address(), "hook": hook}[addr]
				got, err := ctrl.Balance(db, a)
				assert.Nil(t, err)
				if got != want {
					t.Errorf("%s: want balance %d, got %d", addr, want, got)
				}
			}
			allowance, err := ctrl.Allowance(db, alice.Address(), bob.Address())
			assert.Nil(t, err)
			assert.Equal(t, tc.wantAllowance, allowance)

			if tc.receiver != nil && tc.wantErr == nil && tc.wantHook > 0 {
				assert.Equal(t, 1, len(tc.receiver.amounts))
				assert.Equal(t, tc.wantHook, tc.receiver.amounts[0])
				assert.Equal(t, alice.Address(), tc.receiver.senders[0])
				// Receiver tags are part of the transfer result.
				want := []common.KVPair{{Key: []byte("received"), Value: tc.receiver.payload}}
				assert.Equal(t, want, res.Tags)
			}
		})
	}
}

func TestReceiversRegistration(t *testing.T) {
	r := NewReceivers()
	addr := weavetest.NewCondition().Address()
	r.Register(addr, &recordingReceiver{})

	assert.Panics(t, func() { r.Register(addr, &recordingReceiver{}) })
	assert.Panics(t, func() { r.Register(addr[:4], &recordingReceiver{}) })

	if _, ok := r.Lookup(addr); !ok {
		t.Fatal("registered receiver not found")
	}
	if _, ok := r.Lookup(weavetest.NewCondition().Address()); ok {
		t.Fatal("unknown address must not resolve to a receiver")
	}
}
