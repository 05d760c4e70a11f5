package cash

import (
	"fmt"

	"github.com/iov-one/weave-paychan"
	"github.com/tendermint/tendermint/libs/common"
)

// TokenReceiver is notified about coins pushed to its address with
// TransferAndCallMsg. It is called after the coins were credited to the
// receiver address. Returned tags are attached to the delivery result.
// Returning an error reverts the whole transfer.
type TokenReceiver interface {
	OnTokenReceived(ctx weave.Context, db weave.KVStore, sender weave.Address, amount uint64, payload []byte) ([]common.KVPair, error)
}

// Receivers maps addresses to the TokenReceiver notified when coins are
// pushed to them. Only registered addresses can be the recipient of a
// TransferAndCallMsg.
type Receivers struct {
	byAddr map[string]TokenReceiver
}

// NewReceivers returns an empty registry.
func NewReceivers() *Receivers {
	return &Receivers{byAddr: make(map[string]TokenReceiver)}
}

// Register binds the receiver to given address. It panics if the address is
// invalid or already taken, as both are setup errors.
func (r *Receivers) Register(addr weave.Address, rcv TokenReceiver) {
	if err := addr.Validate(); err != nil {
		panic(fmt.Sprintf("invalid receiver address: %s", err))
	}
	if _, ok := r.byAddr[string(addr)]; ok {
		panic(fmt.Sprintf("receiver already registered: %s", addr))
	}
	r.byAddr[string(addr)] = rcv
}

// Lookup returns the receiver registered for given address, if any.
func (r *Receivers) Lookup(addr weave.Address) (TokenReceiver, bool) {
	rcv, ok := r.byAddr[string(addr)]
	return rcv, ok
}
