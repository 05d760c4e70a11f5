package paychan

import (
	"strconv"

	"github.com/iov-one/weave-paychan"
	"github.com/tendermint/tendermint/libs/common"
)

// Actions reported by events.
const (
	ActionFund       = "fund"
	ActionWithdraw   = "withdraw"
	ActionUnlock     = "unlock"
	ActionClose      = "close"
	ActionForceClose = "force_close"
)

// Tag keys used to index channel events.
const (
	TagAction   = "paychan.action"
	TagOwner    = "paychan.owner"
	TagReceiver = "paychan.receiver"
	TagAmount   = "paychan.amount"
)

// Event describes a successful change of a channel.
type Event struct {
	Action   string
	Owner    weave.Address
	Receiver weave.Address
	// Amount is the number of coins moved by the action, if any.
	Amount uint64
}

// Tags returns the event as a list of tags that can be attached to a
// delivery result and searched by.
func (e *Event) Tags() []common.KVPair {
	tags := []common.KVPair{
		{Key: []byte(TagAction), Value: []byte(e.Action)},
		{Key: []byte(TagOwner), Value: []byte(e.Owner.String())},
		{Key: []byte(TagReceiver), Value: []byte(e.Receiver.String())},
	}
	if e.Amount > 0 {
		tags = append(tags, common.KVPair{
			Key:   []byte(TagAmount),
			Value: []byte(strconv.FormatUint(e.Amount, 10)),
		})
	}
	return tags
}
