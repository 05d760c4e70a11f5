package utils

import (
	"github.com/iov-one/weave-paychan"
	"github.com/tendermint/tendermint/libs/common"
)

// ActionKey is the tag key holding the path of the delivered message, for
// example "paychan/withdraw". Clients use it to subscribe to a single kind
// of channel operation.
const ActionKey = "action"

// ActionTagger appends the action tag to the result of every successfully
// delivered transaction. Tags set by the handler, such as the channel owner
// and receiver, are preserved and come first.
type ActionTagger struct{}

var _ weave.Decorator = ActionTagger{}

// NewActionTagger creates a ActionTagger decorator
func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

// Check does not tag anything.
func (ActionTagger) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (ActionTagger) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	// A transaction without a message cannot be tagged, reject it before
	// any state is touched.
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, common.KVPair{
		Key:   []byte(ActionKey),
		Value: []byte(msg.Path()),
	})
	return res, nil
}
