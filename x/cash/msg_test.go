package cash

import (
	"testing"

	"github.com/iov-one/weave-paychan"
	"github.com/iov-one/weave-paychan/errors"
	"github.com/iov-one/weave-paychan/weavetest"
	"github.com/iov-one/weave-paychan/weavetest/assert"
)

func TestSendMsgValidate(t *testing.T) {
	addr := weavetest.NewCondition().Address()
	other := weavetest.NewCondition().Address()

	cases := map[string]struct {
		msg  weave.Msg
		errs map[string]*errors.Error
	}{
		"valid send": {
			msg: &SendMsg{Source: addr, Destination: other, Amount: 5, Memo: "coffee"},
			errs: map[string]*errors.Error{
				"Source":      nil,
				"Destination": nil,
				"Amount":      nil,
				"Memo":        nil,
			},
		},
		"invalid send": {
			msg: &SendMsg{Source: addr[:3], Memo: string(make([]byte, maxMemoSize+1))},
			errs: map[string]*errors.Error{
				"Source":      errors.ErrInput,
				"Destination": errors.ErrEmpty,
				"Amount":      errors.ErrAmount,
				"Memo":        errors.ErrInput,
			},
		},
		"valid approve": {
			msg: &ApproveMsg{Owner: addr, Spender: other},
			errs: map[string]*errors.Error{
				"Owner":   nil,
				"Spender": nil,
			},
		},
		"approve self": {
			msg: &ApproveMsg{Owner: addr, Spender: addr, Amount: 1},
			errs: map[string]*errors.Error{
				"Owner":   nil,
				"Spender": errors.ErrInput,
			},
		},
		"valid transfer and call": {
			msg: &TransferAndCallMsg{Sender: addr, Recipient: other, Amount: 1, Payload: other},
			errs: map[string]*errors.Error{
				"Sender":    nil,
				"Recipient": nil,
				"Amount":    nil,
				"Payload":   nil,
			},
		},
		"invalid transfer and call": {
			msg: &TransferAndCallMsg{Payload: make([]byte, maxPayloadSize+1)},
			errs: map[string]*errors.Error{
				"Sender":    errors.ErrEmpty,
				"Recipient": errors.ErrEmpty,
				"Amount":    errors.ErrAmount,
				"Payload":   errors.ErrInput,
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			for field, wantErr := range tc.errs {
				assert.FieldError(t, err, field, wantErr)
			}
		})
	}
}

func TestMsgSerialization(t *testing.T) {
	msg := TransferAndCallMsg{
		Sender:    weavetest.NewCondition().Address(),
		Recipient: weavetest.NewCondition().Address(),
		Amount:    1234,
		Payload:   []byte("receiver"),
	}
	raw, err := msg.Marshal()
	assert.Nil(t, err)

	var got TransferAndCallMsg
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, msg, got)

	// A send message has no payload field, so the payload bytes of the
	// same wire data are ignored.
	var send SendMsg
	assert.Nil(t, send.Unmarshal(raw))
	assert.Equal(t, msg.Amount, send.Amount)
	assert.Equal(t, "receiver", send.Memo)
}
