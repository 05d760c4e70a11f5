package weavetest

import (
	"testing"

	"github.com/iov-one/weave-paychan"
	"github.com/iov-one/weave-paychan/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/common"
)

func TestHandlerWithError(t *testing.T) {
	h := Handler{
		CheckErr:   errors.ErrUnauthorized,
		DeliverErr: errors.ErrNotFound,
	}

	_, err := h.Check(nil, nil, nil)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	_, err = h.Deliver(nil, nil, nil)
	assert.True(t, errors.ErrNotFound.Is(err))
	assert.Equal(t, 2, h.CallCount())
}

func TestHandlerCallCount(t *testing.T) {
	var h Handler
	for i := 0; i < 3; i++ {
		_, _ = h.Check(nil, nil, nil)
	}
	_, _ = h.Deliver(nil, nil, nil)

	assert.Equal(t, 3, h.CheckCallCount())
	assert.Equal(t, 1, h.DeliverCallCount())
	assert.Equal(t, 4, h.CallCount())
}

func TestHandlerResultIsACopy(t *testing.T) {
	h := Handler{
		DeliverResult: weave.DeliverResult{
			Log:  "funded",
			Tags: []common.KVPair{{Key: []byte("owner"), Value: []byte("01")}},
		},
	}

	res, err := h.Deliver(nil, nil, nil)
	require.NoError(t, err)
	res.Log = "changed"
	res.Tags[0].Value = []byte("02")
	res.Tags = append(res.Tags, common.KVPair{Key: []byte("action")})

	again, err := h.Deliver(nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "funded", again.Log)
	assert.Len(t, again.Tags, 1)
	assert.Equal(t, []byte("01"), again.Tags[0].Value)
}
