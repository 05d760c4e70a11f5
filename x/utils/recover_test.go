package utils

import (
	"context"
	"testing"

	"github.com/iov-one/weave-paychan"
	"github.com/iov-one/weave-paychan/errors"
	"github.com/iov-one/weave-paychan/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecovery(t *testing.T) {
	ctx := context.Background()
	db := store.MemStore()
	r := NewRecovery()

	_, err := r.Check(ctx, db, nil, panicHandler{})
	assert.True(t, errors.ErrPanic.Is(err), "check: %+v", err)
	assert.Contains(t, err.Error(), "check panic")

	_, err = r.Deliver(ctx, db, nil, panicHandler{})
	assert.True(t, errors.ErrPanic.Is(err), "deliver: %+v", err)

	// Panics are never reported to clients.
	_, log := errors.Result(err, false)
	assert.NotContains(t, log, "deliver panic")
}

func TestRecoveryPassesResults(t *testing.T) {
	res, err := NewRecovery().Deliver(context.Background(), store.MemStore(), nil,
		writeHandler{key: []byte("k"), value: []byte("v")})
	require.NoError(t, err)
	assert.NotNil(t, res)
}

type panicHandler struct{}

var _ weave.Handler = panicHandler{}

func (panicHandler) Check(weave.Context, weave.KVStore, weave.Tx) (*weave.CheckResult, error) {
	panic("check panic")
}

func (panicHandler) Deliver(weave.Context, weave.KVStore, weave.Tx) (*weave.DeliverResult, error) {
	panic("deliver panic")
}
