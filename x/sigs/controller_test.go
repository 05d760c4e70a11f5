package sigs

import (
	"testing"

	"github.com/iov-one/weave-paychan/errors"
	"github.com/iov-one/weave-paychan/store"
	"github.com/iov-one/weave-paychan/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignBytes(t *testing.T) {
	bz := []byte("foobar")
	tx := NewStdTx(bz)

	bz2 := []byte("blast")
	tx2 := NewStdTx(bz2)

	// make sure the values out are sensible
	tbz, err := tx.GetSignBytes()
	assert.NoError(t, err)
	assert.Equal(t, bz, tbz)
	tbz2, err := tx2.GetSignBytes()
	assert.NoError(t, err)
	assert.Equal(t, bz2, tbz2)

	// make sure sign bytes match tx
	chainID := "test-sign-bytes"
	c1, err := BuildSignBytesTx(tx, chainID, 17)
	require.NoError(t, err)
	c1a, err := BuildSignBytes(bz, chainID, 17)
	require.NoError(t, err)
	assert.Equal(t, c1, c1a)
	assert.Len(t, c1, 32)

	// make sure sign bytes change on tx, chain_id and seq
	ct, err := BuildSignBytes(bz2, chainID, 17)
	require.NoError(t, err)
	assert.NotEqual(t, c1, ct)
	c2, err := BuildSignBytes(bz, chainID+"2", 17)
	require.NoError(t, err)
	assert.NotEqual(t, c1, c2)
	c3, err := BuildSignBytes(bz, chainID, 18)
	require.NoError(t, err)
	assert.NotEqual(t, c1, c3)

	_, err = BuildSignBytes(bz, chainID, -1)
	assert.True(t, ErrInvalidSequence.Is(err))
	_, err = BuildSignBytes(bz, "no", 1)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestVerifySignature(t *testing.T) {
	kv := store.MemStore()
	priv := weavetest.NewKey()
	perm := priv.Condition()

	chainID := "emo-music-2345"
	bz := []byte("my special valentine")
	tx := NewStdTx(bz)

	sig0, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig1, err := SignTx(priv, tx, chainID, 1)
	require.NoError(t, err)
	sig13, err := SignTx(priv, tx, chainID, 13)
	require.NoError(t, err)
	empty := new(StdSignature)

	// the first one must start with a zero sequence
	_, err = VerifySignature(kv, sig1, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	// empty sig
	_, err = VerifySignature(kv, empty, bz, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// A signature checked against other sign bytes recovers some other
	// key, never the signer.
	cond, err := VerifySignature(kv, sig0, bz, "other-chain")
	if err == nil {
		assert.NotEqual(t, perm, cond)
	}
	cond, err = VerifySignature(kv, sig0, []byte("fake"), chainID)
	if err == nil {
		assert.NotEqual(t, perm, cond)
	}

	// first signature, must be 0
	cond, err = VerifySignature(kv, sig0, bz, chainID)
	require.NoError(t, err)
	assert.EqualValues(t, perm, cond)

	// replay fails
	_, err = VerifySignature(kv, sig0, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	// next sequence works
	cond, err = VerifySignature(kv, sig1, bz, chainID)
	require.NoError(t, err)
	assert.EqualValues(t, perm, cond)

	// jumping ahead fails
	_, err = VerifySignature(kv, sig13, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	nonce, err := NextNonce(kv, perm.Address())
	require.NoError(t, err)
	assert.EqualValues(t, 2, nonce)
}

func TestVerifyTxSignatures(t *testing.T) {
	kv := store.MemStore()
	priv := weavetest.NewKey()
	priv2 := weavetest.NewKey()

	chainID := "hot_summer_days"
	tx := NewStdTx([]byte("some data"))
	tx2 := NewStdTx([]byte("other data"))

	// various sigs we can use
	sig, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig1, err := SignTx(priv, tx, chainID, 1)
	require.NoError(t, err)
	sig2, err := SignTx(priv2, tx, chainID, 0)
	require.NoError(t, err)
	sig3, err := SignTx(priv2, tx2, chainID, 0)
	require.NoError(t, err)

	// no signatures is ok
	conds, err := VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	assert.Empty(t, conds)

	// one signature
	tx.Signatures = []*StdSignature{sig}
	conds, err = VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	require.Len(t, conds, 1)
	assert.EqualValues(t, priv.Condition(), conds[0])

	// two signatures of the same tx
	tx.Signatures = []*StdSignature{sig1, sig2}
	conds, err = VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	require.Len(t, conds, 2)
	assert.EqualValues(t, priv.Condition(), conds[0])
	assert.EqualValues(t, priv2.Condition(), conds[1])

	// a signature of a different tx recovers somebody else and that
	// somebody never signed before, so the sequence still matches
	tx.Signatures = []*StdSignature{sig3}
	conds, err = VerifyTxSignatures(kv, tx, chainID)
	if err == nil {
		require.Len(t, conds, 1)
		assert.NotEqual(t, priv2.Condition(), conds[0])
	}
}
