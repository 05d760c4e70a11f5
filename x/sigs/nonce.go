package sigs

import (
	"github.com/iov-one/weave-paychan"
)

// NextNonce returns the next numeric nonce value that should be used during a
// transaction signing.
// Any address can contain a nonce. In practice you always want to acquire a
// nonce for the signer. You can get the signers address by calling
//
//	address := <crypto.Signer>.Condition().Address()
func NextNonce(db weave.ReadOnlyKVStore, signer weave.Address) (int64, error) {
	user, err := NewBucket().GetOrCreate(db, signer)
	if err != nil {
		return 0, err
	}
	return user.Sequence, nil
}
