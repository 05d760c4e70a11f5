package weavetest

import (
	"github.com/iov-one/weave-paychan"
	"github.com/iov-one/weave-paychan/crypto"
)

// NewKey returns a new random secp256k1 key. It panics if the system source
// of randomness is broken.
func NewKey() *crypto.PrivateKey {
	key, err := crypto.GenPrivKey()
	if err != nil {
		panic(err)
	}
	return key
}

// NewCondition returns the condition of a new random key.
func NewCondition() weave.Condition {
	return NewKey().Condition()
}
