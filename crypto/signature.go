package crypto

import (
	"fmt"
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/iov-one/weave-paychan"
	"github.com/iov-one/weave-paychan/errors"
)

const (
	// SignatureLength is the length of a recoverable signature, R || S || V.
	SignatureLength = 65

	// DigestLength is the length of every signed digest.
	DigestLength = 32
)

// Signature is a recoverable secp256k1 signature laid out as R || S || V.
// V is accepted both as 0/1 and as 27/28, the latter being what Ethereum
// tooling emits.
type Signature []byte

// SignatureFromVRS builds a signature from its split components.
func SignatureFromVRS(v byte, r, s [32]byte) Signature {
	sig := make(Signature, SignatureLength)
	copy(sig[:32], r[:])
	copy(sig[32:64], s[:])
	sig[64] = v
	return sig
}

// Validate returns an error if the signature is not well formed. It does not
// tell whether the signature is correct.
func (s Signature) Validate() error {
	if len(s) != SignatureLength {
		return errors.Wrapf(errors.ErrInput, "signature must be %d bytes, got %d", SignatureLength, len(s))
	}
	if _, err := recoveryID(s[64]); err != nil {
		return err
	}
	return nil
}

func (s Signature) String() string {
	return fmt.Sprintf("%X", []byte(s))
}

func recoveryID(v byte) (byte, error) {
	switch v {
	case 0, 1:
		return v, nil
	case 27, 28:
		return v - 27, nil
	default:
		return 0, errors.Wrapf(errors.ErrInput, "invalid recovery byte %d", v)
	}
}

// RecoverAddress returns the address of the key that produced given
// signature over the digest.
func RecoverAddress(digest []byte, sig Signature) (weave.Address, error) {
	cond, err := RecoverCondition(digest, sig)
	if err != nil {
		return nil, err
	}
	return cond.Address(), nil
}

// RecoverCondition returns the condition fulfilled by the key that produced
// given signature over the digest.
func RecoverCondition(digest []byte, sig Signature) (cond weave.Condition, err error) {
	if len(digest) != DigestLength {
		return nil, errors.Wrapf(errors.ErrInput, "digest must be %d bytes", DigestLength)
	}
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	v, _ := recoveryID(sig[64])
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:64])
	// Homestead rules reject high S values, so that every signature has
	// exactly one valid encoding.
	if !ethcrypto.ValidateSignatureValues(v, r, s, true) {
		return nil, errors.Wrap(errors.ErrInput, "signature values out of range")
	}

	norm := make([]byte, SignatureLength)
	copy(norm, sig)
	norm[64] = v

	defer func() {
		if rec := recover(); rec != nil {
			cond = nil
			err = errors.Wrapf(errors.ErrInput, "recover public key: %v", rec)
		}
	}()
	pub, err := ethcrypto.SigToPub(digest, norm)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "recover public key: %s", err)
	}
	return PubKeyCondition(pub), nil
}
