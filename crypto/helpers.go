package crypto

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/hex"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/iov-one/weave-paychan"
	"github.com/iov-one/weave-paychan/errors"
)

// ExtensionName is used for the Conditions we get from signatures
const ExtensionName = "sigs"

// KeyType names the only supported key algorithm in conditions.
const KeyType = "secp256k1"

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	// Sign returns a recoverable signature of a 32 byte digest.
	Sign(digest []byte) (Signature, error)
	// Condition returns the condition fulfilled by this signer.
	Condition() weave.Condition
}

// PrivateKey is a secp256k1 private key.
type PrivateKey struct {
	key *ecdsa.PrivateKey
}

var _ Signer = (*PrivateKey)(nil)

// GenPrivKey returns a random new private key
func GenPrivKey() (*PrivateKey, error) {
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrHuman, "generate key: %s", err)
	}
	return &PrivateKey{key: key}, nil
}

// PrivKeyFromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyFromSeed(seed []byte) (*PrivateKey, error) {
	h := sha256.Sum256(seed)
	key, err := ethcrypto.ToECDSA(h[:])
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "seed: %s", err)
	}
	return &PrivateKey{key: key}, nil
}

// PrivKeyFromHex loads a private key from its hex encoded scalar.
func PrivKeyFromHex(s string) (*PrivateKey, error) {
	key, err := ethcrypto.HexToECDSA(s)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "hex key: %s", err)
	}
	return &PrivateKey{key: key}, nil
}

// Hex returns the hex encoded private scalar, as accepted by PrivKeyFromHex.
func (p *PrivateKey) Hex() string {
	return hex.EncodeToString(ethcrypto.FromECDSA(p.key))
}

// Sign returns a matching signature for this private key. V of the
// returned signature is 0 or 1.
func (p *PrivateKey) Sign(digest []byte) (Signature, error) {
	if len(digest) != DigestLength {
		return nil, errors.Wrapf(errors.ErrInput, "digest must be %d bytes", DigestLength)
	}
	sig, err := ethcrypto.Sign(digest, p.key)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "sign: %s", err)
	}
	return Signature(sig), nil
}

// Condition encodes the public key into a weave condition
func (p *PrivateKey) Condition() weave.Condition {
	return PubKeyCondition(&p.key.PublicKey)
}

// Address returns the address of the identity controlled by this key.
func (p *PrivateKey) Address() weave.Address {
	return p.Condition().Address()
}

// PubKeyCondition returns the condition that a signature made by the private
// counterpart of given key fulfils. The condition data is the Ethereum
// style key address (last 20 bytes of the public key Keccak digest).
func PubKeyCondition(pub *ecdsa.PublicKey) weave.Condition {
	addr := ethcrypto.PubkeyToAddress(*pub)
	return weave.NewCondition(ExtensionName, KeyType, addr.Bytes())
}
