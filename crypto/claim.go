package crypto

import (
	"encoding/binary"

	"github.com/iov-one/weave-paychan"
	"golang.org/x/crypto/sha3"
)

// ClaimDigest returns the Keccak-256 digest of owner || receiver || amount,
// where amount is encoded as a 32 byte big endian unsigned integer.
func ClaimDigest(owner, receiver weave.Address, amount uint64) []byte {
	var amt [32]byte
	binary.BigEndian.PutUint64(amt[24:], amount)

	h := sha3.NewLegacyKeccak256()
	h.Write(owner)
	h.Write(receiver)
	h.Write(amt[:])
	return h.Sum(nil)
}

// SignClaim signs the claim that receiver is owed amount in total by
// owner's channel.
func SignClaim(signer Signer, owner, receiver weave.Address, amount uint64) (Signature, error) {
	return signer.Sign(ClaimDigest(owner, receiver, amount))
}

// VerifyClaim returns true only if sig was produced by the owner key over
// exactly (owner, receiver, amount). Any malformed input results in false.
func VerifyClaim(owner, receiver weave.Address, amount uint64, sig Signature) bool {
	if len(owner) == 0 {
		return false
	}
	signer, err := RecoverAddress(ClaimDigest(owner, receiver, amount), sig)
	if err != nil {
		return false
	}
	return signer.Equals(owner)
}
