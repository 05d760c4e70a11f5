package x

import (
	"github.com/iov-one/weave-paychan"
	"github.com/iov-one/weave-paychan/errors"
)

// Authenticator extracts the identities that authorized the current
// transaction from the context. Handlers receive it in their constructor so
// that the signature scheme can be replaced in tests.
type Authenticator interface {
	// GetConditions returns all conditions fulfilled by the transaction,
	// in signing order.
	GetConditions(weave.Context) []weave.Condition
	// HasAddress checks if any fulfilled condition matches the address.
	HasAddress(weave.Context, weave.Address) bool
}

// MainSigner returns the first fulfilled condition, or nil if the
// transaction is not signed.
func MainSigner(ctx weave.Context, auth Authenticator) weave.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// RequireSigner returns ErrUnauthorized unless addr authorized the current
// transaction. Role names the party in the error message, for example
// "owner" or "receiver".
func RequireSigner(ctx weave.Context, auth Authenticator, addr weave.Address, role string) error {
	if addr == nil || !auth.HasAddress(ctx, addr) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s signature missing", role)
	}
	return nil
}
