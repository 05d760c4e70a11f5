/*
Package crypto provides the secp256k1 keys used to sign payment channel
claims, and the routines that build and verify those claims.

A claim is the owner's signature over the Keccak-256 digest of
owner || receiver || uint256(amount). Both sides of a channel use ClaimDigest,
so the signer and the verifier can never disagree on the signed bytes.

Identities derived from keys are conditions of the "sigs" extension, so a key
maps to a weave.Address the same way any other condition does.
*/
package crypto
