/*
Package sigs provides basic authentication
middleware to verify the signatures on the transaction,
and maintain nonces for replay protection.

Signatures are recoverable secp256k1 signatures, so a signature carries no
public key. The signer condition is recovered from the signature and the
signed bytes.
*/
package sigs
