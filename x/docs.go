/*
Package x holds the extensions of the payment channel application and the
authentication helpers they share.

x/cash is the value ledger: balances, allowances and transfers that notify
a token receiver. x/paychan keeps the payment channels on top of it and
x/sigs authenticates transactions with recoverable secp256k1 signatures.
x/utils contains the decorators wrapping every handler.

Handlers get an Authenticator in their constructor and use RequireSigner to
ensure the owner or receiver of a channel authorized the call.
*/
package x
