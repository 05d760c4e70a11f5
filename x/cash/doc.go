/*
Package cash defines a simple implementation of a fungible value ledger.

Every address holds a single unsigned balance that may never go below zero.
An owner can approve a spender to pull coins on its behalf, up to the
approved amount, and can push coins to a registered receiver that is
notified within the same transaction. Payment channels rely on both paths
to take deposits into custody.
*/
package cash
