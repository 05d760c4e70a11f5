/*

Package weave defines interfaces used throughout the app, such as: storage, transactions, handlers etc.
It also contains helpers to work with context, addresses and time.
Look into this package to get an brief overview of design decisions made around interfaces and extension
building blocks.

Extensions live under x/. The payment channel ledger is implemented by
x/paychan on top of the value ledger provided by x/cash.

*/

package weave
