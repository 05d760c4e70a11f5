/*
Package paychan implements unidirectional payment channels.

A payment channel is identified by the pair of its owner (payer) and
receiver (payee). The owner deposits coins into the channel custody account
and then pays the receiver off the chain, by signing claims that state the
total amount owed so far. The receiver redeems the latest claim at will and
only the difference to the previously redeemed amount is paid out. A claim
amount must grow with every withdrawal, so old claims cannot be replayed.

To get the remaining deposit back, the owner first unlocks the channel. This
starts the dispute window, during which the receiver can still redeem its
latest claim. Once the window has elapsed the owner may close the channel and
the remainder is returned. The receiver can close the channel at any time,
accepting the amount withdrawn so far as final, in which case the remainder
is refunded to the owner immediately.

A closed channel is retired for good. Its key can never be funded again.

Coins can be deposited either by approving the module address as a spender
and sending FundMsg, or by pushing them with cash.TransferAndCallMsg to the
ModuleAddress with the receiver address as the payload.
*/
package paychan
