/*
Package app contains the pieces used to assemble an application: the
decorator chain, the message router, genesis loading and StoreApp, the
serialized executor that owns the state.

StoreApp does not talk to a consensus engine. Callers feed it blocks and
already decoded transactions, and StoreApp guarantees that every call is
executed alone and in order.
*/
package app
