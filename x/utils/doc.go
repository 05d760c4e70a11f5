/*
Package utils contains decorators shared by every handler stack of the
payment channel application.

Savepoint isolates the state changes of a single transaction, Recovery turns
panics into errors, Logging reports the outcome of every call and ActionTagger
labels delivered transactions with the path of their message.
*/
package utils
