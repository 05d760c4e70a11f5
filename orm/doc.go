/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
Each bucket contains only one type of Model, which must
implement weave.Persistent and can be validated before
it is written.

Keys within a bucket are chosen by the extension, which
allows composite keys (for example owner followed by
receiver) to be scanned by any of their prefixes.
*/
package orm
