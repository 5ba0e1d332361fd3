/*
Package batch implements call batches.

A call batch holds an ordered list of calls that an executing account wants
to perform atomically. The batch fails if any of the calls fails, unless
that call was marked as allowed to fail. In that case only the writes of
the failed call are rolled back and the failure is reported in the result.

A call carries a target address, an opaque payload that is passed to the
handler serving the target, and an optional value that is transferred from
the executing account to the target before the handler runs. Calls with an
empty payload to an address without a handler are plain value transfers.

The binary layout used for signing follows the Multicall3 aggregate3Value
argument encoding, so that independent tooling can reproduce it.
*/
package batch
