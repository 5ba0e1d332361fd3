/*
Package multisig implements safes: accounts controlled by a threshold of
their owners.

An owner is either a key holder, identified by the address of its public
key condition, or another safe. A safe owned by safes forms a tree that is
walked on creation to reject cycles.

A safe executes a call batch once it is presented with a proof that at
least threshold of its current owners authorized the batch hash. An owner
authorizes either with a signature of the hash or by having approved the
hash beforehand through an ApproveHashMsg call, which is how safes that
own other safes give their consent. Every execution consumes the safe
nonce, so a hash can never be executed twice.
*/
package multisig
