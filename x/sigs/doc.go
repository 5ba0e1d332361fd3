/*
Package sigs computes the hash that authorizes a call batch and signs it.

The signed bytes are versioned and domain separated, so that a signature
created for one chain, one safe or one nonce can never be replayed in a
different context:

	version | len(chainID) | chainID      | safe     | nonce             | calls digest
	4bytes  | uint8        | ascii string | 20 bytes | int64 (bigendian) | 32 bytes

The calls digest is the keccak256 of the ABI encoded call list, see
batch.CallBatch.Encode. The hash is the keccak256 of the whole sign bytes
and is what every member signs.
*/
package sigs
