/*
Package approvals collects the consent of intermediate safes for a hash that
is going to be executed by the safe they own.

Every intermediate safe approves the hash independently, at any time and in
any order, by executing an ApproveHashMsg call to the owner safe. The
members of the intermediate safe sign the approval payload returned by
ApprovalPayload and anybody can submit the signatures with Approve.

CheckReady tells if enough owners of a safe approved a hash. It always reads
the live state.
*/
package approvals
