/*
Package exec drives the final execution of a transaction by a top level
safe.

The orchestrator gathers the authorization of the safe from the approvals
recorded by its nested owners and from signatures of its direct owners. It
refuses to run before the threshold is met. When a post check is given, the
transaction is first simulated on a fork of the state and the real run only
happens if the check accepted the outcome.
*/
package exec
