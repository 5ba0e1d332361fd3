/*
Package x contains the extensions of the nested safe state machine and the
protocol built on top of them.

Extensions implement contracts (Handler, Resolver, Initializer) and can be
combined together to construct an execution environment. Authentication is
abstracted by the Authenticator interface declared here, so that handlers
never depend on how the caller authority was established.

The protocol packages (sigs, approvals, simulation, exec) only read the
environment state and submit authorized call batches to it.
*/
package x
