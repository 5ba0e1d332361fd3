/*
Package app wires all extensions into an Environment, the state machine
holding safes, approvals, balances and counters.

All state changes go through Update, which runs exclusively, writes the
changes into the committed store and commits a new version. Reads and
simulations run concurrently against cache wraps of the committed state.
*/
package app
