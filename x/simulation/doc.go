/*
Package simulation runs a safe transaction against a throw-away fork of the
state and reports what it would do.

The fork is a cache wrap of the live state, wrapped by a recording store.
Every read and write of the simulated execution is traced. The fork is
always discarded, whatever the outcome, so a simulation never changes the
live state. An optional post check inspects the forked state after the
execution, before it is thrown away.
*/
package simulation
