/*
Package nestedsafe defines the interfaces used throughout the module, such as
storage, addresses, call handlers and the context helpers. Extensions under x/
implement the nested multisig protocol on top of them: x/sigs computes the
signing hash, x/approvals collects and checks approvals, x/simulation runs a
batch on a discarded fork and x/exec orchestrates the final run.

Look into this package to get a brief overview of the building blocks shared by
all extensions.
*/
package nestedsafe
