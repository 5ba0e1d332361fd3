/*
Package errors implements the error kinds shared by all packages of this
module.

Reuse the errors declared here whenever possible and register custom package
errors only when absolutely necessary. x/multisig, x/approvals, x/exec and
x/simulation each register the failure kinds of their own step.

To register a custom error use Register(code, description). To reuse an
error use ErrXxx.New, ErrXxx.Newf or Wrap. The code allows to distinguish
types of errors on the client side and act accordingly; Info returns the code
together with the short human readable reason.

The first wrap of an error records a stacktrace. Use `%+v` to print it.
*/
package errors
