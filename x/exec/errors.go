package exec

import "github.com/iov-one/nestedsafe/errors"

// ErrNotEnoughApprovals is returned when the owners that authorized a hash
// do not reach the threshold of the executing safe.
var ErrNotEnoughApprovals = errors.Register(1050, "not enough approvals")
