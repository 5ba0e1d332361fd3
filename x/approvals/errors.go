package approvals

import "github.com/iov-one/nestedsafe/errors"

// ErrInsufficientSignatures is returned when the verified distinct owners
// of an approving safe do not reach its threshold.
var ErrInsufficientSignatures = errors.Register(1040, "insufficient signatures")
