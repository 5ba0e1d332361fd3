package app

import (
	"time"

	"github.com/iov-one/nestedsafe"
)

// logDuration writes information about the time and result of an operation
// to the logger. Failures are logged as errors, successful updates as info
// and successful views as debug.
func logDuration(ctx nestedsafe.Context, op string, start time.Time, err error, lowPrio bool) {
	delta := time.Since(start)
	logger := nestedsafe.GetLogger(ctx).With("op", op, "duration", delta/time.Microsecond)

	if err != nil {
		logger.Error("operation failed", "err", err)
		return
	}
	if lowPrio {
		logger.Debug("operation done")
	} else {
		logger.Info("operation done")
	}
}
