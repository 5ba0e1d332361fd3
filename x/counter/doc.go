// Package counter implements a minimal contract that only its owner can
// increment. It serves as a call target for safe transactions.
package counter
