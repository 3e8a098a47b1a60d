// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/mvswitch/internal/status"
)

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	At time.Time

	// Ports holds one snapshot per polled port, in poll order.
	Ports []status.Snapshot
	Err   error // non-nil means the poll cycle failed
}
