// internal/poller/watch.go
package poller

import (
	"strconv"

	"github.com/go-logr/logr"

	"github.com/tamzrod/mvswitch/internal/metrics"
	"github.com/tamzrod/mvswitch/internal/status"
)

// Watcher remembers the last snapshot per port and reports changes.
// It is not safe for concurrent use; one consumer owns it.
type Watcher struct {
	last map[uint8]status.Snapshot
	log  logr.Logger
}

// NewWatcher returns a Watcher that has seen no ports yet.
func NewWatcher(log logr.Logger) *Watcher {
	return &Watcher{last: map[uint8]status.Snapshot{}, log: log}
}

// Observe consumes one poll result and returns the ports whose link state
// changed. The first observation of a port counts as a change.
// Failed cycles change nothing.
func (w *Watcher) Observe(res PollResult) []status.Snapshot {
	if res.Err != nil {
		w.log.Error(res.Err, "link poll failed")
		return nil
	}

	var changed []status.Snapshot
	for _, s := range res.Ports {
		up := 0.0
		if s.Link {
			up = 1
		}
		metrics.PortLinkUp.WithLabelValues(strconv.Itoa(int(s.Port))).Set(up)

		prev, seen := w.last[s.Port]
		w.last[s.Port] = s
		if seen && prev.Equal(s) {
			continue
		}
		changed = append(changed, s)
		w.log.Info("link state",
			"port", s.Port,
			"link", s.LinkString(),
			"duplex", s.DuplexString(),
			"speed", s.SpeedString(),
		)
	}
	return changed
}
