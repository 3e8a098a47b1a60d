// internal/poller/builder.go
package poller

import (
	"time"

	cfg "github.com/tamzrod/mvswitch/internal/config"
)

// Build constructs a Poller from the monitor section.
// The config is expected to be validated and normalized.
func Build(m cfg.MonitorConfig, client Client) (*Poller, error) {
	return New(
		Config{
			Interval: time.Duration(m.IntervalMs) * time.Millisecond,
			Ports:    m.Ports,
		},
		client,
	)
}
