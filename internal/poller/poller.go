// internal/poller/poller.go
package poller

import (
	"errors"
	"fmt"
	"time"

	"github.com/tamzrod/mvswitch/internal/status"
)

// Client abstracts the switch access the poller needs.
// *switchdev.Dev implements it.
type Client interface {
	PortStatus(port uint8) (status.Snapshot, error)
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Interval time.Duration
	Ports    []uint8
}

// Poller is a dumb, clock-driven reader of port status.
type Poller struct {
	cfg    Config
	client Client
}

// New creates a poller with immutable config.
func New(cfg Config, client Client) (*Poller, error) {
	if client == nil {
		return nil, errors.New("poller: client required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if len(cfg.Ports) == 0 {
		return nil, errors.New("poller: at least one port required")
	}
	return &Poller{cfg: cfg, client: client}, nil
}

// PollOnce performs exactly one poll cycle.
// All-or-nothing: any failure aborts the cycle.
func (p *Poller) PollOnce() PollResult {
	res := PollResult{At: time.Now()}

	ports := make([]status.Snapshot, 0, len(p.cfg.Ports))
	for _, port := range p.cfg.Ports {
		s, err := p.client.PortStatus(port)
		if err != nil {
			res.Err = fmt.Errorf("poller: port %d: %w", port, err)
			return res
		}
		ports = append(ports, s)
	}

	// Commit only if all reads succeeded
	res.Ports = ports
	return res
}
