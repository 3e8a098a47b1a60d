// internal/bringup/sequencer.go
package bringup

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-logr/logr"

	"github.com/tamzrod/mvswitch/internal/metrics"
	"github.com/tamzrod/mvswitch/internal/switchdev"
)

// Sequencer runs the one-shot switch bring-up.
// Any failing step aborts the whole sequence; there is no partial success.
type Sequencer struct {
	sw   Switch
	plan Plan
	log  logr.Logger

	mu   sync.Mutex
	done bool
}

// New returns a Sequencer that applies plan to sw.
func New(sw Switch, plan Plan, log logr.Logger) *Sequencer {
	return &Sequencer{sw: sw, plan: plan, log: log}
}

type step struct {
	name string
	run  func() error
}

// Run executes the bring-up once. Later calls return nil without touching
// the switch. A failed run may be retried.
func (s *Sequencer) Run(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return nil
	}

	for _, st := range s.steps() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := st.run(); err != nil {
			metrics.BringupFailuresTotal.Inc()
			s.log.Error(err, "bring-up step failed", "step", st.name)
			return fmt.Errorf("bringup: %s: %w", st.name, err)
		}
		s.log.V(1).Info("bring-up step done", "step", st.name)
	}

	s.done = true
	s.log.Info("switch bring-up complete", "ports_mask", fmt.Sprintf("0x%02x", s.plan.PortsMask))
	return nil
}

// Done reports whether bring-up has completed.
func (s *Sequencer) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *Sequencer) steps() []step {
	return []step{
		{"disable ports", s.eachMasked(func(p uint8) error {
			return s.sw.SetPortState(p, switchdev.PortDisabled)
		})},
		{"force cpu ports", s.forceCPUPorts},
		{"egress unmodify", s.eachMasked(func(p uint8) error {
			return s.sw.SetEgressMode(p, switchdev.EgressUnmodify)
		})},
		{"pvt initialize", s.sw.InitPVT},
		{"frame mode normal", s.eachMasked(func(p uint8) error {
			return s.sw.SetFrameMode(p, switchdev.FrameNormal)
		})},
		{"model check", s.checkModel},
		{"header mode off", s.eachPort(func(p uint8) error {
			return s.sw.SetHeaderMode(p, false)
		})},
		{"jumbo size", func() error { return s.sw.SetJumboSize(s.plan.MTU) }},
		{"vlan tunnel", s.eachMasked(func(p uint8) error {
			return s.sw.SetVlanTunnel(p, true)
		})},
		{"802.1q disable", s.eachMasked(func(p uint8) error {
			return s.sw.SetDot1qMode(p, switchdev.Dot1qDisabled)
		})},
		{"vlan map", s.vlanMap},
		{"atu flush", func() error { return s.sw.FlushATU(true) }},
		{"enable ports", s.eachMasked(func(p uint8) error {
			return s.sw.SetPortState(p, switchdev.PortForwarding)
		})},
	}
}

func (s *Sequencer) eachPort(fn func(p uint8) error) func() error {
	return func() error {
		for p := uint8(0); p < s.sw.Info().NumPorts; p++ {
			if err := fn(p); err != nil {
				return fmt.Errorf("port %d: %w", p, err)
			}
		}
		return nil
	}
}

func (s *Sequencer) eachMasked(fn func(p uint8) error) func() error {
	return s.eachPort(func(p uint8) error {
		if s.plan.PortsMask&(1<<p) == 0 {
			return nil
		}
		return fn(p)
	})
}

// forceCPUPorts pins the CPU-facing RGMII ports to 1000/full with flow
// control and link forced up.
func (s *Sequencer) forceCPUPorts() error {
	for _, p := range s.plan.CPUPorts {
		calls := []func() error{
			func() error { return s.sw.SetForceSpeed(p, switchdev.ForceSpeed1000) },
			func() error { return s.sw.SetDpxValue(p, true) },
			func() error { return s.sw.SetForcedDpx(p, true) },
			func() error { return s.sw.SetFCValue(p, true) },
			func() error { return s.sw.SetForcedFC(p, true) },
			func() error { return s.sw.SetLinkValue(p, true) },
			func() error { return s.sw.SetForcedLink(p, true) },
		}
		for _, c := range calls {
			if err := c(); err != nil {
				return fmt.Errorf("port %d: %w", p, err)
			}
		}
	}
	return nil
}

func (s *Sequencer) checkModel() error {
	m := s.sw.Info().Model
	if !m.Supported() {
		return fmt.Errorf("%w: switch ID 0x%X", switchdev.ErrNotSupported, uint16(m))
	}
	return nil
}

func (s *Sequencer) vlanMap() error {
	for _, e := range s.plan.VlanMap {
		if err := s.sw.SetVlanPortMask(e.Port, e.Mask); err != nil {
			return fmt.Errorf("port %d: %w", e.Port, err)
		}
	}
	return nil
}
