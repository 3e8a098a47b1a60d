// internal/bringup/sim_test.go
package bringup

import (
	"context"
	"testing"

	"github.com/go-logr/logr"

	"github.com/tamzrod/mvswitch/internal/sim"
	"github.com/tamzrod/mvswitch/internal/smi"
	"github.com/tamzrod/mvswitch/internal/switchdev"
)

func TestRun_AgainstSimulatedChip(t *testing.T) {
	chip := sim.New(7)
	chip.Load(sim.Entry{MAC: [6]byte{0, 1, 2, 3, 4, 5}, PortVec: 1, State: 0xE})

	tr, err := smi.New(chip, smi.Config{}, logr.Discard())
	if err != nil {
		t.Fatal(err)
	}
	info, _ := switchdev.NewDevice(switchdev.Model88E6172)
	dev, err := switchdev.New(tr, info, switchdev.Options{}, logr.Discard())
	if err != nil {
		t.Fatal(err)
	}

	plan := defaultPlan()
	plan.MTU = 2000
	if err := New(dev, plan, logr.Discard()).Run(context.Background()); err != nil {
		t.Fatalf("Run err=%v", err)
	}

	for p := uint8(0); p < 7; p++ {
		ctl := chip.Reg(0x10+p, 0x04)
		if ctl&0x3 != 3 {
			t.Fatalf("port %d not forwarding: 0x%04x", p, ctl)
		}
		if ctl&(1<<7) == 0 {
			t.Fatalf("port %d tunnel off: 0x%04x", p, ctl)
		}
		if ctl&(3<<12) != 0 || ctl&(1<<11) != 0 || ctl&(3<<8) != 0 {
			t.Fatalf("port %d egress/header/frame not cleared: 0x%04x", p, ctl)
		}
		if got := chip.Reg(0x10+p, 0x08) >> 12 & 3; got != 1 {
			t.Fatalf("port %d jumbo mode %d", p, got)
		}
	}
	for _, p := range []uint8{5, 6} {
		if got := chip.Reg(0x10+p, 0x01); got != 0x00FE {
			t.Fatalf("cpu port %d pcs=0x%04x", p, got)
		}
	}
	wantMap := map[uint8]uint16{5: 0x0F, 0: 0x2E, 1: 0x2D, 2: 0x2B, 3: 0x27, 6: 0x10, 4: 0x40}
	for p, m := range wantMap {
		if got := chip.Reg(0x10+p, 0x06) & 0x7F; got != m {
			t.Fatalf("port %d vlan map 0x%02x want 0x%02x", p, got, m)
		}
	}
	if chip.PVT(0) != 0x7FF {
		t.Fatalf("pvt not initialized")
	}
	if len(chip.Entries(0)) != 0 {
		t.Fatalf("atu not flushed")
	}
}
