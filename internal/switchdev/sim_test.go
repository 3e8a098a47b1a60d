// internal/switchdev/sim_test.go
package switchdev_test

import (
	"testing"

	"github.com/go-logr/logr"
	. "github.com/onsi/gomega"

	"github.com/tamzrod/mvswitch/internal/addr"
	"github.com/tamzrod/mvswitch/internal/diag"
	"github.com/tamzrod/mvswitch/internal/sim"
	"github.com/tamzrod/mvswitch/internal/smi"
	"github.com/tamzrod/mvswitch/internal/switchdev"
)

func newSimDev(t *testing.T) (*switchdev.Dev, *sim.Chip) {
	t.Helper()
	chip := sim.New(7)
	chip.BusyReads = 2
	chip.TableBusyReads = 3

	tr, err := smi.New(chip, smi.Config{}, logr.Discard())
	if err != nil {
		t.Fatalf("smi.New err=%v", err)
	}
	info, err := switchdev.NewDevice(switchdev.Model88E6176)
	if err != nil {
		t.Fatalf("NewDevice err=%v", err)
	}
	d, err := switchdev.New(tr, info, switchdev.Options{}, logr.Discard())
	if err != nil {
		t.Fatalf("New err=%v", err)
	}
	return d, chip
}

func TestSimATULoadWalkPurge(t *testing.T) {
	g := NewWithT(t)
	d, chip := newSimDev(t)

	macs := [][6]byte{
		{0x00, 0x50, 0x43, 0x00, 0x00, 0x02},
		{0x00, 0x50, 0x43, 0x00, 0x00, 0x01},
		{0x01, 0x00, 0x5E, 0x00, 0x00, 0x01},
	}
	for i, m := range macs {
		e := switchdev.ATUEntry{MAC: m, DBNum: 2, PortVec: 1 << i, State: switchdev.ATUStateUCStatic}
		g.Expect(d.LoadATU(e)).To(Succeed())
	}
	g.Expect(chip.Entries(2)).To(HaveLen(3))

	var walked []switchdev.ATUEntry
	g.Expect(d.WalkATU(2, func(e switchdev.ATUEntry) error {
		walked = append(walked, e)
		return nil
	})).To(Succeed())
	g.Expect(walked).To(HaveLen(3))
	g.Expect(walked[0].MAC).To(Equal(macs[1]))
	g.Expect(walked[0].PortVec).To(Equal(uint16(0x2)))
	g.Expect(walked[2].MAC).To(Equal(macs[2]))

	g.Expect(d.PurgeATU(macs[0], 2)).To(Succeed())
	g.Expect(chip.Entries(2)).To(HaveLen(2))

	g.Expect(d.WalkATU(7, func(switchdev.ATUEntry) error {
		t.Fatalf("db 7 should be empty")
		return nil
	})).To(Succeed())
}

func TestSimATUMoveAndFlush(t *testing.T) {
	g := NewWithT(t)
	d, chip := newSimDev(t)

	chip.Load(sim.Entry{MAC: [6]byte{0, 0, 0, 0, 0, 1}, PortVec: 0x01, State: 0x3})
	chip.Load(sim.Entry{MAC: [6]byte{0, 0, 0, 0, 0, 2}, PortVec: 0x03, State: 0x3})

	g.Expect(d.MoveATU(0, 4)).To(Succeed())
	got := chip.Entries(0)
	g.Expect(got).To(HaveLen(2))
	g.Expect(got[0].PortVec).To(Equal(uint16(0x10)))
	g.Expect(got[1].PortVec).To(Equal(uint16(0x12)))

	g.Expect(d.FlushATU(true)).To(Succeed())
	g.Expect(chip.Entries(0)).To(BeEmpty())
}

func TestSimServiceViolation(t *testing.T) {
	g := NewWithT(t)
	d, chip := newSimDev(t)

	v, _, err := d.ServiceATUViolation()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(v).To(Equal(switchdev.ViolationNone))

	chip.QueueViolation(sim.Violation{Cause: 0x2, DB: 9, SPID: 3, MAC: [6]byte{0xAA, 0, 0, 0, 0, 0xBB}})
	v, e, err := d.ServiceATUViolation()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(v).To(Equal(switchdev.ViolationMiss))
	g.Expect(e.DBNum).To(Equal(uint16(9)))
	g.Expect(e.State).To(Equal(uint8(3)))
	g.Expect(e.MAC).To(Equal([6]byte{0xAA, 0, 0, 0, 0, 0xBB}))
}

func TestSimPVT(t *testing.T) {
	g := NewWithT(t)
	d, chip := newSimDev(t)

	g.Expect(d.InitPVT()).To(Succeed())
	g.Expect(chip.PVT(0x10)).To(Equal(uint16(0x7FF)))

	g.Expect(d.WritePVT(0x10, 0x0021)).To(Succeed())
	g.Expect(chip.PVT(0x10)).To(Equal(uint16(0x0021)))

	v, err := d.ReadPVT(0x10)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(v).To(Equal(uint16(0x0021)))
}

func TestSimPowerLeavesPageZero(t *testing.T) {
	g := NewWithT(t)
	d, chip := newSimDev(t)

	g.Expect(d.SetPortPower(2, false)).To(Succeed())
	g.Expect(chip.Reg(2, 22)).To(Equal(uint16(0)))
	g.Expect(chip.PHYReg(2, 0, 16)).To(Equal(uint16(0x000C)))
	g.Expect(chip.PHYReg(2, 0, 0)).To(Equal(uint16(0x0800)))

	on, err := d.PortPower(2)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(on).To(BeFalse())

	g.Expect(d.SetPortPower(2, true)).To(Succeed())
	g.Expect(chip.PHYReg(2, 2, 16) & 0x8).To(Equal(uint16(0x8)))
	on, err = d.PortPower(2)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(on).To(BeTrue())
}

func TestSimLinkStatus(t *testing.T) {
	g := NewWithT(t)
	d, chip := newSimDev(t)
	chip.SetLink(1, true, false, 1)

	s, err := d.PortStatus(1)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(s.Link).To(BeTrue())
	g.Expect(s.Full).To(BeFalse())
	g.Expect(s.SpeedString()).To(Equal("100Mbps"))
}

func TestSimDiagPortOutOfRangeFails(t *testing.T) {
	g := NewWithT(t)
	d, chip := newSimDev(t)
	chip.SetReg(0, 2, 0x0141)

	res := diag.Exec(d, diag.Request{Op: diag.OpRead, Port: 0xF0, Reg: 2, Kind: addr.KindPort})
	g.Expect(res.Err).To(MatchError(smi.ErrInvalidAddress))
	g.Expect(res.String()).To(HaveSuffix("FAILED, err=-1"))

	res = diag.Exec(d, diag.Request{Op: diag.OpWrite, Port: 0xF0, Reg: 0, Kind: addr.KindPort, Value: 0x800})
	g.Expect(res.Err).To(MatchError(smi.ErrInvalidAddress))
	g.Expect(chip.Reg(0, 0) & 0x0800).To(BeZero())
}
