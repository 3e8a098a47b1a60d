// internal/switchdev/port_test.go
package switchdev

import (
	"sync"
	"testing"

	. "github.com/onsi/gomega"
)

func TestEgressModeUntaggedOnPort2(t *testing.T) {
	g := NewWithT(t)
	bus := newFakeBus()
	d := newTestDev(t, bus, Options{})

	g.Expect(d.SetEgressMode(2, EgressUntagged)).To(Succeed())
	g.Expect(bus.get(0x12, regPortControl)).To(Equal(uint16(0x1000)))
	g.Expect(bus.trace).To(HaveLen(2))
	g.Expect(bus.trace[0].write).To(BeFalse())
	g.Expect(bus.trace[1]).To(Equal(w(0x12, regPortControl, 0x1000)))
}

func TestEgressModeValues(t *testing.T) {
	g := NewWithT(t)
	want := map[EgressMode]uint16{
		EgressUnmodify: 0,
		EgressUntagged: 1,
		EgressTagged:   2,
		EgressAddTag:   3,
	}
	for m, v := range want {
		bus := newFakeBus()
		d := newTestDev(t, bus, Options{})
		g.Expect(d.SetEgressMode(0, m)).To(Succeed())
		g.Expect(bus.get(0x10, regPortControl) >> 12).To(Equal(v))
	}
}

func TestInvalidEnumsNeverTouchBus(t *testing.T) {
	g := NewWithT(t)
	bus := newFakeBus()
	d := newTestDev(t, bus, Options{})

	g.Expect(d.SetFrameMode(0, FrameMode(4))).To(MatchError(ErrBadParameter))
	g.Expect(d.SetEgressMode(0, EgressMode(9))).To(MatchError(ErrFail))
	g.Expect(d.SetJumboMode(0, JumboMode(3))).To(MatchError(ErrBadParameter))
	g.Expect(d.SetVlanPortMask(0, 0x80)).To(MatchError(ErrBadParameter))
	g.Expect(d.SetDefaultTC(0, 8)).To(MatchError(ErrBadParameter))
	g.Expect(d.SetDefaultVID(0, 0x1000)).To(MatchError(ErrBadParameter))
	g.Expect(d.SetPortState(7, PortForwarding)).To(MatchError(ErrBadParameter))
	g.Expect(bus.trace).To(BeEmpty())
}

func TestFrameModeKeepsNeighbours(t *testing.T) {
	g := NewWithT(t)
	bus := newFakeBus()
	bus.set(0x13, regPortControl, 0xFFFF)
	d := newTestDev(t, bus, Options{})

	g.Expect(d.SetFrameMode(3, FrameNormal)).To(Succeed())
	g.Expect(bus.get(0x13, regPortControl)).To(Equal(uint16(0xFCFF)))
}

func TestJumboModeBoundaries(t *testing.T) {
	g := NewWithT(t)
	g.Expect(JumboModeFor(1522)).To(Equal(Jumbo1522))
	g.Expect(JumboModeFor(1523)).To(Equal(Jumbo2048))
	g.Expect(JumboModeFor(2048)).To(Equal(Jumbo2048))
	g.Expect(JumboModeFor(2049)).To(Equal(Jumbo10240))
}

func TestJumboSizeAppliesToEveryPort(t *testing.T) {
	g := NewWithT(t)
	bus := newFakeBus()
	d := newTestDev(t, bus, Options{})

	g.Expect(d.SetJumboSize(9000)).To(Succeed())
	for p := uint8(0); p < 7; p++ {
		g.Expect(bus.get(0x10+p, regPortControl2)).To(Equal(uint16(2 << 12)))
	}
}

func TestVlanPortMaskUsesMaxPortsField(t *testing.T) {
	g := NewWithT(t)
	bus := newFakeBus()
	bus.set(0x11, regVlanMap, 0xF800)
	d := newTestDev(t, bus, Options{})

	g.Expect(d.SetVlanPortMask(1, 0x2D)).To(Succeed())
	g.Expect(bus.get(0x11, regVlanMap)).To(Equal(uint16(0xF82D)))
}

func TestPVIDFields(t *testing.T) {
	g := NewWithT(t)
	bus := newFakeBus()
	d := newTestDev(t, bus, Options{})

	g.Expect(d.SetDefaultVID(4, 0x123)).To(Succeed())
	g.Expect(d.SetDefaultTC(4, 5)).To(Succeed())
	g.Expect(bus.get(0x14, regPVID)).To(Equal(uint16(5<<13 | 0x123)))
}

func TestCPUPortForcing(t *testing.T) {
	g := NewWithT(t)
	bus := newFakeBus()
	d := newTestDev(t, bus, Options{})

	g.Expect(d.SetForceSpeed(5, ForceSpeed1000)).To(Succeed())
	g.Expect(d.SetDpxValue(5, true)).To(Succeed())
	g.Expect(d.SetForcedDpx(5, true)).To(Succeed())
	g.Expect(d.SetFCValue(5, true)).To(Succeed())
	g.Expect(d.SetForcedFC(5, true)).To(Succeed())
	g.Expect(d.SetLinkValue(5, true)).To(Succeed())
	g.Expect(d.SetForcedLink(5, true)).To(Succeed())

	g.Expect(bus.get(0x15, regPCSControl)).To(Equal(uint16(0x00FE)))
}

func TestQoSBits(t *testing.T) {
	g := NewWithT(t)
	bus := newFakeBus()
	d := newTestDev(t, bus, Options{})

	g.Expect(d.SetUserPrioMap(0, true)).To(Succeed())
	g.Expect(d.SetIPPrioMap(0, true)).To(Succeed())
	g.Expect(d.SetPrioMapRule(0, true)).To(Succeed())
	g.Expect(d.SetVlanTunnel(0, true)).To(Succeed())
	g.Expect(d.SetHeaderMode(0, true)).To(Succeed())
	g.Expect(bus.get(0x10, regPortControl)).To(Equal(uint16(1<<11 | 0xF0)))
}

func TestPortStatus(t *testing.T) {
	g := NewWithT(t)
	bus := newFakeBus()
	bus.set(0x13, regPortStatus, 0x0E00)
	d := newTestDev(t, bus, Options{})

	s, err := d.PortStatus(3)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(s.LinkString()).To(Equal("Up"))
	g.Expect(s.DuplexString()).To(Equal("Full"))
	g.Expect(s.SpeedString()).To(Equal("1000Mbps"))

	up, err := d.LinkState(0)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(up).To(BeFalse())
}

func TestReadModifyWriteIsNotInterleaved(t *testing.T) {
	g := NewWithT(t)
	bus := newFakeBus()
	d := newTestDev(t, bus, Options{})

	var wg sync.WaitGroup
	for p := uint8(0); p < 7; p++ {
		wg.Add(1)
		go func(p uint8) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_ = d.SetHeaderMode(p, i%2 == 0)
			}
		}(p)
	}
	wg.Wait()

	g.Expect(len(bus.trace) % 2).To(Equal(0))
	for i := 0; i < len(bus.trace); i += 2 {
		r, wr := bus.trace[i], bus.trace[i+1]
		g.Expect(r.write).To(BeFalse())
		g.Expect(wr.write).To(BeTrue())
		g.Expect(wr.dev).To(Equal(r.dev))
	}
}
