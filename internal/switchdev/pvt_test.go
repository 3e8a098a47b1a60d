// internal/switchdev/pvt_test.go
package switchdev

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestPVTInitialize(t *testing.T) {
	g := NewWithT(t)
	bus := newFakeBus()
	d := newTestDev(t, bus, Options{})

	g.Expect(d.InitPVT()).To(Succeed())
	g.Expect(bus.writes()).To(Equal([]access{w(0x1C, regPVTAddr, 0x9000)}))
}

func TestPVTWriteDataBeforeOpcode(t *testing.T) {
	g := NewWithT(t)
	bus := newFakeBus()
	d := newTestDev(t, bus, Options{})

	g.Expect(d.WritePVT(0x1A5, 0x007F)).To(Succeed())
	g.Expect(bus.writes()).To(Equal([]access{
		w(0x1C, regPVTData, 0x007F),
		w(0x1C, regPVTAddr, 0xB1A5),
	}))
}

func TestPVTRead(t *testing.T) {
	g := NewWithT(t)
	bus := newFakeBus()
	bus.set(0x1C, regPVTData, 0x0055)
	d := newTestDev(t, bus, Options{})

	v, err := d.ReadPVT(0x003)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(v).To(Equal(uint16(0x0055)))
	g.Expect(bus.writes()).To(Equal([]access{w(0x1C, regPVTAddr, 0xC003)}))
}

func TestPVTAddressRange(t *testing.T) {
	g := NewWithT(t)
	bus := newFakeBus()
	d := newTestDev(t, bus, Options{})

	g.Expect(d.WritePVT(0x200, 0)).To(MatchError(ErrBadParameter))
	_, err := d.ReadPVT(0x200)
	g.Expect(err).To(MatchError(ErrBadParameter))
	g.Expect(bus.trace).To(BeEmpty())
}

func TestPVTWriteStopsOnDataError(t *testing.T) {
	g := NewWithT(t)
	bus := newFakeBus()
	bus.failWrite = &[2]uint8{0x1C, regPVTData}
	d := newTestDev(t, bus, Options{})

	g.Expect(d.WritePVT(0x10, 0x7F)).NotTo(Succeed())
	g.Expect(bus.writes()).To(Equal([]access{w(0x1C, regPVTData, 0x7F)}))
}
