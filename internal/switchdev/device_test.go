// internal/switchdev/device_test.go
package switchdev

import (
	"testing"

	"github.com/go-logr/logr"
	. "github.com/onsi/gomega"
)

func TestSupportedModels(t *testing.T) {
	g := NewWithT(t)
	for _, m := range []Model{Model88E6161, Model88E6165, Model88E6171, Model88E6351, Model88E6172, Model88E6176} {
		d, err := NewDevice(m)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(d.ValidPortVec).To(Equal(uint16(0x7F)))
		g.Expect(d.CPUPort).To(Equal(uint8(5)))
	}
}

func TestUnsupportedModelIsFatal(t *testing.T) {
	g := NewWithT(t)
	_, err := NewDevice(Model(0x6097))
	g.Expect(err).To(MatchError(ErrNotSupported))

	_, err = New(newFakeBus(), Device{Model: 0x999, NumPorts: 7, MaxPorts: 7}, Options{}, logr.Discard())
	g.Expect(err).To(MatchError(ErrNotSupported))
}

func TestParseModel(t *testing.T) {
	g := NewWithT(t)
	for _, s := range []string{"88E6172", "88e6172", "6172", "0x172"} {
		m, err := ParseModel(s)
		g.Expect(err).NotTo(HaveOccurred(), s)
		g.Expect(m).To(Equal(Model88E6172))
	}
	_, err := ParseModel("88E6390")
	g.Expect(err).To(MatchError(ErrNotSupported))
}

func TestDeviceCheckRanges(t *testing.T) {
	g := NewWithT(t)
	d, _ := NewDevice(Model88E6176)

	bad := d
	bad.CPUPort = 7
	g.Expect(bad.Check()).NotTo(Succeed())

	bad = d
	bad.NumPorts = 12
	g.Expect(bad.Check()).NotTo(Succeed())

	bad = d
	bad.MaxPorts = 6
	g.Expect(bad.Check()).NotTo(Succeed())
}
