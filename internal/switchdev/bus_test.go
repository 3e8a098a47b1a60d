// internal/switchdev/bus_test.go
package switchdev

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/go-logr/logr"
)

// ---- fake bus ----

type access struct {
	write bool
	dev   uint8
	reg   uint8
	v     uint16
}

func (a access) String() string {
	op := "r"
	if a.write {
		op = "w"
	}
	return fmt.Sprintf("%s %02x/%02x=%04x", op, a.dev, a.reg, a.v)
}

// fakeBus is a flat register file. Table operation registers complete
// instantly unless stuck is set.
type fakeBus struct {
	mu    sync.Mutex
	regs  map[[2]uint8]uint16
	trace []access
	raw   uint32

	stuck      bool
	cause      uint16
	failRead   *[2]uint8
	failWrite  *[2]uint8
	afterWrite func(f *fakeBus, dev, reg uint8, v uint16)
}

func newFakeBus() *fakeBus {
	return &fakeBus{regs: map[[2]uint8]uint16{}}
}

func (f *fakeBus) Read(dev, reg uint8) (uint16, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.regs[[2]uint8{dev, reg}]
	f.trace = append(f.trace, access{dev: dev, reg: reg, v: v})
	if f.failRead != nil && *f.failRead == [2]uint8{dev, reg} {
		return 0, errors.New("bus read failed")
	}
	return v, nil
}

func (f *fakeBus) Write(dev, reg uint8, v uint16) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, access{write: true, dev: dev, reg: reg, v: v})
	if f.failWrite != nil && *f.failWrite == [2]uint8{dev, reg} {
		return errors.New("bus write failed")
	}

	stored := v
	if isTableOp(dev, reg) && !f.stuck {
		stored = v&^tableBusy | f.cause<<4
	}
	f.regs[[2]uint8{dev, reg}] = stored
	if f.afterWrite != nil {
		f.afterWrite(f, dev, reg, v)
	}
	return nil
}

func (f *fakeBus) ReadRaw() (uint32, error) { return f.raw, nil }

func (f *fakeBus) WriteRaw(v uint32) error {
	f.raw = v
	return nil
}

func (f *fakeBus) set(dev, reg uint8, v uint16) {
	f.regs[[2]uint8{dev, reg}] = v
}

func (f *fakeBus) get(dev, reg uint8) uint16 {
	return f.regs[[2]uint8{dev, reg}]
}

func (f *fakeBus) writes() []access {
	var out []access
	for _, a := range f.trace {
		if a.write {
			out = append(out, a)
		}
	}
	return out
}

func isTableOp(dev, reg uint8) bool {
	return (dev == 0x1B && reg == regATUOperation) || (dev == 0x1C && reg == regPVTAddr)
}

func w(dev, reg uint8, v uint16) access {
	return access{write: true, dev: dev, reg: reg, v: v}
}

func newTestDev(t *testing.T, bus *fakeBus, opts Options) *Dev {
	t.Helper()
	info, err := NewDevice(Model88E6172)
	if err != nil {
		t.Fatalf("NewDevice err=%v", err)
	}
	d, err := New(bus, info, opts, logr.Discard())
	if err != nil {
		t.Fatalf("New err=%v", err)
	}
	return d
}
