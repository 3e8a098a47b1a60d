// internal/switchdev/dev.go
package switchdev

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-logr/logr"

	"github.com/tamzrod/mvswitch/internal/addr"
	"github.com/tamzrod/mvswitch/internal/field"
	"github.com/tamzrod/mvswitch/internal/smi"
)

// Bus is the SMI access the switch layer needs.
// *smi.Transport implements it.
type Bus interface {
	Read(devAddr, regAddr uint8) (uint16, error)
	Write(devAddr, regAddr uint8, v uint16) error
	ReadRaw() (uint32, error)
	WriteRaw(v uint32) error
}

// Options tunes the switch layer.
type Options struct {
	// TableWait bounds the ATU/PVT busy waits.
	// The zero value waits forever, which is what real hardware expects.
	TableWait smi.Poll
}

// Dev is the single handle to one attached switch.
//
// Every exported method holds the bus lock for its whole register
// sequence: a read-modify-write or a table transaction is never
// interleaved with another caller's.
type Dev struct {
	mu   sync.Mutex
	bus  Bus
	info Device
	opts Options
	log  logr.Logger
}

// New validates info and binds it to bus.
func New(bus Bus, info Device, opts Options, log logr.Logger) (*Dev, error) {
	if bus == nil {
		return nil, errors.New("switchdev: bus required")
	}
	if err := info.Check(); err != nil {
		return nil, err
	}
	return &Dev{
		bus:  bus,
		info: info,
		opts: opts,
		log:  log.WithValues("model", info.Model.String()),
	}, nil
}

// Info returns the device context.
func (d *Dev) Info() Device {
	return d.info
}

// ---- unlocked helpers (caller holds d.mu) ----

func (d *Dev) route(k addr.Kind, port uint8) (uint8, error) {
	r := addr.Map(port, k)
	if r.Raw {
		return 0, fmt.Errorf("%w: raw access has no device address", ErrFail)
	}
	if r.Invalid {
		return 0, fmt.Errorf("%w: %s port %d", smi.ErrInvalidAddress, k, port)
	}
	return r.Addr, nil
}

func (d *Dev) read(k addr.Kind, port, reg uint8) (uint16, error) {
	dev, err := d.route(k, port)
	if err != nil {
		return 0, err
	}
	return d.bus.Read(dev, reg)
}

func (d *Dev) write(k addr.Kind, port, reg uint8, v uint16) error {
	dev, err := d.route(k, port)
	if err != nil {
		return err
	}
	return d.bus.Write(dev, reg, v)
}

func (d *Dev) writeField(k addr.Kind, port, reg, offset, length uint8, v uint16) error {
	dev, err := d.route(k, port)
	if err != nil {
		return err
	}
	return field.Write(d.bus, dev, reg, offset, length, v)
}

func (d *Dev) checkPort(port uint8) error {
	if !d.info.ValidPort(port) {
		return fmt.Errorf("%w: port %d", ErrBadParameter, port)
	}
	return nil
}

func (d *Dev) checkPHY(port uint8) error {
	if !d.info.ValidPHY(port) {
		return fmt.Errorf("%w: phy %d", ErrBadParameter, port)
	}
	return nil
}

// portField is the common shape of every single-field port setter.
func (d *Dev) portField(port, reg, offset, length uint8, v uint16) error {
	if err := d.checkPort(port); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeField(addr.KindPort, port, reg, offset, length, v)
}

func bit(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}
