// internal/switchdev/register.go
package switchdev

import (
	"fmt"

	"github.com/tamzrod/mvswitch/internal/addr"
)

// ReadRegister reads one register by access kind.
// For KindRaw, port and reg are ignored and the whole host SMI control
// register is returned. Unknown kinds fail instead of taking the address
// mapper's fallback.
func (d *Dev) ReadRegister(k addr.Kind, port, reg uint8) (uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch k {
	case addr.KindRaw:
		return d.bus.ReadRaw()
	case addr.KindPHY, addr.KindPort, addr.KindGlobal, addr.KindGlobal2:
		v, err := d.read(k, port, reg)
		return uint32(v), err
	default:
		d.log.Info("unexpected access kind", "kind", uint8(k))
		return 0, fmt.Errorf("%w: access kind %s", ErrFail, k)
	}
}

// WriteRegister writes one register by access kind.
// For KindRaw, v is stored straight into the host SMI control register;
// other kinds keep only the low 16 bits.
func (d *Dev) WriteRegister(k addr.Kind, port, reg uint8, v uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch k {
	case addr.KindRaw:
		return d.bus.WriteRaw(v)
	case addr.KindPHY, addr.KindPort, addr.KindGlobal, addr.KindGlobal2:
		return d.write(k, port, reg, uint16(v))
	default:
		d.log.Info("unexpected access kind", "kind", uint8(k))
		return fmt.Errorf("%w: access kind %s", ErrFail, k)
	}
}

// WriteField performs a locked read-modify-write of one register field.
func (d *Dev) WriteField(k addr.Kind, port, reg, offset, length uint8, v uint16) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeField(k, port, reg, offset, length, v)
}
