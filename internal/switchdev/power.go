// internal/switchdev/power.go
package switchdev

import (
	"errors"

	"github.com/tamzrod/mvswitch/internal/addr"
	"github.com/tamzrod/mvswitch/internal/field"
)

// onPage runs fn with the PHY's register page set to page and puts back
// the page that was active on entry on every exit path.
// Caller holds d.mu.
func (d *Dev) onPage(port, page uint8, fn func() error) error {
	cur, err := d.read(addr.KindPHY, port, regPHYPage)
	if err != nil {
		return err
	}
	prev := uint8(field.Extract(cur, 0, 8))

	err = d.selectPage(port, page)
	if err == nil {
		err = fn()
	}
	return errors.Join(err, d.selectPage(port, prev))
}

func (d *Dev) selectPage(port, page uint8) error {
	return d.writeField(addr.KindPHY, port, regPHYPage, 0, 8, uint16(page))
}

// SetPortPower powers the port's PHY up or down.
//
// Order matters: the GMII power-down bit lives on page 2, the copper
// transmitter and power-down bits on page 0. The PHY is left on the page
// it was on before the call.
func (d *Dev) SetPortPower(port uint8, on bool) error {
	if err := d.checkPHY(port); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	pscr, down := uint16(3), uint16(1)
	if on {
		pscr, down = 0, 0
	}

	return d.onPage(port, 2, func() error {
		if err := d.writeField(addr.KindPHY, port, regPHYSpecControl, 3, 1, bit(on)); err != nil {
			d.log.Error(err, "phy power: page 2", "port", port, "on", on)
			return err
		}
		if err := d.selectPage(port, 0); err != nil {
			return err
		}
		if err := d.writeField(addr.KindPHY, port, regPHYSpecControl, 2, 2, pscr); err != nil {
			return err
		}
		return d.writeField(addr.KindPHY, port, regPHYControl, 11, 1, down)
	})
}

// PortPower reports whether the port's PHY is powered up.
func (d *Dev) PortPower(port uint8) (bool, error) {
	if err := d.checkPHY(port); err != nil {
		return false, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	v, err := d.read(addr.KindPHY, port, regPHYControl)
	if err != nil {
		return false, err
	}
	return v&(1<<11) == 0, nil
}
