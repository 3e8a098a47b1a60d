// internal/switchdev/pcs.go
package switchdev

import "fmt"

// ForcedSpeed is the PCS force-speed value.
type ForcedSpeed uint16

const (
	ForceSpeed10   ForcedSpeed = 0
	ForceSpeed100  ForcedSpeed = 1
	ForceSpeed1000 ForcedSpeed = 2
	ForceSpeedNone ForcedSpeed = 3
)

// SetForceSpeed forces the MAC speed, or releases it with ForceSpeedNone.
func (d *Dev) SetForceSpeed(port uint8, s ForcedSpeed) error {
	if s > ForceSpeedNone {
		return fmt.Errorf("%w: forced speed %d", ErrBadParameter, s)
	}
	return d.portField(port, regPCSControl, 0, 2, uint16(s))
}

// SetDpxValue selects the duplex used when duplex is forced (true = full).
func (d *Dev) SetDpxValue(port uint8, full bool) error {
	return d.portField(port, regPCSControl, 3, 1, bit(full))
}

func (d *Dev) SetForcedDpx(port uint8, on bool) error {
	return d.portField(port, regPCSControl, 2, 1, bit(on))
}

// SetFCValue selects the flow-control state used when it is forced.
func (d *Dev) SetFCValue(port uint8, on bool) error {
	return d.portField(port, regPCSControl, 7, 1, bit(on))
}

func (d *Dev) SetForcedFC(port uint8, on bool) error {
	return d.portField(port, regPCSControl, 6, 1, bit(on))
}

// SetLinkValue selects the link state used when the link is forced.
func (d *Dev) SetLinkValue(port uint8, up bool) error {
	return d.portField(port, regPCSControl, 5, 1, bit(up))
}

func (d *Dev) SetForcedLink(port uint8, on bool) error {
	return d.portField(port, regPCSControl, 4, 1, bit(on))
}
