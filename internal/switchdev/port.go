// internal/switchdev/port.go
package switchdev

import (
	"fmt"

	"github.com/tamzrod/mvswitch/internal/addr"
	"github.com/tamzrod/mvswitch/internal/status"
)

// PortState is the 802.1D state of a port.
type PortState uint16

const (
	PortDisabled   PortState = 0
	PortBlocking   PortState = 1
	PortLearning   PortState = 2
	PortForwarding PortState = 3
)

func (s PortState) String() string {
	switch s {
	case PortDisabled:
		return "disabled"
	case PortBlocking:
		return "blocking"
	case PortLearning:
		return "learning"
	case PortForwarding:
		return "forwarding"
	default:
		return fmt.Sprintf("state(%d)", uint16(s))
	}
}

// EgressMode selects VLAN tag handling on egress.
type EgressMode uint8

const (
	EgressUnmodify EgressMode = iota
	EgressTagged
	EgressUntagged
	EgressAddTag
)

// FrameMode selects the port's frame format.
type FrameMode uint16

const (
	FrameNormal       FrameMode = 0
	FrameDSA          FrameMode = 1
	FrameProvider     FrameMode = 2
	FrameEtherTypeDSA FrameMode = 3
)

// Dot1qMode selects 802.1Q ingress filtering.
type Dot1qMode uint16

const (
	Dot1qDisabled Dot1qMode = 0
	Dot1qFallback Dot1qMode = 1
	Dot1qCheck    Dot1qMode = 2
	Dot1qSecure   Dot1qMode = 3
)

// JumboMode is the maximum frame size class.
type JumboMode uint16

const (
	Jumbo1522  JumboMode = 0
	Jumbo2048  JumboMode = 1
	Jumbo10240 JumboMode = 2
)

// JumboModeFor maps a maximum frame size to its size class.
func JumboModeFor(size int) JumboMode {
	switch {
	case size <= 1522:
		return Jumbo1522
	case size <= 2048:
		return Jumbo2048
	default:
		return Jumbo10240
	}
}

// ---- PORT_CONTROL ----

func (d *Dev) SetPortState(port uint8, s PortState) error {
	if s > PortForwarding {
		return fmt.Errorf("%w: port state %d", ErrBadParameter, s)
	}
	return d.portField(port, regPortControl, 0, 2, uint16(s))
}

// SetEgressMode programs egress tagging. An unknown mode fails without
// touching the bus.
func (d *Dev) SetEgressMode(port uint8, m EgressMode) error {
	var v uint16
	switch m {
	case EgressUnmodify:
		v = 0
	case EgressUntagged:
		v = 1
	case EgressTagged:
		v = 2
	case EgressAddTag:
		v = 3
	default:
		return fmt.Errorf("%w: egress mode %d", ErrFail, m)
	}
	return d.portField(port, regPortControl, 12, 2, v)
}

// SetFrameMode selects the port's frame format.
func (d *Dev) SetFrameMode(port uint8, m FrameMode) error {
	switch m {
	case FrameNormal, FrameDSA, FrameProvider, FrameEtherTypeDSA:
	default:
		return fmt.Errorf("%w: frame mode %d", ErrBadParameter, m)
	}
	return d.portField(port, regPortControl, 8, 2, uint16(m))
}

// SetHeaderMode enables the 2-byte ingress/egress header.
func (d *Dev) SetHeaderMode(port uint8, on bool) error {
	return d.portField(port, regPortControl, 11, 1, bit(on))
}

// SetVlanTunnel lets frames bypass VLAN membership checks.
func (d *Dev) SetVlanTunnel(port uint8, on bool) error {
	return d.portField(port, regPortControl, 7, 1, bit(on))
}

// SetPrioMapRule selects which priority wins when both IP and tag
// priority are present (true = tag).
func (d *Dev) SetPrioMapRule(port uint8, tag bool) error {
	return d.portField(port, regPortControl, 6, 1, bit(tag))
}

// SetIPPrioMap enables priority from the IP DiffServ field.
func (d *Dev) SetIPPrioMap(port uint8, on bool) error {
	return d.portField(port, regPortControl, 5, 1, bit(on))
}

// SetUserPrioMap enables priority from the 802.1p tag.
func (d *Dev) SetUserPrioMap(port uint8, on bool) error {
	return d.portField(port, regPortControl, 4, 1, bit(on))
}

// ---- PORT_CONTROL2 ----

// SetJumboMode sets the largest frame size class the port accepts.
func (d *Dev) SetJumboMode(port uint8, m JumboMode) error {
	if m > Jumbo10240 {
		return fmt.Errorf("%w: jumbo mode %d", ErrBadParameter, m)
	}
	return d.portField(port, regPortControl2, 12, 2, uint16(m))
}

// SetJumboSize applies the size class for size to every port.
func (d *Dev) SetJumboSize(size int) error {
	m := JumboModeFor(size)
	for p := uint8(0); p < d.info.NumPorts; p++ {
		if !d.info.ValidPort(p) {
			continue
		}
		if err := d.SetJumboMode(p, m); err != nil {
			d.log.Error(err, "set jumbo mode", "port", p, "mode", m)
			return err
		}
	}
	return nil
}

// SetDot1qMode sets 802.1Q VLAN enforcement for the port.
func (d *Dev) SetDot1qMode(port uint8, m Dot1qMode) error {
	if m > Dot1qSecure {
		return fmt.Errorf("%w: 802.1q mode %d", ErrBadParameter, m)
	}
	return d.portField(port, regPortControl2, 10, 2, uint16(m))
}

// ---- VLAN_MAP / PVID ----

// SetVlanPortMask sets the ports this port may forward to.
func (d *Dev) SetVlanPortMask(port uint8, mask uint16) error {
	if mask&0x80 != 0 {
		return fmt.Errorf("%w: vlan port mask 0x%x", ErrBadParameter, mask)
	}
	return d.portField(port, regVlanMap, 0, d.info.MaxPorts, mask)
}

// SetDefaultTC sets the traffic class given to untagged frames.
func (d *Dev) SetDefaultTC(port uint8, tc uint8) error {
	if tc > 7 {
		return fmt.Errorf("%w: traffic class %d", ErrBadParameter, tc)
	}
	return d.portField(port, regPVID, 13, 3, uint16(tc))
}

// SetDefaultVID sets the VID given to untagged frames.
func (d *Dev) SetDefaultVID(port uint8, vid uint16) error {
	if vid > 0xFFF {
		return fmt.Errorf("%w: vid %d", ErrBadParameter, vid)
	}
	return d.portField(port, regPVID, 0, 12, vid)
}

// ---- PORT_STATUS ----

// PortStatus reads and decodes the port status register.
func (d *Dev) PortStatus(port uint8) (status.Snapshot, error) {
	if err := d.checkPort(port); err != nil {
		return status.Snapshot{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	v, err := d.read(addr.KindPort, port, regPortStatus)
	if err != nil {
		return status.Snapshot{}, err
	}
	return status.Decode(port, v), nil
}

// LinkState reports whether the port's link is up.
func (d *Dev) LinkState(port uint8) (bool, error) {
	s, err := d.PortStatus(port)
	if err != nil {
		return false, err
	}
	return s.Link, nil
}
