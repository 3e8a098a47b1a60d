// internal/bringup/types.go
package bringup

import "github.com/tamzrod/mvswitch/internal/switchdev"

// Switch is the port configuration vocabulary bring-up uses.
// *switchdev.Dev implements it.
type Switch interface {
	Info() switchdev.Device

	SetPortState(port uint8, s switchdev.PortState) error
	SetEgressMode(port uint8, m switchdev.EgressMode) error
	SetFrameMode(port uint8, m switchdev.FrameMode) error
	SetHeaderMode(port uint8, on bool) error
	SetVlanTunnel(port uint8, on bool) error
	SetDot1qMode(port uint8, m switchdev.Dot1qMode) error
	SetVlanPortMask(port uint8, mask uint16) error
	SetJumboSize(size int) error

	SetForceSpeed(port uint8, s switchdev.ForcedSpeed) error
	SetDpxValue(port uint8, full bool) error
	SetForcedDpx(port uint8, on bool) error
	SetFCValue(port uint8, on bool) error
	SetForcedFC(port uint8, on bool) error
	SetLinkValue(port uint8, up bool) error
	SetForcedLink(port uint8, on bool) error

	InitPVT() error
	FlushATU(all bool) error
}

// VlanEntry sets the ports one port may forward to.
type VlanEntry struct {
	Port uint8
	Mask uint16
}

// Plan is the declarative part of bring-up.
type Plan struct {
	MTU       int
	PortsMask uint16
	CPUPorts  []uint8
	VlanMap   []VlanEntry // applied in order
}
