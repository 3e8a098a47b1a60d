// internal/writer/layout.go
package writer

// Holding-register layout of a published block, relative to Plan.BaseAddr.
const (
	SlotHealthCode    = 0
	SlotLastErrorCode = 1
	SlotPortCount     = 2

	// Slots 3..7 are reserved and written as zero.

	SlotDeviceNameStart = 8
	SlotDeviceNameSlots = 8
	DeviceNameMaxChars  = 2 * SlotDeviceNameSlots

	SlotPortsStart = 16
	SlotsPerPort   = 4
)

// Per-port slots, relative to the port's block.
const (
	PortSlotLink   = 0
	PortSlotDuplex = 1
	PortSlotSpeed  = 2 // Mbps
	PortSlotRaw    = 3 // port status register as read
)

const (
	HealthUnknown uint16 = 0
	HealthOK      uint16 = 1
	HealthError   uint16 = 2
)

func blockLen(ports int) int {
	return SlotPortsStart + ports*SlotsPerPort
}
