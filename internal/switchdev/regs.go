// internal/switchdev/regs.go
package switchdev

// Register map of the 88E61xx family.
// These values are fixed by the chip and MUST NOT be configurable.

// ---- PORT BLOCK (0x10 + port) ----

const (
	regPortStatus   = 0x00
	regPCSControl   = 0x01
	regPortControl  = 0x04
	regPortControl1 = 0x05
	regVlanMap      = 0x06
	regPVID         = 0x07
	regPortControl2 = 0x08
)

// ---- GLOBAL BLOCK (0x1B) ----

const (
	regATUFID       = 0x01
	regATUControl   = 0x0A
	regATUOperation = 0x0B
	regATUData      = 0x0C
	regATUMACBase   = 0x0D // three registers, 0x0D..0x0F
)

// ---- GLOBAL2 BLOCK (0x1C) ----

const (
	regPVTAddr = 0x0B
	regPVTData = 0x0C
)

// ---- PHY (device address = port) ----

const (
	regPHYControl     = 0
	regPHYSpecControl = 16
	regPHYPage        = 22
)

// tableBusy is bit 15 of the ATU and PVT operation registers.
const tableBusy = 1 << 15
