// internal/status/constants.go
package status

// Port status register layout (port block, register 0x00).
// These values are fixed by the chip and MUST NOT be configurable.

// ---- BIT POSITIONS ----

// BitLink is set while the port's link is up.
const BitLink = 11

// BitDuplex is set for full duplex.
const BitDuplex = 10

// SpeedOffset and SpeedLength locate the resolved speed field.
const SpeedOffset = 8
const SpeedLength = 2

// ---- SPEED CODES ----

// Speed10 is 10 Mbps.
const Speed10 uint16 = 0

// Speed100 is 100 Mbps.
const Speed100 uint16 = 1

// Speed1000 is 1000 Mbps.
const Speed1000 uint16 = 2
