// internal/writer/types.go
package writer

import "github.com/tamzrod/mvswitch/internal/poller"

// Plan is where one switch's link state is published.
type Plan struct {
	UnitID     uint8
	BaseAddr   uint16
	DeviceName string

	// Ports fixes the order of the per-port blocks.
	Ports []uint8
}

// Writer publishes poll results.
type Writer interface {
	Write(res poller.PollResult) error
}

// endpointClient is the exact contract the writer uses.
type endpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}
