// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/mvswitch/internal/diag"
	"github.com/tamzrod/mvswitch/internal/poller"
	"github.com/tamzrod/mvswitch/internal/status"
)

// linkWriter mirrors poll results into one holding-register block.
// The first write, and the first write after any failure, re-asserts the
// whole block. Otherwise only changed registers are written.
type linkWriter struct {
	plan  Plan
	cli   endpointClient
	index map[uint8]int

	needFull bool
	last     []uint16
	nameRegs []uint16
}

// New builds a Writer for plan on cli.
func New(plan Plan, cli endpointClient) (Writer, error) {
	if cli == nil {
		return nil, errors.New("writer: nil client")
	}
	if int(plan.BaseAddr)+blockLen(len(plan.Ports)) > 0x10000 {
		return nil, fmt.Errorf("writer: block at %d for %d ports overflows the register space", plan.BaseAddr, len(plan.Ports))
	}

	index := make(map[uint8]int, len(plan.Ports))
	for i, p := range plan.Ports {
		if _, dup := index[p]; dup {
			return nil, fmt.Errorf("writer: port %d listed twice", p)
		}
		index[p] = i
	}

	return &linkWriter{
		plan:     plan,
		cli:      cli,
		index:    index,
		needFull: true,
		nameRegs: encodeDeviceNameRegs(plan.DeviceName),
	}, nil
}

// Write delivers one poll result.
// A failed poll updates the health slots and leaves the port blocks alone.
func (w *linkWriter) Write(res poller.PollResult) error {
	regs := w.block(res)

	if w.needFull {
		if err := w.cli.WriteRegisters(w.plan.UnitID, w.plan.BaseAddr, regs); err != nil {
			w.needFull = true
			return fmt.Errorf("writer: full block write failed: %w", err)
		}
		w.needFull = false
		w.last = regs
		return nil
	}

	var errs []string
	for _, r := range changedRuns(w.last, regs) {
		start, end := r[0], r[1]
		addr := w.plan.BaseAddr + uint16(start)
		if err := w.cli.WriteRegisters(w.plan.UnitID, addr, regs[start:end]); err != nil {
			errs = append(errs, fmt.Sprintf("slot %d..%d write failed: %v", start, end-1, err))
			continue
		}
		copy(w.last[start:end], regs[start:end])
	}

	if len(errs) > 0 {
		// Partial failure leaves the remote block in doubt.
		w.needFull = true
		return errors.New("writer: " + strings.Join(errs, " | "))
	}
	return nil
}

// block renders the full register image for res.
func (w *linkWriter) block(res poller.PollResult) []uint16 {
	regs := make([]uint16, blockLen(len(w.plan.Ports)))
	if w.last != nil {
		copy(regs, w.last)
	}

	if res.Err != nil {
		regs[SlotHealthCode] = HealthError
		regs[SlotLastErrorCode] = uint16(diag.Code(res.Err))
	} else {
		regs[SlotHealthCode] = HealthOK
		regs[SlotLastErrorCode] = 0
	}
	regs[SlotPortCount] = uint16(len(w.plan.Ports))
	copy(regs[SlotDeviceNameStart:SlotDeviceNameStart+SlotDeviceNameSlots], w.nameRegs)

	if res.Err != nil {
		return regs
	}
	for _, s := range res.Ports {
		i, ok := w.index[s.Port]
		if !ok {
			continue
		}
		base := SlotPortsStart + i*SlotsPerPort
		regs[base+PortSlotLink] = boolReg(s.Link)
		regs[base+PortSlotDuplex] = boolReg(s.Full)
		regs[base+PortSlotSpeed] = speedMbps(s.Speed)
		regs[base+PortSlotRaw] = s.Raw
	}
	return regs
}

// changedRuns returns [start, end) ranges where cur differs from prev.
func changedRuns(prev, cur []uint16) [][2]int {
	var runs [][2]int
	start := -1
	for i := range cur {
		diff := i >= len(prev) || prev[i] != cur[i]
		switch {
		case diff && start < 0:
			start = i
		case !diff && start >= 0:
			runs = append(runs, [2]int{start, i})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, [2]int{start, len(cur)})
	}
	return runs
}

func boolReg(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}

func speedMbps(code uint16) uint16 {
	switch code {
	case status.Speed1000:
		return 1000
	case status.Speed100:
		return 100
	default:
		return 10
	}
}

// encodeDeviceNameRegs packs up to 16 ASCII characters into 8 uint16 registers.
// Each register stores two ASCII bytes in big-endian order.
func encodeDeviceNameRegs(name string) []uint16 {
	out := make([]uint16, SlotDeviceNameSlots)

	b := []byte(name)
	if len(b) > DeviceNameMaxChars {
		b = b[:DeviceNameMaxChars]
	}

	// sanitize to printable ASCII
	for i := range b {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < DeviceNameMaxChars; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}

	return out
}
