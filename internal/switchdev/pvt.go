// internal/switchdev/pvt.go
package switchdev

import (
	"fmt"

	"github.com/tamzrod/mvswitch/internal/addr"
	"github.com/tamzrod/mvswitch/internal/metrics"
)

// PVTOp is a cross-chip port VLAN table opcode.
type PVTOp uint16

const (
	PVTInitialize PVTOp = 1
	PVTWrite      PVTOp = 3
	PVTRead       PVTOp = 4
)

func (op PVTOp) String() string {
	switch op {
	case PVTInitialize:
		return "initialize"
	case PVTWrite:
		return "write"
	case PVTRead:
		return "read"
	default:
		return fmt.Sprintf("op(%d)", uint16(op))
	}
}

// PVTMaxAddr is the last cell of the table.
const PVTMaxAddr = 0x1FF

// pvtOperation runs one PVT transaction and returns the cell for PVTRead.
// Caller holds d.mu.
func (d *Dev) pvtOperation(op PVTOp, cell, data uint16) (uint16, error) {
	if err := d.waitTable(addr.KindGlobal2, regPVTAddr); err != nil {
		return 0, err
	}

	metrics.TableOperationsTotal.WithLabelValues("pvt", op.String()).Inc()
	switch op {
	case PVTInitialize:
		return 0, d.write(addr.KindGlobal2, 0, regPVTAddr, tableBusy|uint16(op)<<12)

	case PVTWrite:
		if err := d.write(addr.KindGlobal2, 0, regPVTData, data); err != nil {
			return 0, err
		}
		return 0, d.write(addr.KindGlobal2, 0, regPVTAddr, tableBusy|uint16(op)<<12|cell)

	case PVTRead:
		if err := d.write(addr.KindGlobal2, 0, regPVTAddr, tableBusy|uint16(op)<<12|cell); err != nil {
			return 0, err
		}
		if err := d.waitTable(addr.KindGlobal2, regPVTAddr); err != nil {
			return 0, err
		}
		return d.read(addr.KindGlobal2, 0, regPVTData)

	default:
		return 0, fmt.Errorf("%w: pvt op %d", ErrFail, op)
	}
}

// InitPVT resets every cell of the table to all ones.
func (d *Dev) InitPVT() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.pvtOperation(PVTInitialize, 0, 0)
	return err
}

// WritePVT stores data in one cell of the port VLAN table.
func (d *Dev) WritePVT(cell, data uint16) error {
	if cell > PVTMaxAddr {
		return fmt.Errorf("%w: pvt address 0x%x", ErrBadParameter, cell)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.pvtOperation(PVTWrite, cell, data)
	return err
}

// ReadPVT returns one cell of the port VLAN table.
func (d *Dev) ReadPVT(cell uint16) (uint16, error) {
	if cell > PVTMaxAddr {
		return 0, fmt.Errorf("%w: pvt address 0x%x", ErrBadParameter, cell)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pvtOperation(PVTRead, cell, 0)
}
