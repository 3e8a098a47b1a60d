// internal/switchdev/atu.go
package switchdev

import (
	"fmt"
	"net"

	"github.com/tamzrod/mvswitch/internal/addr"
	"github.com/tamzrod/mvswitch/internal/metrics"
)

// ATUOp is an address translation unit opcode.
type ATUOp uint16

const (
	ATUFlushAll          ATUOp = 1
	ATUFlushUnlocked     ATUOp = 2
	ATULoadPurge         ATUOp = 3
	ATUGetNext           ATUOp = 4
	ATUFlushAllInDB      ATUOp = 5
	ATUFlushUnlockedInDB ATUOp = 6
	ATUServiceViolations ATUOp = 7
)

func (op ATUOp) String() string {
	switch op {
	case ATUFlushAll:
		return "flush_all"
	case ATUFlushUnlocked:
		return "flush_unlocked"
	case ATULoadPurge:
		return "load_purge"
	case ATUGetNext:
		return "get_next"
	case ATUFlushAllInDB:
		return "flush_all_in_db"
	case ATUFlushUnlockedInDB:
		return "flush_unlocked_in_db"
	case ATUServiceViolations:
		return "service_violations"
	default:
		return fmt.Sprintf("op(%d)", uint16(op))
	}
}

// Entry states of interest. 0 means the entry is unused (and purges it
// on load); 0xF on a flush op turns the flush into a port move.
const (
	ATUStateUnused   uint8 = 0x0
	ATUStateMCStatic uint8 = 0x7
	ATUStateUCStatic uint8 = 0xE
	ATUStateMove     uint8 = 0xF
)

// ExtPriority holds the extended priority override of an entry.
type ExtPriority struct {
	UseMacFPri bool
	MacFPri    uint8
	MacQPri    uint8
}

// ATUEntry is one row of the forwarding table.
// The hardware table is authoritative; entries are never cached.
type ATUEntry struct {
	MAC     [6]byte
	DBNum   uint16 // 12 bits
	PortVec uint16
	Prio    uint8 // 2 bits
	State   uint8 // 4 bits
	Trunk   bool
	ExPrio  ExtPriority
}

// HardwareAddr returns the entry's MAC as a net.HardwareAddr.
func (e ATUEntry) HardwareAddr() net.HardwareAddr {
	return net.HardwareAddr(e.MAC[:])
}

// Broadcast is where a table walk starts and ends.
var Broadcast = [6]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

// Violation is the decoded ATU interrupt cause.
type Violation uint8

const (
	ViolationNone Violation = iota
	ViolationAge
	ViolationMember
	ViolationMiss
	ViolationFull
)

func (v Violation) String() string {
	switch v {
	case ViolationAge:
		return "age"
	case ViolationMember:
		return "member"
	case ViolationMiss:
		return "miss"
	case ViolationFull:
		return "full"
	default:
		return "none"
	}
}

// decodeViolation tests the cause nibble's bits in priority order 8, 4, 2, 1.
func decodeViolation(nibble uint16) Violation {
	switch {
	case nibble&0x8 != 0:
		return ViolationAge
	case nibble&0x4 != 0:
		return ViolationMember
	case nibble&0x2 != 0:
		return ViolationMiss
	case nibble&0x1 != 0:
		return ViolationFull
	default:
		return ViolationNone
	}
}

// ATUExtra carries the operation data that is not part of an entry.
type ATUExtra struct {
	MoveFrom uint8
	MoveTo   uint8
	Cause    Violation
}

// flushData is the ATU data word a flush-family op writes.
func flushData(state, from, to uint8) uint16 {
	if state != ATUStateMove {
		return 0
	}
	return 0xF | uint16(from&0xF)<<4 | uint16(to&0xF)<<8
}

// entryData packs priority, port vector and state into the ATU data word.
func (d *Dev) entryData(e *ATUEntry) uint16 {
	return uint16(e.Prio&0x3)<<14 | (e.PortVec&d.info.PortMask())<<4 | uint16(e.State&0xF)
}

// atuOperation runs one ATU transaction.
// On error the sequence stops where it failed; the chip has no rollback.
// Caller holds d.mu.
func (d *Dev) atuOperation(op ATUOp, extra *ATUExtra, e *ATUEntry) error {
	if extra == nil {
		extra = &ATUExtra{}
	}

	if err := d.waitTable(addr.KindGlobal, regATUOperation); err != nil {
		return err
	}

	switch op {
	case ATULoadPurge, ATUGetNext:
		if op == ATULoadPurge {
			if err := d.write(addr.KindGlobal, 0, regATUData, d.entryData(e)); err != nil {
				return err
			}
		}
		// load/purge shares the MAC setup with get-next
		if err := d.writeMAC(e.MAC); err != nil {
			return err
		}

	case ATUFlushAll, ATUFlushUnlocked, ATUFlushAllInDB, ATUFlushUnlockedInDB:
		data := flushData(e.State, extra.MoveFrom, extra.MoveTo)
		if err := d.write(addr.KindGlobal, 0, regATUData, data); err != nil {
			return err
		}

	case ATUServiceViolations:

	default:
		return fmt.Errorf("%w: atu op %d", ErrFail, op)
	}

	if err := d.writeField(addr.KindGlobal, 0, regATUFID, 0, 12, e.DBNum&0xFFF); err != nil {
		return err
	}

	metrics.TableOperationsTotal.WithLabelValues("atu", op.String()).Inc()
	if err := d.write(addr.KindGlobal, 0, regATUOperation, tableBusy|uint16(op)<<12); err != nil {
		return err
	}

	switch op {
	case ATUServiceViolations:
		return d.readViolation(extra, e)
	case ATUGetNext:
		return d.readNext(e)
	}
	return nil
}

func (d *Dev) readViolation(extra *ATUExtra, e *ATUEntry) error {
	if err := d.waitTable(addr.KindGlobal, regATUOperation); err != nil {
		return err
	}
	v, err := d.read(addr.KindGlobal, 0, regATUOperation)
	if err != nil {
		return err
	}
	extra.Cause = decodeViolation((v >> 4) & 0xF)
	if extra.Cause == ViolationNone {
		return nil
	}

	e.DBNum = 0
	fid, err := d.read(addr.KindGlobal, 0, regATUFID)
	if err != nil {
		return err
	}
	e.DBNum = fid & 0xFFF

	data, err := d.read(addr.KindGlobal, 0, regATUData)
	if err != nil {
		return err
	}
	e.State = uint8(data & 0xF)

	e.MAC, err = d.readMAC()
	return err
}

func (d *Dev) readNext(e *ATUEntry) error {
	e.Trunk = false
	e.ExPrio = ExtPriority{}

	if err := d.waitTable(addr.KindGlobal, regATUOperation); err != nil {
		return err
	}

	mac, err := d.readMAC()
	if err != nil {
		return err
	}
	e.MAC = mac

	data, err := d.read(addr.KindGlobal, 0, regATUData)
	if err != nil {
		return err
	}
	e.Prio = uint8(data >> 14)
	e.PortVec = (data >> 4) & d.info.PortMask()
	e.State = uint8(data & 0xF)
	return nil
}

func (d *Dev) writeMAC(mac [6]byte) error {
	for i := uint8(0); i < 3; i++ {
		v := uint16(mac[2*i])<<8 | uint16(mac[2*i+1])
		if err := d.write(addr.KindGlobal, 0, regATUMACBase+i, v); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dev) readMAC() ([6]byte, error) {
	var mac [6]byte
	for i := uint8(0); i < 3; i++ {
		v, err := d.read(addr.KindGlobal, 0, regATUMACBase+i)
		if err != nil {
			return mac, err
		}
		mac[2*i] = byte(v >> 8)
		mac[2*i+1] = byte(v)
	}
	return mac, nil
}

// ---- table API ----

// FlushATU removes every entry (all) or every non-static entry.
func (d *Dev) FlushATU(all bool) error {
	op := ATUFlushUnlocked
	if all {
		op = ATUFlushAll
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.atuOperation(op, nil, &ATUEntry{})
}

// FlushATUInDB is FlushATU restricted to one database.
func (d *Dev) FlushATUInDB(db uint16, all bool) error {
	if db > 0xFFF {
		return fmt.Errorf("%w: db %d", ErrBadParameter, db)
	}
	op := ATUFlushUnlockedInDB
	if all {
		op = ATUFlushAllInDB
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.atuOperation(op, nil, &ATUEntry{DBNum: db})
}

// MoveATU moves every entry pointing at port from to port to.
// to = 0xF removes from instead of moving.
func (d *Dev) MoveATU(from, to uint8) error {
	if from > 0xF || to > 0xF {
		return fmt.Errorf("%w: move %d -> %d", ErrBadParameter, from, to)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.atuOperation(ATUFlushAll, &ATUExtra{MoveFrom: from, MoveTo: to}, &ATUEntry{State: ATUStateMove})
}

// MoveATUInDB is MoveATU restricted to one database.
func (d *Dev) MoveATUInDB(db uint16, from, to uint8) error {
	if db > 0xFFF || from > 0xF || to > 0xF {
		return fmt.Errorf("%w: db %d move %d -> %d", ErrBadParameter, db, from, to)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.atuOperation(ATUFlushAllInDB, &ATUExtra{MoveFrom: from, MoveTo: to}, &ATUEntry{DBNum: db, State: ATUStateMove})
}

// LoadATU adds or replaces an entry. State must be non-zero.
func (d *Dev) LoadATU(e ATUEntry) error {
	if e.State == ATUStateUnused || e.State > 0xF || e.Prio > 3 || e.DBNum > 0xFFF {
		return fmt.Errorf("%w: atu entry %s db %d state 0x%x prio %d",
			ErrBadParameter, e.HardwareAddr(), e.DBNum, e.State, e.Prio)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.atuOperation(ATULoadPurge, nil, &e)
}

// PurgeATU removes the entry for mac in db.
func (d *Dev) PurgeATU(mac [6]byte, db uint16) error {
	if db > 0xFFF {
		return fmt.Errorf("%w: db %d", ErrBadParameter, db)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.atuOperation(ATULoadPurge, nil, &ATUEntry{MAC: mac, DBNum: db, State: ATUStateUnused})
}

// NextATU returns the first entry in db whose MAC is above mac.
// A returned state of zero means there is none.
func (d *Dev) NextATU(mac [6]byte, db uint16) (ATUEntry, error) {
	if db > 0xFFF {
		return ATUEntry{}, fmt.Errorf("%w: db %d", ErrBadParameter, db)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	e := ATUEntry{MAC: mac, DBNum: db}
	if err := d.atuOperation(ATUGetNext, nil, &e); err != nil {
		return ATUEntry{}, err
	}
	return e, nil
}

// WalkATU calls fn for every valid entry of db in MAC order.
// Each step is its own transaction; the table may change between steps.
func (d *Dev) WalkATU(db uint16, fn func(ATUEntry) error) error {
	mac := Broadcast
	for {
		e, err := d.NextATU(mac, db)
		if err != nil {
			return err
		}
		if e.State == ATUStateUnused {
			return nil
		}
		if err := fn(e); err != nil {
			return err
		}
		if e.MAC == Broadcast {
			return nil
		}
		mac = e.MAC
	}
}

// ServiceATUViolation fetches the pending ATU violation, if any.
// ViolationNone is a successful result.
func (d *Dev) ServiceATUViolation() (Violation, ATUEntry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var extra ATUExtra
	var e ATUEntry
	if err := d.atuOperation(ATUServiceViolations, &extra, &e); err != nil {
		return ViolationNone, ATUEntry{}, err
	}
	if extra.Cause != ViolationNone {
		d.log.Info("atu violation", "cause", extra.Cause.String(), "db", e.DBNum, "mac", e.HardwareAddr().String())
	}
	return extra.Cause, e, nil
}
