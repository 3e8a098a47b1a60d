// internal/sim/atu.go
package sim

import (
	"bytes"
	"sort"
)

type atuKey struct {
	db  uint16
	mac [6]byte
}

type atuRow struct {
	portVec uint16
	prio    uint8
	state   uint8
}

// Entry is one simulated forwarding table row.
type Entry struct {
	MAC     [6]byte
	DB      uint16
	PortVec uint16
	Prio    uint8
	State   uint8
}

// Violation is a queued ATU interrupt, served by the service op.
type Violation struct {
	Cause uint16 // cause nibble: 8 age, 4 member, 2 miss, 1 full
	DB    uint16
	SPID  uint8
	MAC   [6]byte
}

var broadcast = [6]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

// locked entries survive a flush-unlocked.
func (r atuRow) locked(mac [6]byte) bool {
	return mac[0]&1 != 0 || r.state >= 0x8
}

// Load inserts an entry directly.
func (c *Chip) Load(e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.atu[atuKey{db: e.DB, mac: e.MAC}] = atuRow{portVec: e.PortVec, prio: e.Prio, state: e.State}
}

// Entries returns the rows of db in MAC order.
func (c *Chip) Entries(db uint16) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sorted(db)
}

// QueueViolation makes v pending for the next service op.
func (c *Chip) QueueViolation(v Violation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append(c.pending, v)
}

func (c *Chip) sorted(db uint16) []Entry {
	var out []Entry
	for k, r := range c.atu {
		if k.db != db {
			continue
		}
		out = append(out, Entry{MAC: k.mac, DB: k.db, PortVec: r.portVec, Prio: r.prio, State: r.state})
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].MAC[:], out[j].MAC[:]) < 0
	})
	return out
}

func (c *Chip) reg(dev, reg uint8) uint16 {
	return c.regs[regKey{dev: dev, reg: reg}]
}

func (c *Chip) setReg(dev, reg uint8, v uint16) {
	c.regs[regKey{dev: dev, reg: reg}] = v
}

func (c *Chip) macRegs() [6]byte {
	var mac [6]byte
	for i := uint8(0); i < 3; i++ {
		v := c.reg(global, regATUMAC+i)
		mac[2*i], mac[2*i+1] = byte(v>>8), byte(v)
	}
	return mac
}

func (c *Chip) setMACRegs(mac [6]byte) {
	for i := uint8(0); i < 3; i++ {
		c.setReg(global, regATUMAC+i, uint16(mac[2*i])<<8|uint16(mac[2*i+1]))
	}
}

func (c *Chip) atuOp(op uint16) {
	db := c.reg(global, regATUFID) & 0xFFF
	data := c.reg(global, regATUData)
	portMask := uint16(1)<<c.ports - 1

	switch op {
	case 1, 2, 5, 6:
		inDB := op >= 5
		unlockedOnly := op == 2 || op == 6
		move := data&0xF == 0xF
		from, to := (data>>4)&0xF, (data>>8)&0xF
		for k, r := range c.atu {
			if inDB && k.db != db {
				continue
			}
			if unlockedOnly && r.locked(k.mac) {
				continue
			}
			if !move {
				delete(c.atu, k)
				continue
			}
			if r.portVec&(1<<from) == 0 {
				continue
			}
			r.portVec &^= 1 << from
			if to != 0xF {
				r.portVec |= 1 << to
			}
			if r.portVec == 0 {
				delete(c.atu, k)
				continue
			}
			c.atu[k] = r
		}

	case 3:
		k := atuKey{db: db, mac: c.macRegs()}
		if data&0xF == 0 {
			delete(c.atu, k)
			return
		}
		c.atu[k] = atuRow{portVec: (data >> 4) & portMask, prio: uint8(data >> 14), state: uint8(data & 0xF)}

	case 4:
		from := c.macRegs()
		for _, e := range c.sorted(db) {
			if from == broadcast || bytes.Compare(e.MAC[:], from[:]) > 0 {
				c.setMACRegs(e.MAC)
				c.setReg(global, regATUData, uint16(e.Prio)<<14|e.PortVec<<4|uint16(e.State))
				return
			}
		}
		c.setMACRegs(broadcast)
		c.setReg(global, regATUData, 0)

	case 7:
		if len(c.pending) == 0 {
			return
		}
		v := c.pending[0]
		c.pending = c.pending[1:]
		c.setReg(global, regATUOp, c.reg(global, regATUOp)|(v.Cause&0xF)<<4)
		c.setReg(global, regATUFID, v.DB&0xFFF)
		c.setReg(global, regATUData, uint16(v.SPID&0xF))
		c.setMACRegs(v.MAC)
	}
}
