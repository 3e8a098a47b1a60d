// internal/sim/chip.go
package sim

import "sync"

// Host SMI control register layout, as seen from the chip side.
const (
	dataMask     = 0xFFFF
	devAddrShift = 16
	regAddrShift = 21
	opcodeRead   = 1 << 26
	readValid    = 1 << 27
	busy         = 1 << 28
)

// Device addresses of the register blocks.
const (
	portBase = 0x10
	global   = 0x1B
	global2  = 0x1C
)

const (
	regATUFID  = 0x01
	regATUOp   = 0x0B
	regATUData = 0x0C
	regATUMAC  = 0x0D
	regPVTAddr = 0x0B
	regPVTData = 0x0C
	regPHYPage = 22
)

const tableBusy = 1 << 15

type regKey struct {
	dev  uint8
	page uint8
	reg  uint8
}

// Chip is an in-memory 88E61xx switch behind the host SMI control register.
// It implements smi.Register and is safe for concurrent use.
type Chip struct {
	mu sync.Mutex

	ctrl     uint32
	regs     map[regKey]uint16
	atu      map[atuKey]atuRow
	pending  []Violation
	pvt      [512]uint16
	ports    uint8
	busyLeft int

	// BusyReads is how many control register reads report busy after
	// each command.
	BusyReads int

	// TableBusyReads is how many operation register reads report busy
	// after each ATU or PVT command.
	TableBusyReads int
	tableLeft      int

	// Commands counts SMI commands issued.
	Commands int
}

// New returns a chip with ports ports, every register zero and empty tables.
func New(ports uint8) *Chip {
	return &Chip{
		regs:  map[regKey]uint16{},
		atu:   map[atuKey]atuRow{},
		ports: ports,
	}
}

// Read returns the control register.
func (c *Chip) Read() (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busyLeft > 0 {
		c.busyLeft--
		return c.ctrl | busy, nil
	}
	return c.ctrl, nil
}

// Write executes one SMI command.
func (c *Chip) Write(v uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Commands++
	c.busyLeft = c.BusyReads

	dev := uint8(v>>devAddrShift) & 0x1F
	reg := uint8(v>>regAddrShift) & 0x1F
	if v&opcodeRead != 0 {
		c.ctrl = readValid | uint32(c.load(dev, reg))
		return nil
	}
	c.ctrl = 0
	c.store(dev, reg, uint16(v&dataMask))
	return nil
}

func (c *Chip) key(dev, reg uint8) regKey {
	k := regKey{dev: dev, reg: reg}
	if dev < portBase && reg != regPHYPage {
		k.page = uint8(c.regs[regKey{dev: dev, reg: regPHYPage}])
	}
	return k
}

func (c *Chip) load(dev, reg uint8) uint16 {
	v := c.regs[c.key(dev, reg)]
	if c.isTableOp(dev, reg) && c.tableLeft > 0 {
		c.tableLeft--
		v |= tableBusy
	}
	return v
}

func (c *Chip) store(dev, reg uint8, v uint16) {
	if c.isTableOp(dev, reg) && v&tableBusy != 0 {
		c.tableLeft = c.TableBusyReads
		c.regs[c.key(dev, reg)] = v &^ tableBusy
		op := (v >> 12) & 0x7
		if dev == global {
			c.atuOp(op)
		} else {
			c.pvtOp(op, v&0x1FF)
		}
		return
	}
	c.regs[c.key(dev, reg)] = v
}

func (c *Chip) isTableOp(dev, reg uint8) bool {
	return (dev == global && reg == regATUOp) || (dev == global2 && reg == regPVTAddr)
}

// ---- inspection ----

// Reg returns a register of a non-PHY block, or page 0 of a PHY.
func (c *Chip) Reg(dev, reg uint8) uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.regs[regKey{dev: dev, reg: reg}]
}

// PHYReg returns a PHY register on an explicit page.
func (c *Chip) PHYReg(port, page, reg uint8) uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.regs[regKey{dev: port, page: page, reg: reg}]
}

// SetReg presets a register of a non-PHY block, or page 0 of a PHY.
func (c *Chip) SetReg(dev, reg uint8, v uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regs[regKey{dev: dev, reg: reg}] = v
}

// SetLink presets a port's status register.
// speed is the chip's speed code (0 = 10, 1 = 100, 2 = 1000 Mbps).
func (c *Chip) SetLink(port uint8, up, full bool, speed uint16) {
	var v uint16
	if up {
		v |= 1 << 11
	}
	if full {
		v |= 1 << 10
	}
	v |= (speed & 0x3) << 8
	c.SetReg(portBase+port, 0x00, v)
}

// PVT returns one cell of the cross-chip port VLAN table.
func (c *Chip) PVT(addr uint16) uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pvt[addr&0x1FF]
}

func (c *Chip) pvtOp(op, addr uint16) {
	switch op {
	case 1:
		for i := range c.pvt {
			c.pvt[i] = 0x7FF
		}
	case 3:
		c.pvt[addr] = c.regs[regKey{dev: global2, reg: regPVTData}]
	case 4:
		c.regs[regKey{dev: global2, reg: regPVTData}] = c.pvt[addr]
	}
}
