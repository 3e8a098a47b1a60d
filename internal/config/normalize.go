// internal/config/normalize.go
package config

// Defaults for the Armada-370 board with an 88E6172 on the neta SMI.
const (
	DefaultModel          = "88E6172"
	DefaultNumPorts       = 7
	DefaultCPUPort        = 5
	DefaultMemPath        = "/dev/mem"
	DefaultSMIRegister    = 0xD0072004
	DefaultBusyLimit      = 10000
	DefaultReadValidLimit = 0xFFFFFFFF
	DefaultMTU            = 1522
	DefaultMonitorMs      = 1000
	DefaultTimeoutMs      = 1000
	DefaultBaudRate       = 115200
)

// DefaultVlanMap is the board's LAN/WAN split: ports 0..3 talk to each
// other and to CPU port 5; port 4 talks only to CPU port 6.
func DefaultVlanMap() []VlanMapEntry {
	m := []VlanMapEntry{{Port: 5, Mask: 0x0F}}
	for p := uint8(0); p < 4; p++ {
		m = append(m, VlanMapEntry{Port: p, Mask: 0x20 | (0x0F &^ (1 << p))})
	}
	return append(m,
		VlanMapEntry{Port: 6, Mask: 0x10},
		VlanMapEntry{Port: 4, Mask: 0x40},
	)
}

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	// ---- switch ----
	s := &cfg.Switch
	s.Model = modelOrDefault(s.Model)
	if s.NumPorts == 0 {
		s.NumPorts = DefaultNumPorts
	}
	if s.MaxPorts == 0 {
		s.MaxPorts = s.NumPorts
	}
	if s.CPUPort == nil {
		p := uint8(DefaultCPUPort)
		s.CPUPort = &p
	}
	all := uint16(1)<<s.NumPorts - 1
	if s.ValidPhyVec == nil {
		v := all
		s.ValidPhyVec = &v
	}

	// ---- transport ----
	t := &cfg.Transport
	if t.Kind == "" {
		t.Kind = TransportMemIO
	}
	switch t.Kind {
	case TransportMemIO:
		if t.MemPath == "" {
			t.MemPath = DefaultMemPath
		}
		if t.SMIRegister == 0 {
			t.SMIRegister = DefaultSMIRegister
		}
	case TransportModbusTCP, TransportModbusRTU:
		if t.TimeoutMs == 0 {
			t.TimeoutMs = DefaultTimeoutMs
		}
		if t.Kind == TransportModbusRTU && t.BaudRate == 0 {
			t.BaudRate = DefaultBaudRate
		}
		if t.SlaveID == 0 {
			t.SlaveID = 1
		}
	}

	// ---- polling ----
	if cfg.Polling.BusyLimit == 0 {
		cfg.Polling.BusyLimit = DefaultBusyLimit
	}
	if cfg.Polling.ReadValidLimit == 0 {
		cfg.Polling.ReadValidLimit = DefaultReadValidLimit
	}

	// tables.wait_limit stays 0: wait forever

	// ---- bring-up ----
	b := &cfg.Bringup
	if b.MTU == 0 {
		b.MTU = DefaultMTU
	}
	if b.PortsMask == nil {
		v := all
		b.PortsMask = &v
	}
	if b.CPUPorts == nil {
		b.CPUPorts = []uint8{5, 6}
	}
	if b.VlanMap == nil {
		b.VlanMap = DefaultVlanMap()
	}

	// ---- monitor ----
	if cfg.Monitor.IntervalMs == 0 {
		cfg.Monitor.IntervalMs = DefaultMonitorMs
	}
	if len(cfg.Monitor.Ports) == 0 {
		for p := uint8(0); p < s.NumPorts; p++ {
			cfg.Monitor.Ports = append(cfg.Monitor.Ports, p)
		}
	}
	if pub := cfg.Monitor.Publish; pub != nil {
		if pub.UnitID == 0 {
			pub.UnitID = 1
		}
		if pub.TimeoutMs == 0 {
			pub.TimeoutMs = DefaultTimeoutMs
		}
	}
}
