// internal/config/config.go
package config

type Config struct {
	Switch    SwitchConfig    `yaml:"switch"`
	Transport TransportConfig `yaml:"transport"`
	Polling   PollingConfig   `yaml:"polling"`
	Tables    TablesConfig    `yaml:"tables"`
	Bringup   BringupConfig   `yaml:"bringup"`
	Monitor   MonitorConfig   `yaml:"monitor"`
}

// ---- SWITCH ----

type SwitchConfig struct {
	Model       string  `yaml:"model"`
	CPUPort     *uint8  `yaml:"cpu_port"`
	NumPorts    uint8   `yaml:"num_ports"`
	MaxPorts    uint8   `yaml:"max_ports"`
	ValidPhyVec *uint16 `yaml:"valid_phy_vec"`
}

// ---- TRANSPORT ----

// Transport kinds.
const (
	TransportMemIO     = "memio"
	TransportModbusTCP = "modbus-tcp"
	TransportModbusRTU = "modbus-rtu"
	TransportSim       = "sim"
)

type TransportConfig struct {
	Kind string `yaml:"kind"`

	// memio
	MemPath     string `yaml:"mem_path"`
	SMIRegister uint64 `yaml:"smi_register"`

	// modbus gateway
	Endpoint  string `yaml:"endpoint"`
	Device    string `yaml:"device"`
	BaudRate  int    `yaml:"baud_rate"`
	SlaveID   uint8  `yaml:"slave_id"`
	Register  uint16 `yaml:"register"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- POLLING (SMI) ----

type PollingConfig struct {
	BusyLimit      uint32 `yaml:"busy_limit"`
	ReadValidLimit uint32 `yaml:"read_valid_limit"`
	SettleUs       int    `yaml:"settle_us"`
	IntervalUs     int    `yaml:"interval_us"`
}

// ---- TABLES (ATU / PVT) ----

type TablesConfig struct {
	WaitLimit uint32 `yaml:"wait_limit"` // 0 = wait forever
	YieldUs   int    `yaml:"yield_us"`
}

// ---- BRING-UP ----

type BringupConfig struct {
	MTU       int            `yaml:"mtu"`
	PortsMask *uint16        `yaml:"ports_mask"`
	CPUPorts  []uint8        `yaml:"cpu_ports"`
	VlanMap   []VlanMapEntry `yaml:"vlan_map"`
}

// VlanMapEntry sets the ports one port may forward to.
// Entries are applied in order.
type VlanMapEntry struct {
	Port uint8  `yaml:"port"`
	Mask uint16 `yaml:"mask"`
}

// ---- MONITOR ----

type MonitorConfig struct {
	IntervalMs    int     `yaml:"interval_ms"`
	Ports         []uint8 `yaml:"ports"`
	MetricsListen string  `yaml:"metrics_listen"`

	// Publish mirrors link state into a Modbus holding-register block.
	// nil disables it.
	Publish *PublishConfig `yaml:"publish"`
}

type PublishConfig struct {
	Endpoint   string `yaml:"endpoint"`
	UnitID     uint8  `yaml:"unit_id"`
	Address    uint16 `yaml:"address"`
	DeviceName string `yaml:"device_name"`
	TimeoutMs  int    `yaml:"timeout_ms"`
}
