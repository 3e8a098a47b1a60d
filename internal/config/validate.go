// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/tamzrod/mvswitch/internal/switchdev"
)

const maxPorts = switchdev.MaxPortCount

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
// Zero values are checked as the defaults Normalize will give them.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil config")
	}

	// ------------------------------------------------------------
	// SWITCH
	// ------------------------------------------------------------

	if _, err := switchdev.ParseModel(modelOrDefault(cfg.Switch.Model)); err != nil {
		return fmt.Errorf("switch: model %q is not supported", cfg.Switch.Model)
	}

	n := numPorts(cfg)
	if n > maxPorts {
		return fmt.Errorf("switch: num_ports %d exceeds %d", n, maxPorts)
	}
	if cfg.Switch.MaxPorts != 0 && (cfg.Switch.MaxPorts < n || cfg.Switch.MaxPorts > maxPorts) {
		return fmt.Errorf("switch: max_ports %d must be in %d..%d", cfg.Switch.MaxPorts, n, maxPorts)
	}
	if cfg.Switch.CPUPort != nil && *cfg.Switch.CPUPort >= n {
		return fmt.Errorf("switch: cpu_port %d out of range (num_ports=%d)", *cfg.Switch.CPUPort, n)
	}

	// ------------------------------------------------------------
	// TRANSPORT
	// ------------------------------------------------------------

	t := cfg.Transport
	switch t.Kind {
	case "", TransportMemIO, TransportSim:
	case TransportModbusTCP:
		if t.Endpoint == "" {
			return fmt.Errorf("transport: kind %q requires endpoint", t.Kind)
		}
	case TransportModbusRTU:
		if t.Device == "" {
			return fmt.Errorf("transport: kind %q requires device", t.Kind)
		}
	default:
		return fmt.Errorf("transport: unknown kind %q", t.Kind)
	}
	if t.TimeoutMs < 0 {
		return fmt.Errorf("transport: timeout_ms must be >= 0")
	}

	// ------------------------------------------------------------
	// POLLING / TABLES
	// ------------------------------------------------------------

	if cfg.Polling.SettleUs < 0 || cfg.Polling.IntervalUs < 0 {
		return fmt.Errorf("polling: settle_us and interval_us must be >= 0")
	}
	if cfg.Tables.YieldUs < 0 {
		return fmt.Errorf("tables: yield_us must be >= 0")
	}

	// ------------------------------------------------------------
	// BRING-UP
	// ------------------------------------------------------------

	b := cfg.Bringup
	if b.MTU < 0 {
		return fmt.Errorf("bringup: mtu must be >= 0")
	}
	if (b.CPUPorts == nil || b.VlanMap == nil) && n < DefaultNumPorts {
		return fmt.Errorf("bringup: default cpu_ports and vlan_map need %d ports; set them explicitly", DefaultNumPorts)
	}
	for _, p := range b.CPUPorts {
		if p >= n {
			return fmt.Errorf("bringup: cpu port %d out of range (num_ports=%d)", p, n)
		}
	}
	for i, e := range b.VlanMap {
		if e.Port >= n {
			return fmt.Errorf("bringup: vlan_map[%d]: port %d out of range (num_ports=%d)", i, e.Port, n)
		}
		if e.Mask&0x80 != 0 {
			return fmt.Errorf("bringup: vlan_map[%d]: mask 0x%x has bit 7 set", i, e.Mask)
		}
	}

	// ------------------------------------------------------------
	// MONITOR
	// ------------------------------------------------------------

	if cfg.Monitor.IntervalMs < 0 {
		return fmt.Errorf("monitor: interval_ms must be >= 0")
	}
	for _, p := range cfg.Monitor.Ports {
		if p >= n {
			return fmt.Errorf("monitor: port %d out of range (num_ports=%d)", p, n)
		}
	}
	if pub := cfg.Monitor.Publish; pub != nil {
		if pub.Endpoint == "" {
			return fmt.Errorf("monitor.publish: endpoint required")
		}
		if pub.TimeoutMs < 0 {
			return fmt.Errorf("monitor.publish: timeout_ms must be >= 0")
		}
		if len(pub.DeviceName) > 16 {
			return fmt.Errorf("monitor.publish: device_name longer than 16 characters")
		}
	}

	return nil
}

func modelOrDefault(m string) string {
	if m == "" {
		return DefaultModel
	}
	return m
}

func numPorts(cfg *Config) uint8 {
	if cfg.Switch.NumPorts == 0 {
		return DefaultNumPorts
	}
	return cfg.Switch.NumPorts
}
