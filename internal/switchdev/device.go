// internal/switchdev/device.go
package switchdev

import (
	"fmt"
	"strings"
)

// Model identifies the switch chip.
type Model uint16

const (
	Model88E6161 Model = 0x161
	Model88E6165 Model = 0x165
	Model88E6171 Model = 0x171
	Model88E6172 Model = 0x172
	Model88E6176 Model = 0x176
	Model88E6351 Model = 0x351
)

var modelNames = map[Model]string{
	Model88E6161: "88E6161",
	Model88E6165: "88E6165",
	Model88E6171: "88E6171",
	Model88E6172: "88E6172",
	Model88E6176: "88E6176",
	Model88E6351: "88E6351",
}

func (m Model) String() string {
	if s, ok := modelNames[m]; ok {
		return s
	}
	return fmt.Sprintf("unknown(0x%X)", uint16(m))
}

// Supported reports whether the port configuration paths are legal for m.
func (m Model) Supported() bool {
	_, ok := modelNames[m]
	return ok
}

// ParseModel accepts "88E6172", "6172" or "0x172" style names.
func ParseModel(s string) (Model, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for m, name := range modelNames {
		if s == name || s == strings.TrimPrefix(name, "88E") || s == fmt.Sprintf("0X%X", uint16(m)) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: model %q", ErrNotSupported, s)
}

// MaxPortCount is the widest port vector the register layout carries.
const MaxPortCount = 11

// Device describes the attached switch.
// It is built once at startup and passed by reference; it never changes
// afterwards.
type Device struct {
	Model        Model
	CPUPort      uint8
	NumPorts     uint8
	MaxPorts     uint8
	ValidPortVec uint16
	ValidPhyVec  uint16
}

// NewDevice returns the board defaults for model:
// seven ports, CPU on port 5, every port backed by a PHY.
func NewDevice(model Model) (Device, error) {
	d := Device{
		Model:       model,
		CPUPort:     5,
		NumPorts:    7,
		MaxPorts:    7,
		ValidPhyVec: 0x7F,
	}
	d.ValidPortVec = uint16(1)<<d.NumPorts - 1
	return d, d.Check()
}

// Check validates the context. An unsupported model is fatal.
func (d Device) Check() error {
	if !d.Model.Supported() {
		return fmt.Errorf("%w: switch ID 0x%X", ErrNotSupported, uint16(d.Model))
	}
	if d.NumPorts == 0 || d.NumPorts > MaxPortCount {
		return fmt.Errorf("switchdev: num ports %d out of range", d.NumPorts)
	}
	if d.MaxPorts < d.NumPorts || d.MaxPorts > MaxPortCount {
		return fmt.Errorf("switchdev: max ports %d out of range", d.MaxPorts)
	}
	if d.CPUPort >= d.NumPorts {
		return fmt.Errorf("switchdev: cpu port %d out of range", d.CPUPort)
	}
	return nil
}

// PortMask covers every bit a port vector field can hold.
func (d Device) PortMask() uint16 {
	return uint16(1)<<d.MaxPorts - 1
}

// ValidPort reports whether port is present on the chip.
func (d Device) ValidPort(port uint8) bool {
	return port < 16 && d.ValidPortVec&(1<<port) != 0
}

// ValidPHY reports whether port has an internal PHY.
func (d Device) ValidPHY(port uint8) bool {
	return port < 16 && d.ValidPhyVec&(1<<port) != 0
}
