// internal/status/decode.go
package status

import "github.com/tamzrod/mvswitch/internal/field"

// Decode converts a raw port status register into a Snapshot.
// No IO. No side effects.
func Decode(port uint8, reg uint16) Snapshot {
	return Snapshot{
		Port:  port,
		Link:  reg&(1<<BitLink) != 0,
		Full:  reg&(1<<BitDuplex) != 0,
		Speed: field.Extract(reg, SpeedOffset, SpeedLength),
		Raw:   reg,
	}
}

// LinkString renders the carrier state the way the device attribute does.
func (s Snapshot) LinkString() string {
	if s.Link {
		return "Up"
	}
	return "Down"
}

func (s Snapshot) DuplexString() string {
	if s.Full {
		return "Full"
	}
	return "Half"
}

// SpeedString treats any unknown code as 10 Mbps.
func (s Snapshot) SpeedString() string {
	switch s.Speed {
	case Speed1000:
		return "1000Mbps"
	case Speed100:
		return "100Mbps"
	default:
		return "10Mbps"
	}
}
