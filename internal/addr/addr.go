// internal/addr/addr.go
package addr

import "fmt"

// Kind selects which register block of the switch an access targets.
// The numeric values 1..5 are part of the diagnostic interface and MUST NOT change.
type Kind uint8

const (
	KindPHY     Kind = 1
	KindPort    Kind = 2
	KindGlobal  Kind = 3
	KindGlobal2 Kind = 4
	KindRaw     Kind = 5

	// KindGlobal3 is used internally only; it has no diagnostic code.
	KindGlobal3 Kind = 6
)

// SMI device addresses of the register blocks.
const (
	PortBase = 0x10
	Global   = 0x1B
	Global2  = 0x1C
	Global3  = 0x1D
)

func (k Kind) String() string {
	switch k {
	case KindPHY:
		return "phy"
	case KindPort:
		return "port"
	case KindGlobal:
		return "global"
	case KindGlobal2:
		return "global2"
	case KindRaw:
		return "smi"
	case KindGlobal3:
		return "global3"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Known reports whether k is one of the defined kinds.
func (k Kind) Known() bool {
	return k >= KindPHY && k <= KindGlobal3
}

// Route is where an access lands on the bus.
type Route struct {
	Addr uint8

	// Raw means the access goes to the host SMI control register itself;
	// Addr is meaningless.
	Raw bool

	// Fallback means the kind was not recognized and Addr is the
	// global-2 block. This mirrors the hardware vendor's mapping and is
	// most likely a latent defect; callers that can reject unknown kinds should.
	Fallback bool

	// Invalid means the port does not fit the 5-bit device address
	// field; Addr is meaningless and the access must not reach the bus.
	Invalid bool
}

// MaxDevAddr is the largest device address the SMI word can carry.
const MaxDevAddr = 0x1F

// Map translates a logical port and access kind into a bus route.
// It is pure and total.
func Map(port uint8, k Kind) Route {
	switch k {
	case KindPHY:
		return Route{Addr: port}
	case KindPort:
		a := int(port) + PortBase
		if a > MaxDevAddr {
			return Route{Invalid: true}
		}
		return Route{Addr: uint8(a)}
	case KindGlobal:
		return Route{Addr: Global}
	case KindGlobal2:
		return Route{Addr: Global2}
	case KindGlobal3:
		return Route{Addr: Global3}
	case KindRaw:
		return Route{Raw: true}
	default:
		return Route{Addr: Global2, Fallback: true}
	}
}
