// internal/status/snapshot.go
package status

// Snapshot is one port's resolved link state.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Port  uint8
	Link  bool
	Full  bool
	Speed uint16
	Raw   uint16
}

// Equal reports whether the visible link state is unchanged.
func (s Snapshot) Equal(o Snapshot) bool {
	return s.Port == o.Port && s.Link == o.Link && s.Full == o.Full && s.Speed == o.Speed
}
