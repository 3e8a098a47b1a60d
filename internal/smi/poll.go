// internal/smi/poll.go
package smi

import "time"

// Poll describes one busy-wait loop against hardware.
// Limit is the number of register reads allowed before giving up;
// Limit 0 means the loop never gives up.
// Interval is slept between reads; 0 spins.
type Poll struct {
	Limit    uint32
	Interval time.Duration
}

// Unbounded reports whether the poll waits forever.
func (p Poll) Unbounded() bool { return p.Limit == 0 }

// Until calls check until it reports done, it fails, or the limit is used up.
// Running out of iterations returns ErrTimeout.
func (p Poll) Until(check func() (done bool, err error)) error {
	for n := uint32(0); p.Limit == 0 || n < p.Limit; n++ {
		done, err := check()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if p.Interval > 0 {
			time.Sleep(p.Interval)
		}
	}
	return ErrTimeout
}
