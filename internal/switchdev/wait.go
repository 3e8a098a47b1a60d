// internal/switchdev/wait.go
package switchdev

import (
	"errors"

	"github.com/tamzrod/mvswitch/internal/addr"
	"github.com/tamzrod/mvswitch/internal/metrics"
	"github.com/tamzrod/mvswitch/internal/smi"
)

// waitTable polls a table operation register until its busy bit clears.
// The default policy never gives up; a bounded policy returns smi.ErrTimeout.
// Caller holds d.mu.
func (d *Dev) waitTable(k addr.Kind, reg uint8) error {
	err := d.opts.TableWait.Until(func() (bool, error) {
		v, err := d.read(k, 0, reg)
		if err != nil {
			return false, err
		}
		return v&tableBusy == 0, nil
	})
	if errors.Is(err, smi.ErrTimeout) {
		metrics.SMITimeoutsTotal.WithLabelValues("table").Inc()
		d.log.Error(err, "table busy", "kind", k.String(), "reg", reg)
	}
	return err
}
