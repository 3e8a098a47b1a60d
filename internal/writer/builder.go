// internal/writer/builder.go
package writer

import (
	"errors"
	"time"

	cfg "github.com/tamzrod/mvswitch/internal/config"
	wmodbus "github.com/tamzrod/mvswitch/internal/writer/modbus"
)

// BuildPlan converts the publish section into a Plan.
// Assumes config has already been validated and normalized.
func BuildPlan(m cfg.MonitorConfig) (Plan, error) {
	if m.Publish == nil {
		return Plan{}, errors.New("writer: publish not configured")
	}
	return Plan{
		UnitID:     m.Publish.UnitID,
		BaseAddr:   m.Publish.Address,
		DeviceName: m.Publish.DeviceName,
		Ports:      m.Ports,
	}, nil
}

// Build connects to the publish endpoint and returns a ready Writer.
func Build(m cfg.MonitorConfig) (Writer, func() error, error) {
	plan, err := BuildPlan(m)
	if err != nil {
		return nil, nil, err
	}

	c, err := wmodbus.NewEndpointClient(wmodbus.Config{
		Endpoint: m.Publish.Endpoint,
		Timeout:  time.Duration(m.Publish.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, err
	}

	w, err := New(plan, c)
	if err != nil {
		_ = c.Close()
		return nil, nil, err
	}
	return w, c.Close, nil
}
