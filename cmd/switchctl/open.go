// cmd/switchctl/open.go
package main

import (
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/tamzrod/mvswitch/internal/config"
	"github.com/tamzrod/mvswitch/internal/sim"
	"github.com/tamzrod/mvswitch/internal/smi"
	"github.com/tamzrod/mvswitch/internal/smi/gateway"
	"github.com/tamzrod/mvswitch/internal/smi/memio"
	"github.com/tamzrod/mvswitch/internal/switchdev"
)

// openRegister connects to the host SMI control register.
func openRegister(t config.TransportConfig, ports uint8) (smi.Register, func() error, error) {
	switch t.Kind {
	case config.TransportMemIO:
		r, err := memio.Open(memio.Config{Path: t.MemPath, Address: t.SMIRegister})
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil

	case config.TransportModbusTCP, config.TransportModbusRTU:
		r, err := gateway.New(gateway.Config{
			Endpoint: t.Endpoint,
			Device:   t.Device,
			BaudRate: t.BaudRate,
			SlaveID:  t.SlaveID,
			Address:  t.Register,
			Timeout:  time.Duration(t.TimeoutMs) * time.Millisecond,
		})
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil

	case config.TransportSim:
		return sim.New(ports), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("transport: unknown kind %q", t.Kind)
	}
}

// openSwitch builds the whole access stack from a normalized config.
func openSwitch(cfg *config.Config, log logr.Logger) (*switchdev.Dev, func() error, error) {
	model, err := switchdev.ParseModel(cfg.Switch.Model)
	if err != nil {
		return nil, nil, err
	}
	info, err := switchdev.NewDevice(model)
	if err != nil {
		return nil, nil, err
	}
	info.NumPorts = cfg.Switch.NumPorts
	info.MaxPorts = cfg.Switch.MaxPorts
	info.CPUPort = *cfg.Switch.CPUPort
	info.ValidPortVec = uint16(1)<<info.NumPorts - 1
	info.ValidPhyVec = *cfg.Switch.ValidPhyVec

	reg, closeReg, err := openRegister(cfg.Transport, info.NumPorts)
	if err != nil {
		return nil, nil, err
	}

	interval := time.Duration(cfg.Polling.IntervalUs) * time.Microsecond
	tr, err := smi.New(reg, smi.Config{
		Busy:      smi.Poll{Limit: cfg.Polling.BusyLimit, Interval: interval},
		ReadValid: smi.Poll{Limit: cfg.Polling.ReadValidLimit, Interval: interval},
		Settle:    time.Duration(cfg.Polling.SettleUs) * time.Microsecond,
	}, log.WithName("smi"))
	if err != nil {
		_ = closeReg()
		return nil, nil, err
	}

	dev, err := switchdev.New(tr, info, switchdev.Options{
		TableWait: smi.Poll{
			Limit:    cfg.Tables.WaitLimit,
			Interval: time.Duration(cfg.Tables.YieldUs) * time.Microsecond,
		},
	}, log.WithName("switch"))
	if err != nil {
		_ = closeReg()
		return nil, nil, err
	}

	log.V(1).Info("switch opened",
		"model", info.Model.String(),
		"transport", cfg.Transport.Kind,
		"ports", info.NumPorts,
	)
	return dev, closeReg, nil
}
