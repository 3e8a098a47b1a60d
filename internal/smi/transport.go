// internal/smi/transport.go
package smi

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/tamzrod/mvswitch/internal/metrics"
)

var (
	// ErrTimeout is returned when a busy or read-valid poll runs out of iterations.
	ErrTimeout = errors.New("smi: timeout")

	// ErrInvalidAddress is returned when a device or register address does not fit its field.
	// The bus is not touched.
	ErrInvalidAddress = errors.New("smi: invalid address")
)

// SMI control register layout.
//
//	[15:0]  data
//	[20:16] device address
//	[25:21] register address
//	[26]    opcode (1 = read)
//	[27]    read valid
//	[28]    busy
const (
	dataMask = 0xFFFF

	devAddrShift = 16
	devAddrMask  = 0x1F << devAddrShift

	regAddrShift = 21
	regAddrMask  = 0x1F << regAddrShift

	opcodeRead   = 1 << 26
	readValidBit = 1 << 27
	busyBit      = 1 << 28
)

// Defaults taken from the host controller documentation.
const (
	DefaultBusyLimit      uint32 = 10000
	DefaultReadValidLimit uint32 = 0xFFFFFFFF
)

// Register is the host-side SMI control register.
// Implementations perform exactly one 32-bit access per call.
type Register interface {
	Read() (uint32, error)
	Write(v uint32) error
}

// Config tunes the transport's polls.
type Config struct {
	Busy      Poll          // wait for the controller to go idle
	ReadValid Poll          // wait for read data after a read command
	Settle    time.Duration // delay between read-valid and the data read
}

// Transport issues 16-bit read/write cycles over the SMI.
// It is not safe for concurrent use: the control register is a single
// shared hardware resource and callers must serialize access.
type Transport struct {
	reg Register
	cfg Config
	log logr.Logger
}

// New creates a transport. Zero limits fall back to the defaults.
func New(reg Register, cfg Config, log logr.Logger) (*Transport, error) {
	if reg == nil {
		return nil, errors.New("smi: register required")
	}
	if cfg.Busy.Limit == 0 {
		cfg.Busy.Limit = DefaultBusyLimit
	}
	if cfg.ReadValid.Limit == 0 {
		cfg.ReadValid.Limit = DefaultReadValidLimit
	}
	return &Transport{reg: reg, cfg: cfg, log: log}, nil
}

// Read returns the 16-bit value of register regAddr on device devAddr.
func (t *Transport) Read(devAddr, regAddr uint8) (uint16, error) {
	word, err := compose(devAddr, regAddr)
	if err != nil {
		return 0, err
	}

	if err := t.waitIdle(); err != nil {
		t.log.Error(err, "smi read: busy", "dev", devAddr, "reg", regAddr)
		return 0, err
	}

	metrics.SMITransactionsTotal.WithLabelValues("read").Inc()
	if err := t.reg.Write(word | opcodeRead); err != nil {
		return 0, fmt.Errorf("smi: read command: %w", err)
	}

	err = t.cfg.ReadValid.Until(func() (bool, error) {
		v, err := t.reg.Read()
		if err != nil {
			return false, err
		}
		return v&readValidBit != 0, nil
	})
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			metrics.SMITimeoutsTotal.WithLabelValues("read_valid").Inc()
		}
		t.log.Error(err, "smi read: read valid", "dev", devAddr, "reg", regAddr)
		return 0, err
	}

	if t.cfg.Settle > 0 {
		time.Sleep(t.cfg.Settle)
	}

	v, err := t.reg.Read()
	if err != nil {
		return 0, err
	}
	return uint16(v & dataMask), nil
}

// Write stores v into register regAddr on device devAddr.
// It returns once the command has been issued.
func (t *Transport) Write(devAddr, regAddr uint8, v uint16) error {
	word, err := compose(devAddr, regAddr)
	if err != nil {
		return err
	}

	if err := t.waitIdle(); err != nil {
		t.log.Error(err, "smi write: busy", "dev", devAddr, "reg", regAddr)
		return err
	}

	metrics.SMITransactionsTotal.WithLabelValues("write").Inc()
	word |= uint32(v)
	word &^= opcodeRead
	if err := t.reg.Write(word); err != nil {
		return fmt.Errorf("smi: write command: %w", err)
	}
	return nil
}

// ReadRaw returns the control register itself, bypassing the protocol.
func (t *Transport) ReadRaw() (uint32, error) {
	metrics.SMITransactionsTotal.WithLabelValues("raw_read").Inc()
	return t.reg.Read()
}

// WriteRaw stores v into the control register, bypassing the protocol.
func (t *Transport) WriteRaw(v uint32) error {
	metrics.SMITransactionsTotal.WithLabelValues("raw_write").Inc()
	return t.reg.Write(v)
}

func (t *Transport) waitIdle() error {
	err := t.cfg.Busy.Until(func() (bool, error) {
		v, err := t.reg.Read()
		if err != nil {
			return false, err
		}
		return v&busyBit == 0, nil
	})
	if errors.Is(err, ErrTimeout) {
		metrics.SMITimeoutsTotal.WithLabelValues("busy").Inc()
	}
	return err
}

func compose(devAddr, regAddr uint8) (uint32, error) {
	dev := uint32(devAddr) << devAddrShift
	if dev&^devAddrMask != 0 {
		return 0, fmt.Errorf("%w: device 0x%x", ErrInvalidAddress, devAddr)
	}
	reg := uint32(regAddr) << regAddrShift
	if reg&^regAddrMask != 0 {
		return 0, fmt.Errorf("%w: register 0x%x", ErrInvalidAddress, regAddr)
	}
	return dev | reg, nil
}
