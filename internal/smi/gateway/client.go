// internal/smi/gateway/client.go
package gateway

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// Register is the SMI control register exposed by a board-management
// controller as two consecutive holding registers (high word first).
// It serializes requests because the handler is shared.
type Register struct {
	mu      sync.Mutex
	handler handler
	client  modbus.Client
	addr    uint16
}

type handler interface {
	modbus.ClientHandler
	Connect() error
	Close() error
}

// Config selects TCP (Endpoint) or RTU (Device).
type Config struct {
	Endpoint string // host:port for Modbus TCP
	Device   string // serial device for Modbus RTU
	BaudRate int
	SlaveID  uint8
	Address  uint16 // holding register holding the high word
	Timeout  time.Duration
}

// New connects to the gateway.
func New(cfg Config) (*Register, error) {
	var h handler

	switch {
	case cfg.Endpoint != "":
		th := modbus.NewTCPClientHandler(cfg.Endpoint)
		th.Timeout = cfg.Timeout
		th.SlaveId = cfg.SlaveID
		h = th

	case cfg.Device != "":
		rh := modbus.NewRTUClientHandler(cfg.Device)
		rh.BaudRate = cfg.BaudRate
		rh.DataBits = 8
		rh.Parity = "N"
		rh.StopBits = 1
		rh.Timeout = cfg.Timeout
		rh.SlaveId = cfg.SlaveID
		h = rh

	default:
		return nil, errors.New("smi gateway: endpoint or device required")
	}

	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("smi gateway: connect: %w", err)
	}

	return &Register{
		handler: h,
		client:  modbus.NewClient(h),
		addr:    cfg.Address,
	}, nil
}

func (r *Register) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handler.Close()
}

// Read fetches both halves of the control register in one request.
func (r *Register) Read() (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := r.client.ReadHoldingRegisters(r.addr, 2)
	if err != nil {
		return 0, fmt.Errorf("smi gateway: read: %w", err)
	}
	return unpackWord(b)
}

// Write stores both halves of the control register in one request.
func (r *Register) Write(v uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.client.WriteMultipleRegisters(r.addr, 2, packWord(v)); err != nil {
		return fmt.Errorf("smi gateway: write: %w", err)
	}
	return nil
}

// Modbus register memory order (BIG-ENDIAN), high word first.
func packWord(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func unpackWord(b []byte) (uint32, error) {
	if len(b) < 4 {
		return 0, fmt.Errorf("smi gateway: short payload (%d bytes)", len(b))
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}
