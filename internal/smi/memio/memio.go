// internal/smi/memio/memio.go
package memio

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Register is the SMI control register of the host Ethernet controller,
// reached through a shared mapping of physical memory.
type Register struct {
	f   *os.File
	mem []byte
	off uintptr
}

// Config locates the register.
type Config struct {
	Path    string // usually /dev/mem
	Address uint64 // physical address of the SMI register
}

// Open maps the page holding the register.
func Open(cfg Config) (*Register, error) {
	if cfg.Path == "" {
		return nil, errors.New("memio: path required")
	}
	if cfg.Address%4 != 0 {
		return nil, fmt.Errorf("memio: address 0x%x not 32-bit aligned", cfg.Address)
	}

	f, err := os.OpenFile(cfg.Path, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("memio: open %s: %w", cfg.Path, err)
	}

	page := uint64(os.Getpagesize())
	base := cfg.Address &^ (page - 1)

	mem, err := unix.Mmap(int(f.Fd()), int64(base), int(page),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("memio: mmap 0x%x: %w", base, err)
	}

	return &Register{
		f:   f,
		mem: mem,
		off: uintptr(cfg.Address - base),
	}, nil
}

func (r *Register) ptr() *uint32 {
	return (*uint32)(unsafe.Pointer(&r.mem[r.off]))
}

// Read performs one 32-bit load from the register.
func (r *Register) Read() (uint32, error) {
	if r.mem == nil {
		return 0, errors.New("memio: closed")
	}
	return atomic.LoadUint32(r.ptr()), nil
}

// Write performs one 32-bit store to the register.
func (r *Register) Write(v uint32) error {
	if r.mem == nil {
		return errors.New("memio: closed")
	}
	atomic.StoreUint32(r.ptr(), v)
	return nil
}

// Close unmaps the page.
func (r *Register) Close() error {
	if r.mem == nil {
		return nil
	}
	err := unix.Munmap(r.mem)
	r.mem = nil
	if cerr := r.f.Close(); err == nil {
		err = cerr
	}
	return err
}
