// internal/smi/gateway/client_test.go
package gateway

import (
	"errors"
	"testing"
)

// ---- fake modbus client ----

type fakeClient struct {
	regs    map[uint16]uint16
	readErr error
}

func (f *fakeClient) ReadHoldingRegisters(addr, qty uint16) ([]byte, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	out := make([]byte, 0, 2*qty)
	for i := uint16(0); i < qty; i++ {
		v := f.regs[addr+i]
		out = append(out, byte(v>>8), byte(v))
	}
	return out, nil
}

func (f *fakeClient) WriteMultipleRegisters(addr, qty uint16, value []byte) ([]byte, error) {
	for i := uint16(0); i < qty; i++ {
		f.regs[addr+i] = uint16(value[2*i])<<8 | uint16(value[2*i+1])
	}
	return nil, nil
}

// unused by Register
func (f *fakeClient) ReadCoils(address, quantity uint16) ([]byte, error)          { return nil, nil }
func (f *fakeClient) ReadDiscreteInputs(address, quantity uint16) ([]byte, error) { return nil, nil }
func (f *fakeClient) WriteSingleCoil(address, value uint16) ([]byte, error)       { return nil, nil }
func (f *fakeClient) WriteMultipleCoils(address, quantity uint16, value []byte) ([]byte, error) {
	return nil, nil
}
func (f *fakeClient) ReadInputRegisters(address, quantity uint16) ([]byte, error) { return nil, nil }
func (f *fakeClient) WriteSingleRegister(address, value uint16) ([]byte, error)   { return nil, nil }
func (f *fakeClient) ReadWriteMultipleRegisters(readAddress, readQuantity, writeAddress, writeQuantity uint16, value []byte) ([]byte, error) {
	return nil, nil
}
func (f *fakeClient) MaskWriteRegister(address, andMask, orMask uint16) ([]byte, error) {
	return nil, nil
}
func (f *fakeClient) ReadFIFOQueue(address uint16) ([]byte, error) { return nil, nil }

// ---- tests ----

func TestWordRoundTripHighWordFirst(t *testing.T) {
	fc := &fakeClient{regs: map[uint16]uint16{}}
	r := &Register{client: fc, addr: 100}

	if err := r.Write(0x1234ABCD); err != nil {
		t.Fatalf("Write err=%v", err)
	}
	if fc.regs[100] != 0x1234 || fc.regs[101] != 0xABCD {
		t.Fatalf("unexpected layout: hi=0x%04x lo=0x%04x", fc.regs[100], fc.regs[101])
	}

	v, err := r.Read()
	if err != nil {
		t.Fatalf("Read err=%v", err)
	}
	if v != 0x1234ABCD {
		t.Fatalf("Read: got=0x%08x", v)
	}
}

func TestReadErrorWrapped(t *testing.T) {
	cause := errors.New("exception 2")
	r := &Register{client: &fakeClient{readErr: cause}}

	if _, err := r.Read(); !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestShortPayload(t *testing.T) {
	if _, err := unpackWord([]byte{1, 2}); err == nil {
		t.Fatalf("expected error for short payload")
	}
}

func TestNewRequiresEndpointOrDevice(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected error, got nil")
	}
}
