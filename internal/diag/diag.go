// internal/diag/diag.go
package diag

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tamzrod/mvswitch/internal/addr"
)

// Op is a diagnostic register operation.
type Op string

const (
	OpRead  Op = "reg_r"
	OpWrite Op = "reg_w"
)

// ErrSyntax is returned for a request line that does not parse.
var ErrSyntax = errors.New("diag: syntax")

// Request is one "port register type [value]" command.
// port, register and type are decimal; value is hexadecimal.
type Request struct {
	Op    Op
	Port  uint8
	Reg   uint8
	Kind  addr.Kind
	Value uint32
}

// Parse reads a request line for op.
func Parse(op Op, line string) (Request, error) {
	f := strings.Fields(line)
	want := 3
	if op == OpWrite {
		want = 4
	}
	if op != OpRead && op != OpWrite {
		return Request{}, fmt.Errorf("%w: unknown op %q", ErrSyntax, op)
	}
	if len(f) < want {
		return Request{}, fmt.Errorf("%w: %s wants %d fields, got %d", ErrSyntax, op, want, len(f))
	}

	port, err := strconv.ParseUint(f[0], 10, 8)
	if err != nil {
		return Request{}, fmt.Errorf("%w: port %q", ErrSyntax, f[0])
	}
	reg, err := strconv.ParseUint(f[1], 10, 8)
	if err != nil {
		return Request{}, fmt.Errorf("%w: register %q", ErrSyntax, f[1])
	}
	kind, err := strconv.ParseUint(f[2], 10, 8)
	if err != nil {
		return Request{}, fmt.Errorf("%w: type %q", ErrSyntax, f[2])
	}

	req := Request{Op: op, Port: uint8(port), Reg: uint8(reg), Kind: addr.Kind(kind)}
	if op == OpWrite {
		s := strings.TrimPrefix(strings.ToLower(f[3]), "0x")
		v, err := strconv.ParseUint(s, 16, 32)
		if err != nil {
			return Request{}, fmt.Errorf("%w: value %q", ErrSyntax, f[3])
		}
		req.Value = uint32(v)
	}
	return req, nil
}

// Registers is the register access the diagnostic surface drives.
// *switchdev.Dev implements it.
type Registers interface {
	ReadRegister(k addr.Kind, port, reg uint8) (uint32, error)
	WriteRegister(k addr.Kind, port, reg uint8, v uint32) error
}

// Result is the outcome of one request.
type Result struct {
	Req   Request
	Value uint32
	Err   error
}

// Exec runs req against r.
// For a write, Value echoes the low 16 bits of the written value.
func Exec(r Registers, req Request) Result {
	res := Result{Req: req}
	switch req.Op {
	case OpRead:
		res.Value, res.Err = r.ReadRegister(req.Kind, req.Port, req.Reg)
	case OpWrite:
		res.Value = req.Value & 0xFFFF
		res.Err = r.WriteRegister(req.Kind, req.Port, req.Reg, req.Value)
	default:
		res.Err = fmt.Errorf("%w: unknown op %q", ErrSyntax, req.Op)
	}
	return res
}

// String renders the result in the driver's log format.
func (r Result) String() string {
	head := fmt.Sprintf("switch register access: type=%d, port=%d, reg=%d",
		uint8(r.Req.Kind), r.Req.Port, r.Req.Reg)
	if r.Err != nil {
		return fmt.Sprintf("%s - FAILED, err=%d", head, -int(Code(r.Err)))
	}
	return fmt.Sprintf("%s - SUCCESS, val=0x%04x", head, r.Value)
}
