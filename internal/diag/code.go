// internal/diag/code.go
package diag

import (
	"errors"

	"github.com/tamzrod/mvswitch/internal/smi"
	"github.com/tamzrod/mvswitch/internal/switchdev"
)

// Status is the driver's numeric result code.
type Status uint16

const (
	StatusOK           Status = 0
	StatusFail         Status = 1
	StatusBadParam     Status = 2
	StatusTimeout      Status = 12
	StatusNotSupported Status = 14
)

// Code extracts a status code from an error without assuming concrete types.
// Errors that match nothing map to StatusFail.
func Code(err error) Status {
	if err == nil {
		return StatusOK
	}

	type coder interface{ Code() uint16 }
	var c coder
	if errors.As(err, &c) {
		return Status(c.Code())
	}

	switch {
	case errors.Is(err, smi.ErrTimeout):
		return StatusTimeout
	case errors.Is(err, switchdev.ErrBadParameter), errors.Is(err, ErrSyntax):
		return StatusBadParam
	case errors.Is(err, switchdev.ErrNotSupported):
		return StatusNotSupported
	default:
		return StatusFail
	}
}
