// internal/switchdev/errors.go
package switchdev

import "errors"

var (
	// ErrFail is a generic failure reported by the switch layer.
	ErrFail = errors.New("switchdev: operation failed")

	// ErrBadParameter is returned before any bus access when an argument
	// is outside the field's legal value set.
	ErrBadParameter = errors.New("switchdev: bad parameter")

	// ErrNotSupported is returned when the attached chip model does not
	// support the requested operation.
	ErrNotSupported = errors.New("switchdev: not supported")
)
