package keypad

import "errors"

var (
	// ErrPortNotOpen is returned when an operation is attempted on a
	// session whose port has already been closed.
	ErrPortNotOpen = errors.New("keypad: port not open")

	// ErrInvalidResponse is returned when the device sends bytes that are
	// not valid UTF-8 text.
	ErrInvalidResponse = errors.New("keypad: response is not valid UTF-8")

	// ErrNoDevice is returned by Open when no device id was selected.
	ErrNoDevice = errors.New("keypad: no device found, use -l to list ports and -a or -d to fix detection")
)
