package keypad

import (
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// portHandle abstracts the subset of go.bug.st/serial.Port used by this package.
type portHandle interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
	SetReadTimeout(d time.Duration) error
}

// allow tests to override external dependencies
var (
	openPort = func(name string, mode *serial.Mode) (portHandle, error) {
		p, err := serial.Open(name, mode)
		if err != nil {
			return nil, err
		}
		return &bugstPort{Port: p}, nil
	}
	listPorts = enumerator.GetDetailedPortsList
)

// bugstPort wraps the concrete serial.Port to satisfy portHandle.
type bugstPort struct {
	serial.Port
}
