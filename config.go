package keypad

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultBaudRate is fine for the atmega-32u4 based pads (the CDC-ACM
	// link ignores it), but other boards may care.
	DefaultBaudRate = Baud115200

	// DefaultReadTimeout is how long a bounded read waits for the pad to
	// answer. Slow pads or long replies need a higher -t value.
	DefaultReadTimeout = 100 * time.Millisecond
)

// Config holds the settings needed to open a session with the keypad.
type Config struct {
	// PortName is the path to the serial device, e.g. /dev/ttyACM0.
	PortName string `validate:"required"`

	BaudRate int `validate:"oneof=1200 2400 4800 9600 19200 38400 57600 115200 230400 460800 921600"`

	// ReadTimeout bounds every single read attempt on the port.
	ReadTimeout time.Duration `validate:"gte=0"`
}

var validate = validator.New()

// DefaultConfig returns a Config for the given port with stock settings.
func DefaultConfig(portName string) Config {
	return Config{
		PortName:    portName,
		BaudRate:    DefaultBaudRate.Int(),
		ReadTimeout: DefaultReadTimeout,
	}
}

// ValidateConfig validates serial port configuration parameters.
func ValidateConfig(cfg *Config) error {
	if cfg.PortName == "" {
		return ErrNoDevice
	}
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid serial port configuration: %w", err)
	}
	return nil
}
