package hardware

import (
	"fmt"
	"log/slog"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

var (
	hostOnce sync.Once
	hostErr  error
)

// InitHost initializes the periph.io host drivers. It must succeed before any
// pin or SPI port is opened; repeated calls return the first result.
func InitHost() error {
	hostOnce.Do(func() {
		state, err := host.Init()
		if err != nil {
			hostErr = fmt.Errorf("hardware: host init failed: %w", err)
			return
		}
		slog.Debug("hardware: host initialized", "drivers", len(state.Loaded))
	})
	return hostErr
}

// inputPin opens a named pin as an input with the internal pull-up enabled.
func inputPin(name string) (gpio.PinIO, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("hardware: failed to open %s", name)
	}
	if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("hardware: configure %s as input: %w", name, err)
	}
	return pin, nil
}

// outputPin opens a named pin as an output driven to level.
func outputPin(name string, level gpio.Level) (gpio.PinIO, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("hardware: failed to open %s", name)
	}
	if err := pin.Out(level); err != nil {
		return nil, fmt.Errorf("hardware: configure %s as output: %w", name, err)
	}
	return pin, nil
}
