package input

import (
	"periph.io/x/conn/v3/gpio"

	"github.com/kso512/timestamper/internal/hardware"
)

// ButtonState is the edge detector state.
type ButtonState int

const (
	ButtonIdle ButtonState = iota
	ButtonPressed
)

func (s ButtonState) String() string {
	if s == ButtonPressed {
		return "pressed"
	}
	return "idle"
}

// Debouncer turns an active-low button level into one event per press and
// release. There is no dwell time: a bounce that is sampled low once counts
// as a press.
type Debouncer struct {
	btn   hardware.Button
	state ButtonState
}

func NewDebouncer(btn hardware.Button) *Debouncer {
	return &Debouncer{btn: btn}
}

// Poll samples the button once and reports true on the release that ends a
// press.
func (d *Debouncer) Poll() bool {
	level := d.btn.Read()
	switch {
	case d.state == ButtonIdle && level == gpio.Low:
		d.state = ButtonPressed
	case d.state == ButtonPressed && level == gpio.High:
		d.state = ButtonIdle
		return true
	}
	return false
}

// State returns the current state.
func (d *Debouncer) State() ButtonState { return d.state }

// Reset returns the detector to Idle.
func (d *Debouncer) Reset() { d.state = ButtonIdle }
