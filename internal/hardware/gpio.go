package hardware

import (
	"periph.io/x/conn/v3/gpio"
)

// GPIOButton is a push button wired between a pin and ground.
type GPIOButton struct {
	pin gpio.PinIn
}

// NewGPIOButton opens the named pin as a pulled-up input. InitHost must have
// been called.
func NewGPIOButton(name string) (*GPIOButton, error) {
	pin, err := inputPin(name)
	if err != nil {
		return nil, err
	}
	return &GPIOButton{pin: pin}, nil
}

// Read returns the raw pin level; Low means pressed.
func (b *GPIOButton) Read() gpio.Level { return b.pin.Read() }

// GPIOEncoder is an incremental rotary encoder on two pulled-up pins. It is
// decoded by sampling both pins on every Position call, so the caller must
// poll faster than the encoder's quarter-step rate.
type GPIOEncoder struct {
	a, b gpio.PinIn
	dec  *Quadrature
}

// NewGPIOEncoder opens the two phase pins. Swap a and b to reverse the
// counting direction.
func NewGPIOEncoder(a, b string, divisor int) (*GPIOEncoder, error) {
	pa, err := inputPin(a)
	if err != nil {
		return nil, err
	}
	pb, err := inputPin(b)
	if err != nil {
		return nil, err
	}
	return &GPIOEncoder{
		a:   pa,
		b:   pb,
		dec: NewQuadrature(bool(pa.Read()), bool(pb.Read()), divisor),
	}, nil
}

// Sample reads both pins once and feeds the decoder.
func (e *GPIOEncoder) Sample() {
	e.dec.Update(bool(e.a.Read()), bool(e.b.Read()))
}

// Position samples the pins and returns the cumulative detent count.
func (e *GPIOEncoder) Position() int {
	e.Sample()
	return e.dec.Position()
}

var (
	_ Button  = (*GPIOButton)(nil)
	_ Encoder = (*GPIOEncoder)(nil)
	_ Sampler = (*GPIOEncoder)(nil)
)
