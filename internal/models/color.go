package models

import "fmt"

// Color is an RGB value for the status light.
type Color struct {
	R, G, B uint8
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Status light colors. Each one is a signal an operator reads off the device.
var (
	ColorOff         = Color{0, 0, 0}
	ColorBoot        = Color{255, 255, 255}
	ColorConfiguring = Color{0, 255, 0}
	ColorAwaiting    = Color{0, 0, 128} // light blue
	ColorReceived    = Color{128, 0, 0} // light red
	ColorWriting     = Color{255, 0, 0} // bright red
	ColorFault       = Color{255, 0, 0}
)
