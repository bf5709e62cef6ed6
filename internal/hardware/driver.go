// Package hardware provides the hardware abstraction layer for the
// timestamper. It defines the device interfaces used by the control loop and
// their implementations: periph.io GPIO/SPI and serial UART drivers for the
// real board, and mocks for tests and --mock runs.
package hardware

import (
	"context"

	"periph.io/x/conn/v3/gpio"

	"github.com/kso512/timestamper/internal/models"
)

// Encoder is a rotary encoder with a cumulative, signed detent count.
// The count is never reset by the driver.
type Encoder interface {
	Position() int
}

// Sampler is an encoder decoded by polling. Sample reads the pins once and
// must be called faster than the encoder's quarter-step rate, including
// while the control loop is blocked in a print job.
type Sampler interface {
	Sample()
}

// Button is a push button sampled as a raw pin level. With the pull-up
// enabled the level is Low while the button is held.
type Button interface {
	Read() gpio.Level
}

// Display is a character display.
type Display interface {
	Clear() error
	// Message writes text from the top-left corner; '\n' starts a new row.
	Message(text string) error
}

// Light is a single RGB status light.
type Light interface {
	Fill(c models.Color) error
}

// Justify is the printer line alignment.
type Justify byte

const (
	JustifyLeft Justify = iota
	JustifyCenter
	JustifyRight
)

// Size is the printer character size.
type Size byte

const (
	SizeSmall Size = iota
	SizeMedium
	SizeLarge
)

// Barcode is a printer barcode symbology.
type Barcode byte

// Barcode types as numbered by the legacy (pre-2.64) thermal printer firmware.
const (
	BarcodeUPCA    Barcode = 0
	BarcodeEAN13   Barcode = 2
	BarcodeCode39  Barcode = 4
	BarcodeCode128 Barcode = 8
)

// Printer is a receipt printer. Calls for one label are issued strictly in
// sequence; the printer has no job queue of its own.
type Printer interface {
	SetJustify(ctx context.Context, j Justify) error
	SetSize(ctx context.Context, s Size) error
	PrintBarcode(ctx context.Context, text string, kind Barcode) error
	Print(ctx context.Context, text string) error
	Feed(ctx context.Context, lines int) error
}
