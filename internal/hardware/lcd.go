package hardware

import (
	"fmt"
	"strings"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// HD44780 commands.
const (
	lcdClear       = 0x01
	lcdEntryMode   = 0x06 // increment, no shift
	lcdDisplayOn   = 0x0C // display on, cursor off, blink off
	lcdFunction4x2 = 0x28 // 4-bit bus, 2+ lines, 5x8 font
	lcdSetDDRAM    = 0x80
)

// Bit positions on the 74HC595 backpack shift register.
const (
	srRS        = 1 << 1
	srEN        = 1 << 2
	srD7        = 1 << 3
	srD6        = 1 << 4
	srD5        = 1 << 5
	srD4        = 1 << 6
	srBacklight = 1 << 7
)

var lcdRowOffsets = [4]byte{0x00, 0x40, 0x14, 0x54}

// ShiftRegister latches one byte onto the LCD backpack outputs.
type ShiftRegister interface {
	Shift(b byte) error
}

// SPIShiftRegister drives a 74HC595 over SPI; the latch pin is pulsed after
// each byte so the outputs change together.
type SPIShiftRegister struct {
	port  spi.PortCloser
	conn  spi.Conn
	latch gpio.PinOut
}

// OpenSPIShiftRegister opens the SPI port and latch pin. InitHost must have
// been called.
func OpenSPIShiftRegister(port, latchPin string) (*SPIShiftRegister, error) {
	p, err := spireg.Open(port)
	if err != nil {
		return nil, fmt.Errorf("lcd: open SPI %s: %w", port, err)
	}
	conn, err := p.Connect(1*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("lcd: connect SPI: %w", err)
	}
	latch, err := outputPin(latchPin, gpio.Low)
	if err != nil {
		p.Close()
		return nil, err
	}
	return &SPIShiftRegister{port: p, conn: conn, latch: latch}, nil
}

// Close releases the SPI port.
func (r *SPIShiftRegister) Close() error { return r.port.Close() }

func (r *SPIShiftRegister) Shift(b byte) error {
	if err := r.latch.Out(gpio.Low); err != nil {
		return err
	}
	if err := r.conn.Tx([]byte{b}, nil); err != nil {
		return err
	}
	return r.latch.Out(gpio.High)
}

// CharLCD is an HD44780 character LCD behind a shift-register backpack,
// driven in 4-bit mode.
type CharLCD struct {
	sr         ShiftRegister
	cols, rows int
	sleep      func(time.Duration)
}

// NewCharLCD initializes the controller and clears the screen.
func NewCharLCD(sr ShiftRegister, cols, rows int) (*CharLCD, error) {
	l := &CharLCD{sr: sr, cols: cols, rows: rows, sleep: time.Sleep}
	// Force 8-bit mode twice, then switch to 4-bit.
	for _, cmd := range []byte{0x33, 0x32, lcdFunction4x2, lcdDisplayOn, lcdEntryMode} {
		if err := l.write(cmd, false); err != nil {
			return nil, fmt.Errorf("lcd: init: %w", err)
		}
	}
	if err := l.Clear(); err != nil {
		return nil, fmt.Errorf("lcd: init: %w", err)
	}
	return l, nil
}

func (l *CharLCD) Clear() error {
	if err := l.write(lcdClear, false); err != nil {
		return err
	}
	l.sleep(2 * time.Millisecond)
	return nil
}

// Message writes text starting at the top-left corner. Lines longer than the
// display are wrapped and rows past the bottom are dropped.
func (l *CharLCD) Message(text string) error {
	for row, line := range layoutText(text, l.cols, l.rows) {
		if err := l.write(lcdSetDDRAM|lcdRowOffsets[row%len(lcdRowOffsets)], false); err != nil {
			return err
		}
		for i := 0; i < len(line); i++ {
			if err := l.write(line[i], true); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *CharLCD) write(value byte, rs bool) error {
	for _, frame := range lcdFrames(value, rs) {
		if err := l.sr.Shift(frame); err != nil {
			return err
		}
	}
	return nil
}

// lcdFrames returns the shift-register bytes that clock value into the
// controller: high nibble then low nibble, each with an enable pulse.
func lcdFrames(value byte, rs bool) []byte {
	base := byte(srBacklight)
	if rs {
		base |= srRS
	}
	frames := make([]byte, 0, 4)
	for _, nibble := range []byte{value >> 4, value & 0x0F} {
		b := base
		if nibble&0x1 != 0 {
			b |= srD4
		}
		if nibble&0x2 != 0 {
			b |= srD5
		}
		if nibble&0x4 != 0 {
			b |= srD6
		}
		if nibble&0x8 != 0 {
			b |= srD7
		}
		frames = append(frames, b|srEN, b)
	}
	return frames
}

// layoutText splits text into at most rows lines of at most cols characters.
func layoutText(text string, cols, rows int) []string {
	if cols < 1 {
		return nil
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		for {
			if len(out) == rows {
				return out
			}
			if len(line) <= cols {
				out = append(out, line)
				break
			}
			out = append(out, line[:cols])
			line = line[cols:]
		}
	}
	return out
}

var _ Display = (*CharLCD)(nil)
