package hardware

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.bug.st/serial"
	"golang.org/x/time/rate"
)

const (
	esc = 0x1B
	gs  = 0x1D

	// The printer has a small receive buffer and no flow control, so bytes
	// are paced to the line rate with a burst no larger than the buffer.
	printerBurst   = 32
	barcodeHeight  = 50
	barcodeModule  = 3 // bar width
	hriBelow       = 2 // human readable digits under the bars
	printModeTall  = 0x10
	printModeWide  = 0x20
	printerMaxFeed = 255
)

// ThermalPrinter speaks the command set of the common serial receipt
// printers (legacy firmware, pre-2.64).
type ThermalPrinter struct {
	w       io.Writer
	closer  io.Closer
	limiter *rate.Limiter
}

// NewThermalPrinter wraps w. bytesPerSec bounds the write rate; pass 0 for
// no pacing.
func NewThermalPrinter(w io.Writer, bytesPerSec int) *ThermalPrinter {
	limit := rate.Inf
	if bytesPerSec > 0 {
		limit = rate.Limit(bytesPerSec)
	}
	p := &ThermalPrinter{w: w, limiter: rate.NewLimiter(limit, printerBurst)}
	if c, ok := w.(io.Closer); ok {
		p.closer = c
	}
	return p
}

// OpenSerialPrinter opens the printer on a UART at baud, 8N1.
func OpenSerialPrinter(ctx context.Context, dev string, baud int) (*ThermalPrinter, error) {
	port, err := serial.Open(dev, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("printer: open %s: %w", dev, err)
	}
	// 10 bits per byte on the wire: start, 8 data, stop.
	p := NewThermalPrinter(port, baud/10)
	if err := p.Reset(ctx); err != nil {
		port.Close()
		return nil, err
	}
	slog.Debug("printer: opened", "device", dev, "baud", baud)
	return p, nil
}

// Reset initializes the printer and sets the barcode geometry.
func (p *ThermalPrinter) Reset(ctx context.Context) error {
	return p.send(ctx,
		[]byte{esc, '@'},
		[]byte{gs, 'h', barcodeHeight},
	)
}

func (p *ThermalPrinter) SetJustify(ctx context.Context, j Justify) error {
	if j > JustifyRight {
		return fmt.Errorf("printer: invalid justify %d", j)
	}
	return p.send(ctx, []byte{esc, 'a', byte(j)})
}

func (p *ThermalPrinter) SetSize(ctx context.Context, s Size) error {
	var mode byte
	switch s {
	case SizeSmall:
	case SizeMedium:
		mode = printModeTall
	case SizeLarge:
		mode = printModeTall | printModeWide
	default:
		return fmt.Errorf("printer: invalid size %d", s)
	}
	return p.send(ctx, []byte{esc, '!', mode})
}

func (p *ThermalPrinter) PrintBarcode(ctx context.Context, text string, kind Barcode) error {
	if text == "" || strings.IndexByte(text, 0) >= 0 {
		return fmt.Errorf("printer: invalid barcode text %q", text)
	}
	cmd := append([]byte{gs, 'k', byte(kind)}, text...)
	return p.send(ctx,
		[]byte{gs, 'H', hriBelow},
		[]byte{gs, 'w', barcodeModule},
		append(cmd, 0),
	)
}

// Print prints text followed by a line break.
func (p *ThermalPrinter) Print(ctx context.Context, text string) error {
	return p.send(ctx, append([]byte(text), '\n'))
}

func (p *ThermalPrinter) Feed(ctx context.Context, lines int) error {
	if lines < 0 || lines > printerMaxFeed {
		return fmt.Errorf("printer: invalid feed %d", lines)
	}
	return p.send(ctx, []byte{esc, 'd', byte(lines)})
}

// Close closes the underlying port if it is closable.
func (p *ThermalPrinter) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

func (p *ThermalPrinter) send(ctx context.Context, cmds ...[]byte) error {
	for _, cmd := range cmds {
		for len(cmd) > 0 {
			n := min(len(cmd), printerBurst)
			if err := p.limiter.WaitN(ctx, n); err != nil {
				return err
			}
			if _, err := p.w.Write(cmd[:n]); err != nil {
				return fmt.Errorf("printer: write: %w", err)
			}
			cmd = cmd[n:]
		}
	}
	return nil
}

var _ Printer = (*ThermalPrinter)(nil)
