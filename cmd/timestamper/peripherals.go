package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/kso512/timestamper/internal/config"
	"github.com/kso512/timestamper/internal/hardware"
)

type peripherals struct {
	encoder hardware.Encoder
	button  hardware.Button
	display hardware.Display
	light   hardware.Light
	printer hardware.Printer

	// Set in mock mode so the console can drive them.
	mockEncoder *hardware.MockEncoder
	mockButton  *hardware.MockButton

	closers []io.Closer
}

func (p *peripherals) Close() {
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i].Close(); err != nil {
			slog.Warn("timestamper: close peripheral", "err", err)
		}
	}
}

// openReal initializes the host drivers and opens every peripheral named in
// s. Anything opened before a failure is closed again.
func openReal(ctx context.Context, s *config.Settings) (_ *peripherals, err error) {
	if err := hardware.InitHost(); err != nil {
		return nil, err
	}
	hw := s.Hardware
	p := &peripherals{}
	defer func() {
		if err != nil {
			p.Close()
		}
	}()

	if p.button, err = hardware.NewGPIOButton(hw.ButtonPin); err != nil {
		return nil, err
	}
	if p.encoder, err = hardware.NewGPIOEncoder(hw.EncoderA, hw.EncoderB, hw.EncoderDivisor); err != nil {
		return nil, err
	}

	sr, err := hardware.OpenSPIShiftRegister(hw.LCDSPI, hw.LCDLatchPin)
	if err != nil {
		return nil, err
	}
	p.closers = append(p.closers, sr)
	if p.display, err = hardware.NewCharLCD(sr, hw.LCDCols, hw.LCDRows); err != nil {
		return nil, err
	}

	px, err := hardware.OpenNeoPixel(hw.PixelSPI)
	if err != nil {
		return nil, err
	}
	p.closers = append(p.closers, px)
	p.light = px

	pr, err := hardware.OpenSerialPrinter(ctx, hw.PrinterDevice, hw.PrinterBaud)
	if err != nil {
		return nil, err
	}
	p.closers = append(p.closers, pr)
	p.printer = pr

	slog.Info("timestamper: peripherals ready", "lcd", hw.LCDSPI, "pixel", hw.PixelSPI, "printer", hw.PrinterDevice)
	return p, nil
}

// openMock builds simulated peripherals. The display renders to snapshot
// when it is set.
func openMock(s *config.Settings, snapshot string) *peripherals {
	enc := hardware.NewMockEncoder()
	btn := hardware.NewMockButton()
	return &peripherals{
		encoder:     enc,
		button:      btn,
		display:     hardware.NewSimDisplay(s.Hardware.LCDCols, s.Hardware.LCDRows, snapshot),
		light:       hardware.NewMockLight(),
		printer:     hardware.NewMockPrinter(),
		mockEncoder: enc,
		mockButton:  btn,
	}
}
