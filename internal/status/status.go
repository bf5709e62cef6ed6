// Package status drives the operator-facing signals: the character display
// and the RGB status light.
package status

import (
	"context"
	"log/slog"

	"github.com/kso512/timestamper/internal/clock"
	"github.com/kso512/timestamper/internal/hardware"
	"github.com/kso512/timestamper/internal/models"
)

// Sink writes status text and colors. Display and light failures are logged
// and otherwise ignored; nothing downstream depends on them.
type Sink struct {
	display hardware.Display
	light   hardware.Light
	clock   clock.Sleeper
}

// New creates a sink. sleeper paces the fault blink.
func New(display hardware.Display, light hardware.Light, sleeper clock.Sleeper) *Sink {
	return &Sink{display: display, light: light, clock: sleeper}
}

// Say writes text to the display without clearing it and mirrors it to the log.
func (s *Sink) Say(text string) {
	slog.Info("-> " + text)
	if err := s.display.Message(text); err != nil {
		slog.Warn("status: display write failed", "err", err)
	}
}

// Show clears the display, then says text.
func (s *Sink) Show(text string) {
	if err := s.display.Clear(); err != nil {
		slog.Warn("status: display clear failed", "err", err)
	}
	s.Say(text)
}

// Fill sets the status light.
func (s *Sink) Fill(c models.Color) {
	if err := s.light.Fill(c); err != nil {
		slog.Warn("status: light write failed", "color", c, "err", err)
	}
}

// Signal shows text and sets the light in one step.
func (s *Sink) Signal(text string, c models.Color) {
	s.Fill(c)
	s.Show(text)
}

// Blink flashes the fault color at the rate for kind until ctx is done.
// It always returns ctx's error.
func (s *Sink) Blink(ctx context.Context, kind models.FaultKind) error {
	period := kind.BlinkPeriod()
	slog.Error("status: entering fault blink", "fault", kind, "period", period)
	for {
		s.Fill(models.ColorFault)
		if err := s.clock.Sleep(ctx, period); err != nil {
			return err
		}
		s.Fill(models.ColorOff)
		if err := s.clock.Sleep(ctx, period); err != nil {
			return err
		}
	}
}
