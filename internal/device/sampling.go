package device

import (
	"context"
	"time"

	"github.com/kso512/timestamper/internal/clock"
	"github.com/kso512/timestamper/internal/hardware"
)

// samplingSleeper splits long sleeps into poll-interval slices and samples
// the encoder after each one, so turns made during a print job are decoded.
type samplingSleeper struct {
	clock clock.Sleeper
	enc   hardware.Sampler
	every time.Duration
}

// jobSleeper returns the sleeper for print jobs. Encoders that are not
// polled keep the plain clock.
func jobSleeper(c clock.Sleeper, enc hardware.Encoder, every time.Duration) clock.Sleeper {
	s, ok := enc.(hardware.Sampler)
	if !ok || every <= 0 {
		return c
	}
	return samplingSleeper{clock: c, enc: s, every: every}
}

func (s samplingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	for d > 0 {
		step := min(d, s.every)
		if err := s.clock.Sleep(ctx, step); err != nil {
			return err
		}
		s.enc.Sample()
		d -= step
	}
	return nil
}
