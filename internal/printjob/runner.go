// Package printjob prints the labels of one job, one at a time.
package printjob

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/kso512/timestamper/internal/clock"
	"github.com/kso512/timestamper/internal/hardware"
	"github.com/kso512/timestamper/internal/models"
	"github.com/kso512/timestamper/internal/sequencer"
)

// SettleDelay is the minimum pause after each label so the print mechanism
// never receives a label while the previous one is still printing.
const SettleDelay = time.Second

// DefaultLineFeed is the blank space fed after each label.
const DefaultLineFeed = 2

// State is the runner state.
type State int

const (
	Idle State = iota
	Printing
)

func (s State) String() string {
	if s == Printing {
		return "printing"
	}
	return "idle"
}

// Screen shows progress text.
type Screen interface {
	Show(text string)
}

// Options control what reaches the paper.
type Options struct {
	UsePaper bool // false exercises everything but the printer
	LineFeed int
}

// DefaultOptions prints with the standard feed gap.
func DefaultOptions() Options {
	return Options{UsePaper: true, LineFeed: DefaultLineFeed}
}

// Runner drives a job through the screen and printer.
type Runner struct {
	printer hardware.Printer
	screen  Screen
	clock   clock.Sleeper
	opts    Options
	state   State
}

func New(printer hardware.Printer, screen Screen, sleeper clock.Sleeper, opts Options) *Runner {
	return &Runner{printer: printer, screen: screen, clock: sleeper, opts: opts}
}

// SetOptions replaces the options used by the next job.
func (r *Runner) SetOptions(opts Options) { r.opts = opts }

// Options returns the current options.
func (r *Runner) Options() Options { return r.opts }

// State returns Printing while Run is in progress.
func (r *Runner) State() State { return r.state }

// Run prints job.Count labels starting at job.Seed, in order, pausing
// SettleDelay after each one. A printer error stops the job.
func (r *Runner) Run(ctx context.Context, job models.PrintJob) error {
	r.state = Printing
	defer func() { r.state = Idle }()

	log := slog.With("job", job.ID)
	log.Info("printjob: started", "seed", job.Seed, "count", job.Count, "paper", r.opts.UsePaper)

	for i, label := range sequencer.Generate(job.Seed, job.Count).All() {
		r.screen.Show(fmt.Sprintf("Printing: %d of %d\n%d\n%s", i+1, job.Count, label.Second, label.Text()))
		if r.opts.UsePaper {
			if err := r.print(ctx, label); err != nil {
				log.Error("printjob: printer failed", "item", i+1, "err", err)
				return fmt.Errorf("printjob: label %d of %d: %w", i+1, job.Count, err)
			}
		}
		if err := r.clock.Sleep(ctx, SettleDelay); err != nil {
			return err
		}
	}
	log.Info("printjob: finished", "count", job.Count)
	return nil
}

func (r *Runner) print(ctx context.Context, label sequencer.Label) error {
	if err := r.printer.SetJustify(ctx, hardware.JustifyCenter); err != nil {
		return err
	}
	if err := r.printer.PrintBarcode(ctx, strconv.FormatInt(label.Second, 10), hardware.BarcodeCode128); err != nil {
		return err
	}
	if err := r.printer.SetSize(ctx, hardware.SizeLarge); err != nil {
		return err
	}
	if err := r.printer.Print(ctx, label.Text()); err != nil {
		return err
	}
	return r.printer.Feed(ctx, r.opts.LineFeed)
}
