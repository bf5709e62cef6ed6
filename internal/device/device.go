// Package device implements the timestamper control loop: it watches the
// encoder and button, persists the dialed count and runs print jobs.
//
// The loop is a single cooperative goroutine. The only blocking calls are the
// time fetch at the start of a job and the settle delay between labels.
package device

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kso512/timestamper/internal/clock"
	"github.com/kso512/timestamper/internal/config"
	"github.com/kso512/timestamper/internal/counter"
	"github.com/kso512/timestamper/internal/hardware"
	"github.com/kso512/timestamper/internal/input"
	"github.com/kso512/timestamper/internal/models"
	"github.com/kso512/timestamper/internal/printjob"
	"github.com/kso512/timestamper/internal/sequencer"
	"github.com/kso512/timestamper/internal/status"
)

// State is the control loop state.
type State int

const (
	StateIdle State = iota
	StatePrinting
	// StateFault is terminal: the count could not be saved and the device
	// only blinks its fault code until it is restarted.
	StateFault
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePrinting:
		return "printing"
	case StateFault:
		return "fault"
	default:
		return "unknown"
	}
}

const (
	msgConfiguring = "Configuring..."
	msgAwaiting    = "Configured! Awaiting rotary input to adjust Count; press button to print..."
	msgComplete    = "Printing complete! Awaiting rotary input to adjust Count; press button to print..."
	msgFailed      = "Print job failed! Awaiting rotary input to adjust Count; press button to print..."
)

// ErrNotStarted is returned by Step before Start has succeeded.
var ErrNotStarted = errors.New("device: not started")

// TimeSource returns the current Unix time from url.
type TimeSource interface {
	Fetch(ctx context.Context, url string) (int64, error)
}

// Reloader yields new settings when the settings file changes.
type Reloader interface {
	Poll() (*config.Settings, bool)
}

// Deps are the resources the device owns. Reload may be nil.
type Deps struct {
	Encoder  hardware.Encoder
	Button   hardware.Button
	Printer  hardware.Printer
	Store    counter.Store
	Times    TimeSource
	Status   *status.Sink
	Clock    clock.Sleeper
	Settings *config.Settings
	Reload   Reloader
}

// Device is the control loop state machine.
type Device struct {
	enc     hardware.Encoder
	store   counter.Store
	times   TimeSource
	status  *status.Sink
	clock   clock.Sleeper
	reload  Reloader
	runner  *printjob.Runner
	button  *input.Debouncer
	tracker *input.Tracker

	timeURL      string
	startupDelay time.Duration
	pollInterval time.Duration

	state State
	fault models.FaultKind
}

// New wires the device. Nothing touches the hardware until Start.
func New(d Deps) *Device {
	s := d.Settings
	if s == nil {
		s = config.Default()
	}
	return &Device{
		enc:          d.Encoder,
		store:        d.Store,
		times:        d.Times,
		status:       d.Status,
		clock:        d.Clock,
		reload:       d.Reload,
		runner:       printjob.New(d.Printer, d.Status, jobSleeper(d.Clock, d.Encoder, s.PollInterval), s.PrintOptions()),
		button:       input.NewDebouncer(d.Button),
		timeURL:      s.TimeURL,
		startupDelay: s.StartupDelay,
		pollInterval: s.PollInterval,
	}
}

// Start waits out the startup delay, checks the time source once and loads
// the saved count. A failed time check is fatal to startup.
func (d *Device) Start(ctx context.Context) error {
	if err := d.clock.Sleep(ctx, d.startupDelay); err != nil {
		return err
	}
	d.status.Signal(msgConfiguring, models.ColorConfiguring)

	seed, err := d.times.Fetch(ctx, d.timeURL)
	if err != nil {
		d.status.Say("Unable to fetch " + d.timeURL)
		return fmt.Errorf("device: time source self-test: %w", err)
	}
	d.status.Say("Test timestamp: " + sequencer.NewLabel(seed).Stamp())

	d.tracker = input.NewTracker(d.enc, d.store.Load())
	d.status.Signal(msgAwaiting, models.ColorAwaiting)
	slog.Info("device: started", "count", d.tracker.Position(), "store", d.store.Path())
	return nil
}

// State returns the current state.
func (d *Device) State() State { return d.state }

// Fault returns why the device is in StateFault, or FaultNone.
func (d *Device) Fault() models.FaultKind { return d.fault }

// Position returns the current logical count.
func (d *Device) Position() int {
	if d.tracker == nil {
		return 0
	}
	return d.tracker.Position()
}

// Step runs one iteration of the control loop: apply reloaded settings,
// redraw the count if it moved, and run a full cycle if the button was
// released. In StateFault it does nothing.
func (d *Device) Step(ctx context.Context) error {
	if d.tracker == nil {
		return ErrNotStarted
	}
	if d.state == StateFault {
		return nil
	}
	d.applyReload()

	pos, changed := d.tracker.Poll()
	if changed {
		d.status.Show(fmt.Sprintf("Count: %d", pos))
	}
	if !d.button.Poll() {
		return nil
	}
	return d.cycle(ctx, pos)
}

// Run steps the loop every poll interval until ctx is done. A save failure
// moves the device into StateFault, where Run blinks the fault code until
// ctx is done. Run returns ctx's error.
func (d *Device) Run(ctx context.Context) error {
	for {
		if d.state == StateFault {
			return d.status.Blink(ctx, d.fault)
		}
		if err := d.Step(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, ErrNotStarted) {
				return err
			}
			slog.Error("device: cycle failed", "err", err)
		}
		if err := d.clock.Sleep(ctx, d.pollInterval); err != nil {
			return err
		}
	}
}

// cycle persists the count, then prints it. The save always completes before
// any label is printed so a power loss mid-job keeps the count.
func (d *Device) cycle(ctx context.Context, pos int) (err error) {
	d.status.Fill(models.ColorReceived)
	count := models.NormalizeCount(pos)

	if err = d.store.Save(count); err != nil {
		d.state = StateFault
		d.fault = counter.FaultKind(err)
		d.status.Show("Cannot save count: storage " + d.fault.String())
		slog.Error("device: entering fault state", "fault", d.fault, "count", count, "err", err)
		return nil
	}
	defer func() { d.finish(count, err) }()

	d.status.Show(fmt.Sprintf("Button pressed! Preparing to print %d timestamps...", count))
	seed, err := d.times.Fetch(ctx, d.timeURL)
	if err != nil {
		d.status.Say("Unable to fetch " + d.timeURL)
		return fmt.Errorf("device: fetch time: %w", err)
	}

	d.state = StatePrinting
	return d.runner.Run(ctx, models.NewPrintJob(seed, count))
}

// finish returns to Idle after a cycle that saved its count, whether or not
// the job itself succeeded. The tracker is rebased onto the saved count so
// the display shows what was persisted.
func (d *Device) finish(count int, err error) {
	d.state = StateIdle
	d.button.Reset()
	d.tracker.Rebase(count)
	msg := msgComplete
	if err != nil {
		msg = msgFailed
	}
	d.status.Signal(msg, models.ColorAwaiting)
}

func (d *Device) applyReload() {
	if d.reload == nil {
		return
	}
	s, ok := d.reload.Poll()
	if !ok {
		return
	}
	d.timeURL = s.TimeURL
	d.runner.SetOptions(s.PrintOptions())
	slog.Info("device: settings applied", "time_url", s.TimeURL, "paper", s.UsePaper, "line_feed", s.LineFeed)
}
