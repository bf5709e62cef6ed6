// Command timestamper runs the timestamp label printer: dial a count on the
// rotary encoder, press the button, and that many sequential timestamp labels
// are printed starting at the current network time.
//
// Run with --mock to use simulated peripherals driven from stdin.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kso512/timestamper/internal/clock"
	"github.com/kso512/timestamper/internal/config"
	"github.com/kso512/timestamper/internal/counter"
	"github.com/kso512/timestamper/internal/device"
	"github.com/kso512/timestamper/internal/models"
	"github.com/kso512/timestamper/internal/status"
	"github.com/kso512/timestamper/internal/timesource"
)

var version = "dev"

type options struct {
	configPath string
	mock       bool
	debug      bool
	countFile  string
	timeURL    string
	noPaper    bool
	snapshot   string
}

func main() {
	var opts options
	rootCmd := &cobra.Command{
		Use:           "timestamper",
		Short:         "Print sequential timestamp labels on a button press",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd, opts)
		},
	}

	f := rootCmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "settings file (default: first of "+fmt.Sprint(config.DefaultPaths)+")")
	f.BoolVar(&opts.mock, "mock", false, "use simulated peripherals controlled from stdin")
	f.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	f.StringVar(&opts.countFile, "count-file", "", "override the saved count file")
	f.StringVar(&opts.timeURL, "time-url", "", "override the time source URL")
	f.BoolVar(&opts.noPaper, "no-paper", false, "run jobs without printing")
	f.StringVar(&opts.snapshot, "snapshot", "", "with --mock, write the simulated display to this PNG")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("timestamper: exiting", "err", err)
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cobra.Command, opts options) error {
	logLevel := slog.LevelInfo
	if opts.debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	settings, path, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, opts, settings)
	if err := settings.Validate(); err != nil {
		return err
	}
	slog.Info("timestamper: starting", "version", version, "config", path, "mock", opts.mock,
		"time_url", settings.TimeURL, "count_file", settings.CountFile, "paper", settings.UsePaper)

	var periph *peripherals
	if opts.mock {
		periph = openMock(settings, opts.snapshot)
		go runConsole(ctx, os.Stdin, periph.mockEncoder, periph.mockButton)
	} else {
		periph, err = openReal(ctx, settings)
		if err != nil {
			return err
		}
	}
	defer periph.Close()

	var reload device.Reloader
	if path != "" {
		w, err := config.NewWatcher(path)
		if err != nil {
			slog.Warn("timestamper: settings reload disabled", "err", err)
		} else {
			defer w.Close()
			reload = overlay{w: w, cmd: cmd, opts: opts}
		}
	}

	sleeper := clock.Real{}
	sink := status.New(periph.display, periph.light, sleeper)
	sink.Fill(models.ColorBoot)

	dev := device.New(device.Deps{
		Encoder:  periph.encoder,
		Button:   periph.button,
		Printer:  periph.printer,
		Store:    counter.NewFileStore(settings.CountFile, sink),
		Times:    timesource.New(settings.FetchTimeout),
		Status:   sink,
		Clock:    sleeper,
		Settings: settings,
		Reload:   reload,
	})
	if err := dev.Start(ctx); err != nil {
		return err
	}

	err = dev.Run(ctx)
	if errors.Is(err, context.Canceled) {
		slog.Info("timestamper: shutdown complete", "count", dev.Position(), "state", dev.State())
		return nil
	}
	return err
}

// applyFlags lays explicitly set flags over s, above the file and env.
func applyFlags(cmd *cobra.Command, opts options, s *config.Settings) {
	f := cmd.Flags()
	if f.Changed("count-file") {
		s.CountFile = opts.countFile
	}
	if f.Changed("time-url") {
		s.TimeURL = opts.timeURL
	}
	if f.Changed("no-paper") {
		s.UsePaper = !opts.noPaper
	}
}

// overlay keeps flag overrides in force across settings reloads.
type overlay struct {
	w    *config.Watcher
	cmd  *cobra.Command
	opts options
}

func (o overlay) Poll() (*config.Settings, bool) {
	s, ok := o.w.Poll()
	if !ok {
		return nil, false
	}
	applyFlags(o.cmd, o.opts, s)
	return s, true
}
