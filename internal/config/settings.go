// Package config loads the timestamper settings from a YAML file, applies
// environment overrides and watches the file for changes.
//
// Sources, highest precedence first:
//  1. Command-line flags (applied by the caller)
//  2. Environment variables (TIMESTAMPER_*)
//  3. The settings file
//  4. Built-in defaults
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kso512/timestamper/internal/printjob"
	"github.com/kso512/timestamper/internal/timesource"
)

// DefaultPaths are searched in order when no settings file is named.
var DefaultPaths = []string{
	"timestamper.yaml",
	"/etc/timestamper/config.yaml",
}

// Settings is the full device configuration.
type Settings struct {
	TimeURL      string        `yaml:"time_url"`
	CountFile    string        `yaml:"count_file"`
	UsePaper     bool          `yaml:"use_paper"`
	LineFeed     int           `yaml:"line_feed"`
	StartupDelay time.Duration `yaml:"startup_delay"`
	PollInterval time.Duration `yaml:"poll_interval"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	Hardware     Hardware      `yaml:"hardware"`
}

// Hardware names the pins and ports the peripherals are wired to.
type Hardware struct {
	ButtonPin      string `yaml:"button_pin"`
	EncoderA       string `yaml:"encoder_a"`
	EncoderB       string `yaml:"encoder_b"`
	EncoderDivisor int    `yaml:"encoder_divisor"`
	LCDSPI         string `yaml:"lcd_spi"`
	LCDLatchPin    string `yaml:"lcd_latch_pin"`
	LCDCols        int    `yaml:"lcd_cols"`
	LCDRows        int    `yaml:"lcd_rows"`
	PixelSPI       string `yaml:"pixel_spi"`
	PrinterDevice  string `yaml:"printer_device"`
	PrinterBaud    int    `yaml:"printer_baud"`
}

// Default returns the settings for the reference build.
func Default() *Settings {
	return &Settings{
		TimeURL:      timesource.DefaultURL,
		CountFile:    "/var/lib/timestamper/count.txt",
		UsePaper:     true,
		LineFeed:     printjob.DefaultLineFeed,
		StartupDelay: 2 * time.Second,
		PollInterval: time.Millisecond,
		FetchTimeout: 10 * time.Second,
		Hardware: Hardware{
			ButtonPin:      "GPIO17",
			EncoderA:       "GPIO23",
			EncoderB:       "GPIO24",
			EncoderDivisor: 4,
			LCDSPI:         "/dev/spidev0.0",
			LCDLatchPin:    "GPIO25",
			LCDCols:        20,
			LCDRows:        4,
			PixelSPI:       "/dev/spidev1.0",
			PrinterDevice:  "/dev/serial0",
			PrinterBaud:    19200,
		},
	}
}

// Load reads settings from path, or from the first of DefaultPaths that
// exists when path is empty, then applies environment overrides. A missing
// default file is not an error; a missing named file is.
func Load(path string) (*Settings, string, error) {
	s := Default()
	if path == "" {
		for _, p := range DefaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path != "" {
		if err := loadFile(path, s); err != nil {
			return nil, "", err
		}
	}
	if err := applyEnv(s); err != nil {
		return nil, "", err
	}
	if err := s.Validate(); err != nil {
		return nil, "", err
	}
	return s, path, nil
}

func loadFile(path string, s *Settings) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	slog.Debug("config: loaded", "path", path)
	return nil
}

func applyEnv(s *Settings) error {
	if v := os.Getenv("TIMESTAMPER_TIME_URL"); v != "" {
		s.TimeURL = v
	}
	if v := os.Getenv("TIMESTAMPER_COUNT_FILE"); v != "" {
		s.CountFile = v
	}
	if v := os.Getenv("TIMESTAMPER_USE_PAPER"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: TIMESTAMPER_USE_PAPER: %w", err)
		}
		s.UsePaper = b
	}
	return nil
}

// Validate reports the first setting that cannot work.
func (s *Settings) Validate() error {
	var errs []error
	if s.TimeURL == "" {
		errs = append(errs, errors.New("time_url is required"))
	}
	if s.CountFile == "" {
		errs = append(errs, errors.New("count_file is required"))
	}
	if s.LineFeed < 0 || s.LineFeed > 255 {
		errs = append(errs, fmt.Errorf("line_feed %d out of range 0-255", s.LineFeed))
	}
	if s.PollInterval <= 0 {
		errs = append(errs, errors.New("poll_interval must be positive"))
	}
	if s.Hardware.LCDCols < 1 || s.Hardware.LCDRows < 1 {
		errs = append(errs, errors.New("lcd_cols and lcd_rows must be positive"))
	}
	if s.Hardware.PrinterBaud <= 0 {
		errs = append(errs, errors.New("printer_baud must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// PrintOptions returns the print job options these settings select.
func (s *Settings) PrintOptions() printjob.Options {
	return printjob.Options{UsePaper: s.UsePaper, LineFeed: s.LineFeed}
}
