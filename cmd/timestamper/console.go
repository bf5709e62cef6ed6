package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/kso512/timestamper/internal/hardware"
)

// pressHold keeps a simulated press down long enough for the loop to see it.
const pressHold = 50 * time.Millisecond

type consoleCmd struct {
	turn  int
	press bool
}

// parseConsole reads one console line: "+N" or "-N" turns the encoder by N
// detents, a bare "+" or "-" by one, and "p" presses the button.
func parseConsole(line string) (consoleCmd, error) {
	line = strings.TrimSpace(line)
	switch {
	case line == "p" || line == "press":
		return consoleCmd{press: true}, nil
	case line == "+":
		return consoleCmd{turn: 1}, nil
	case line == "-":
		return consoleCmd{turn: -1}, nil
	case strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-"):
		n, err := strconv.Atoi(line)
		if err != nil {
			return consoleCmd{}, fmt.Errorf("bad turn %q: %w", line, err)
		}
		return consoleCmd{turn: n}, nil
	}
	return consoleCmd{}, fmt.Errorf("unknown command %q (use +N, -N or p)", line)
}

// runConsole drives the mock encoder and button from r until r ends or ctx
// is done.
func runConsole(ctx context.Context, r io.Reader, enc *hardware.MockEncoder, btn *hardware.MockButton) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if ctx.Err() != nil {
			return
		}
		c, err := parseConsole(sc.Text())
		if err != nil {
			slog.Warn("console: " + err.Error())
			continue
		}
		if c.turn != 0 {
			enc.Turn(c.turn)
		}
		if c.press {
			btn.Press()
			select {
			case <-ctx.Done():
			case <-time.After(pressHold):
			}
			btn.Release()
		}
	}
}
