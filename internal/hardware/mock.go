package hardware

import (
	"context"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"

	"github.com/kso512/timestamper/internal/models"
)

// MockEncoder is an in-memory encoder for tests and --mock runs.
type MockEncoder struct {
	mu  sync.Mutex
	pos int
}

func NewMockEncoder() *MockEncoder { return &MockEncoder{} }

// Turn moves the encoder by delta detents.
func (m *MockEncoder) Turn(delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pos += delta
}

func (m *MockEncoder) Position() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pos
}

// MockButton is an in-memory button. It starts released (High).
type MockButton struct {
	mu    sync.Mutex
	level gpio.Level
}

func NewMockButton() *MockButton { return &MockButton{level: gpio.High} }

// SetLevel sets the raw pin level.
func (m *MockButton) SetLevel(l gpio.Level) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.level = l
}

// Press holds the button down (Low).
func (m *MockButton) Press() { m.SetLevel(gpio.Low) }

// Release lets the button go (High).
func (m *MockButton) Release() { m.SetLevel(gpio.High) }

func (m *MockButton) Read() gpio.Level {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}

// MockDisplay records everything written to it.
type MockDisplay struct {
	mu       sync.Mutex
	messages []string
	clears   int
	current  string
}

func NewMockDisplay() *MockDisplay { return &MockDisplay{} }

func (m *MockDisplay) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	m.current = ""
	return nil
}

func (m *MockDisplay) Message(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, text)
	m.current = text
	return nil
}

// Messages returns every message written, in order.
func (m *MockDisplay) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.messages...)
}

// Current returns the text on screen since the last Clear.
func (m *MockDisplay) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// MockLight records every color it is filled with.
type MockLight struct {
	mu     sync.Mutex
	colors []models.Color
}

func NewMockLight() *MockLight { return &MockLight{} }

func (m *MockLight) Fill(c models.Color) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.colors = append(m.colors, c)
	return nil
}

// Colors returns every color set, in order.
func (m *MockLight) Colors() []models.Color {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Color(nil), m.colors...)
}

// Last returns the most recent color, or ColorOff if none was set.
func (m *MockLight) Last() models.Color {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.colors) == 0 {
		return models.ColorOff
	}
	return m.colors[len(m.colors)-1]
}

// MockPrinter records printer calls as readable operations, e.g.
// "justify 1", "barcode 8 1700000000", "print 2023-11-14\nT22:13:20Z".
type MockPrinter struct {
	mu   sync.Mutex
	ops  []string
	fail bool
}

func NewMockPrinter() *MockPrinter { return &MockPrinter{} }

// SetFail configures the mock to fail every call.
func (m *MockPrinter) SetFail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fail
}

// Ops returns the recorded operations.
func (m *MockPrinter) Ops() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ops...)
}

func (m *MockPrinter) record(format string, args ...any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return ErrHardware("mock: printer failure configured")
	}
	m.ops = append(m.ops, fmt.Sprintf(format, args...))
	return nil
}

func (m *MockPrinter) SetJustify(_ context.Context, j Justify) error {
	return m.record("justify %d", j)
}

func (m *MockPrinter) SetSize(_ context.Context, s Size) error {
	return m.record("size %d", s)
}

func (m *MockPrinter) PrintBarcode(_ context.Context, text string, kind Barcode) error {
	return m.record("barcode %d %s", kind, text)
}

func (m *MockPrinter) Print(_ context.Context, text string) error {
	return m.record("print %s", text)
}

func (m *MockPrinter) Feed(_ context.Context, lines int) error {
	return m.record("feed %d", lines)
}

// HardwareError is returned when a hardware operation fails.
type HardwareError struct {
	msg string
}

func (e HardwareError) Error() string { return e.msg }

// ErrHardware creates a new hardware error.
func ErrHardware(msg string) error { return HardwareError{msg: msg} }

var (
	_ Encoder = (*MockEncoder)(nil)
	_ Button  = (*MockButton)(nil)
	_ Display = (*MockDisplay)(nil)
	_ Light   = (*MockLight)(nil)
	_ Printer = (*MockPrinter)(nil)
)
