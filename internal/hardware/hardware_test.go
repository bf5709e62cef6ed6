package hardware

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/kso512/timestamper/internal/models"
)

// --- Quadrature decoding ---

func turn(q *Quadrature, steps [][2]bool) {
	for _, s := range steps {
		q.Update(s[0], s[1])
	}
}

var (
	clockwise        = [][2]bool{{true, false}, {true, true}, {false, true}, {false, false}}
	counterClockwise = [][2]bool{{false, true}, {true, true}, {true, false}, {false, false}}
)

func TestQuadrature_OneDetentEachWay(t *testing.T) {
	q := NewQuadrature(false, false, 4)

	turn(q, clockwise)
	if got := q.Position(); got != 1 {
		t.Fatalf("after clockwise detent Position() = %d, want 1", got)
	}
	turn(q, counterClockwise)
	turn(q, counterClockwise)
	if got := q.Position(); got != -1 {
		t.Errorf("after two counter-clockwise detents Position() = %d, want -1", got)
	}
}

func TestQuadrature_PartialDetentDoesNotCount(t *testing.T) {
	q := NewQuadrature(false, false, 4)
	turn(q, clockwise[:3])
	if got := q.Position(); got != 0 {
		t.Errorf("Position() = %d after 3 quarter-steps, want 0", got)
	}
}

func TestQuadrature_RepeatedSampleIsIgnored(t *testing.T) {
	q := NewQuadrature(false, false, 1)
	for i := 0; i < 10; i++ {
		q.Update(false, false)
	}
	if got := q.Position(); got != 0 {
		t.Errorf("Position() = %d, want 0", got)
	}
}

func TestQuadrature_DivisorOne(t *testing.T) {
	q := NewQuadrature(false, false, 0) // clamped to 1
	turn(q, clockwise)
	if got := q.Position(); got != 4 {
		t.Errorf("Position() = %d, want 4", got)
	}
}

// --- LCD encoding ---

func TestLCDFrames_Character(t *testing.T) {
	got := lcdFrames('A', true)
	want := []byte{0x96, 0x92, 0xC6, 0xC2}
	if !bytes.Equal(got, want) {
		t.Errorf("lcdFrames('A') = % x, want % x", got, want)
	}
}

func TestLCDFrames_Command(t *testing.T) {
	got := lcdFrames(lcdClear, false)
	want := []byte{0x84, 0x80, 0xC4, 0xC0}
	if !bytes.Equal(got, want) {
		t.Errorf("lcdFrames(clear) = % x, want % x", got, want)
	}
}

func TestLayoutText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"short", "Count: 5", []string{"Count: 5"}},
		{"newlines", "a\nb", []string{"a", "b"}},
		{"wrap", "abcdefgh", []string{"abcde", "fgh"}},
		{"truncate rows", "1\n2\n3\n4", []string{"1", "2", "3"}},
		{"wrap then truncate", "abcdefghijklmnopq", []string{"abcde", "fghij", "klmno"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := layoutText(tt.text, 5, 3)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("layoutText(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

type recordingShiftRegister struct{ out []byte }

func (r *recordingShiftRegister) Shift(b byte) error {
	r.out = append(r.out, b)
	return nil
}

func TestCharLCD_MessagePositionsRows(t *testing.T) {
	sr := &recordingShiftRegister{}
	lcd, err := NewCharLCD(sr, 20, 4)
	if err != nil {
		t.Fatalf("NewCharLCD: %v", err)
	}
	lcd.sleep = func(d time.Duration) {}
	sr.out = nil

	if err := lcd.Message("A\nB"); err != nil {
		t.Fatalf("Message: %v", err)
	}
	var want []byte
	want = append(want, lcdFrames(lcdSetDDRAM|0x00, false)...)
	want = append(want, lcdFrames('A', true)...)
	want = append(want, lcdFrames(lcdSetDDRAM|0x40, false)...)
	want = append(want, lcdFrames('B', true)...)
	if !bytes.Equal(sr.out, want) {
		t.Errorf("Message frames = % x, want % x", sr.out, want)
	}
}

// --- NeoPixel encoding ---

func TestEncodeWS2812(t *testing.T) {
	got := encodeWS2812([]models.Color{{R: 0xFF, G: 0x00, B: 0x00}})
	if len(got) != 9+ws2812ResetLen {
		t.Fatalf("len = %d, want %d", len(got), 9+ws2812ResetLen)
	}
	zero := []byte{0x92, 0x49, 0x24}
	one := []byte{0xDB, 0x6D, 0xB6}
	// GRB order: green first.
	if !bytes.Equal(got[0:3], zero) {
		t.Errorf("green = % x, want % x", got[0:3], zero)
	}
	if !bytes.Equal(got[3:6], one) {
		t.Errorf("red = % x, want % x", got[3:6], one)
	}
	if !bytes.Equal(got[6:9], zero) {
		t.Errorf("blue = % x, want % x", got[6:9], zero)
	}
	for i, b := range got[9:] {
		if b != 0 {
			t.Fatalf("reset byte %d = %#x, want 0", i, b)
		}
	}
}

// --- Mocks ---

func TestMockButton_StartsReleased(t *testing.T) {
	b := NewMockButton()
	if b.Read() != gpio.High {
		t.Error("new MockButton should read High")
	}
	b.Press()
	if b.Read() != gpio.Low {
		t.Error("pressed MockButton should read Low")
	}
	b.Release()
	if b.Read() != gpio.High {
		t.Error("released MockButton should read High")
	}
}

func TestMockEncoder_Turn(t *testing.T) {
	e := NewMockEncoder()
	e.Turn(5)
	e.Turn(-2)
	if got := e.Position(); got != 3 {
		t.Errorf("Position() = %d, want 3", got)
	}
}

func TestMockPrinter_FailAndRecord(t *testing.T) {
	p := NewMockPrinter()
	ctx := context.Background()
	if err := p.SetJustify(ctx, JustifyCenter); err != nil {
		t.Fatalf("SetJustify: %v", err)
	}
	p.SetFail(true)
	if err := p.Feed(ctx, 2); err == nil {
		t.Error("Feed should fail when configured to")
	}
	if got := p.Ops(); !reflect.DeepEqual(got, []string{"justify 1"}) {
		t.Errorf("Ops() = %q", got)
	}
}

func TestMockLight_Last(t *testing.T) {
	l := NewMockLight()
	if l.Last() != models.ColorOff {
		t.Error("Last() on new light should be ColorOff")
	}
	_ = l.Fill(models.ColorAwaiting)
	if l.Last() != models.ColorAwaiting {
		t.Errorf("Last() = %v, want %v", l.Last(), models.ColorAwaiting)
	}
}

// --- Simulated display ---

func TestSimDisplay_RenderAndSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lcd.png")
	d := NewSimDisplay(20, 4, path)

	if err := d.Message("Count: 5"); err != nil {
		t.Fatalf("Message: %v", err)
	}
	if got := d.Lines(); !reflect.DeepEqual(got, []string{"Count: 5"}) {
		t.Errorf("Lines() = %q", got)
	}

	img := d.Render()
	if w, h := img.Bounds().Dx(), img.Bounds().Dy(); w != 20*simCellW+2*simMargin || h != 4*simCellH+2*simMargin {
		t.Errorf("Render() size = %dx%d", w, h)
	}
	if img.RGBAAt(0, 0) != simBackground {
		t.Errorf("corner pixel = %v, want background", img.RGBAAt(0, 0))
	}
	lit := false
	for y := simMargin; y < simMargin+simCellH && !lit; y++ {
		for x := simMargin; x < simMargin+8*simCellW; x++ {
			if img.RGBAAt(x, y) == simForeground {
				lit = true
				break
			}
		}
	}
	if !lit {
		t.Error("no foreground pixels in the first row")
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}
	defer f.Close()
	snap, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Bounds() != img.Bounds() {
		t.Errorf("snapshot bounds = %v, want %v", snap.Bounds(), img.Bounds())
	}
}

func TestSimDisplay_ClearEmptiesLines(t *testing.T) {
	d := NewSimDisplay(20, 4, "")
	_ = d.Message("hello")
	if err := d.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if len(d.Lines()) != 0 {
		t.Errorf("Lines() after Clear = %q", d.Lines())
	}
}
