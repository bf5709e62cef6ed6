package hardware

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
)

func TestThermalPrinter_LabelSequence(t *testing.T) {
	var buf bytes.Buffer
	p := NewThermalPrinter(&buf, 0)
	ctx := context.Background()

	steps := []func() error{
		func() error { return p.SetJustify(ctx, JustifyCenter) },
		func() error { return p.PrintBarcode(ctx, "1700000000", BarcodeCode128) },
		func() error { return p.SetSize(ctx, SizeLarge) },
		func() error { return p.Print(ctx, "2023-11-14\nT22:13:20Z") },
		func() error { return p.Feed(ctx, 2) },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	var want []byte
	want = append(want, 0x1B, 'a', 1)
	want = append(want, 0x1D, 'H', 2, 0x1D, 'w', 3, 0x1D, 'k', 8)
	want = append(want, "1700000000"...)
	want = append(want, 0)
	want = append(want, 0x1B, '!', 0x30)
	want = append(want, "2023-11-14\nT22:13:20Z\n"...)
	want = append(want, 0x1B, 'd', 2)

	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("printer bytes =\n% x\nwant\n% x", buf.Bytes(), want)
	}
}

func TestThermalPrinter_Reset(t *testing.T) {
	var buf bytes.Buffer
	p := NewThermalPrinter(&buf, 0)
	if err := p.Reset(context.Background()); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	want := []byte{0x1B, '@', 0x1D, 'h', 50}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("Reset bytes = % x, want % x", buf.Bytes(), want)
	}
}

func TestThermalPrinter_Sizes(t *testing.T) {
	tests := []struct {
		size Size
		mode byte
	}{
		{SizeSmall, 0x00},
		{SizeMedium, 0x10},
		{SizeLarge, 0x30},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		p := NewThermalPrinter(&buf, 0)
		if err := p.SetSize(context.Background(), tt.size); err != nil {
			t.Fatalf("SetSize(%d): %v", tt.size, err)
		}
		if got := buf.Bytes()[2]; got != tt.mode {
			t.Errorf("SetSize(%d) mode = %#x, want %#x", tt.size, got, tt.mode)
		}
	}
}

func TestThermalPrinter_RejectsBadInput(t *testing.T) {
	var buf bytes.Buffer
	p := NewThermalPrinter(&buf, 0)
	ctx := context.Background()

	if err := p.PrintBarcode(ctx, "", BarcodeCode128); err == nil {
		t.Error("empty barcode should fail")
	}
	if err := p.PrintBarcode(ctx, "12\x0034", BarcodeCode128); err == nil {
		t.Error("barcode with NUL should fail")
	}
	if err := p.Feed(ctx, -1); err == nil {
		t.Error("negative feed should fail")
	}
	if err := p.SetSize(ctx, Size(9)); err == nil {
		t.Error("unknown size should fail")
	}
	if err := p.SetJustify(ctx, Justify(7)); err == nil {
		t.Error("unknown justify should fail")
	}
	if buf.Len() != 0 {
		t.Errorf("rejected commands wrote % x", buf.Bytes())
	}
}

func TestThermalPrinter_LongTextIsChunked(t *testing.T) {
	var w chunkWriter
	p := NewThermalPrinter(&w, 0)
	text := string(bytes.Repeat([]byte("x"), 3*printerBurst))
	if err := p.Print(context.Background(), text); err != nil {
		t.Fatalf("Print: %v", err)
	}
	for i, n := range w.sizes {
		if n > printerBurst {
			t.Errorf("write %d is %d bytes, want <= %d", i, n, printerBurst)
		}
	}
	if w.total != 3*printerBurst+1 {
		t.Errorf("wrote %d bytes, want %d", w.total, 3*printerBurst+1)
	}
}

func TestThermalPrinter_CancelledContext(t *testing.T) {
	var buf bytes.Buffer
	p := NewThermalPrinter(&buf, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Print(ctx, string(bytes.Repeat([]byte("x"), 4*printerBurst)))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Print with cancelled ctx = %v, want context.Canceled", err)
	}
}

type chunkWriter struct {
	sizes []int
	total int
}

func (w *chunkWriter) Write(p []byte) (int, error) {
	w.sizes = append(w.sizes, len(p))
	w.total += len(p)
	return len(p), nil
}

// TestThermalPrinter_JobGolden pins the full byte stream of a reset followed
// by two labels.
func TestThermalPrinter_JobGolden(t *testing.T) {
	var buf bytes.Buffer
	p := NewThermalPrinter(&buf, 0)
	ctx := context.Background()

	if err := p.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	for _, l := range []struct{ sec, text string }{
		{"1700000000", "2023-11-14\nT22:13:20Z"},
		{"1700000001", "2023-11-14\nT22:13:21Z"},
	} {
		if err := p.SetJustify(ctx, JustifyCenter); err != nil {
			t.Fatal(err)
		}
		if err := p.PrintBarcode(ctx, l.sec, BarcodeCode128); err != nil {
			t.Fatal(err)
		}
		if err := p.SetSize(ctx, SizeLarge); err != nil {
			t.Fatal(err)
		}
		if err := p.Print(ctx, l.text); err != nil {
			t.Fatal(err)
		}
		if err := p.Feed(ctx, 2); err != nil {
			t.Fatal(err)
		}
	}

	g := goldie.New(t)
	g.Assert(t, "two_label_job", buf.Bytes())
}
