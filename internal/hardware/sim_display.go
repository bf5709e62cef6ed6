package hardware

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	simCellW  = 7
	simCellH  = 13
	simMargin = 4
)

var (
	simBackground = color.RGBA{0x10, 0x30, 0xA0, 0xFF}
	simForeground = color.RGBA{0xE8, 0xF0, 0xFF, 0xFF}
)

// SimDisplay emulates a character LCD in memory and renders it to an image,
// optionally writing a PNG snapshot after every change.
type SimDisplay struct {
	mu           sync.Mutex
	cols, rows   int
	lines        []string
	snapshotPath string
}

// NewSimDisplay creates a cols x rows display. If snapshotPath is non-empty
// the rendered screen is written there as PNG on every update.
func NewSimDisplay(cols, rows int, snapshotPath string) *SimDisplay {
	return &SimDisplay{cols: cols, rows: rows, snapshotPath: snapshotPath}
}

func (d *SimDisplay) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lines = nil
	return d.snapshot()
}

func (d *SimDisplay) Message(text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lines = layoutText(text, d.cols, d.rows)
	return d.snapshot()
}

// Lines returns the rows currently shown.
func (d *SimDisplay) Lines() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.lines...)
}

// Render draws the current screen.
func (d *SimDisplay) Render() *image.RGBA {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.render()
}

func (d *SimDisplay) render() *image.RGBA {
	w := d.cols*simCellW + 2*simMargin
	h := d.rows*simCellH + 2*simMargin
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{simBackground}, image.Point{}, draw.Src)

	dr := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(simForeground),
		Face: basicfont.Face7x13,
	}
	for row, line := range d.lines {
		// Dot is the baseline; Face7x13 has an ascent of 11.
		dr.Dot = fixed.Point26_6{X: fixed.I(simMargin), Y: fixed.I(simMargin + row*simCellH + 11)}
		dr.DrawString(line)
	}
	return img
}

func (d *SimDisplay) snapshot() error {
	if d.snapshotPath == "" {
		return nil
	}
	tmp := d.snapshotPath + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("sim display: %w", err)
	}
	if err := png.Encode(f, d.render()); err != nil {
		f.Close()
		return fmt.Errorf("sim display: encode: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("sim display: %w", err)
	}
	return os.Rename(tmp, d.snapshotPath)
}

var _ Display = (*SimDisplay)(nil)
