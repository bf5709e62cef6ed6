// Package input turns raw encoder and button samples into the logical count
// and press events the control loop acts on.
package input

import "github.com/kso512/timestamper/internal/hardware"

// Tracker reports the logical count: the session offset plus the encoder's
// cumulative position. The encoder itself is never reset.
type Tracker struct {
	enc    hardware.Encoder
	offset int
	last   int
	seen   bool
}

// NewTracker starts a session whose count reads offset at the encoder's
// current position of zero.
func NewTracker(enc hardware.Encoder, offset int) *Tracker {
	return &Tracker{enc: enc, offset: offset}
}

// Position returns offset + raw encoder position.
func (t *Tracker) Position() int {
	return t.offset + t.enc.Position()
}

// Offset returns the session base.
func (t *Tracker) Offset() int { return t.offset }

// Poll samples the position and reports whether it differs from the value
// seen by the previous Poll. The first Poll always reports a change.
func (t *Tracker) Poll() (int, bool) {
	pos := t.Position()
	changed := !t.seen || pos != t.last
	t.last, t.seen = pos, true
	return pos, changed
}

// Rebase moves the offset so the current position reads count. The next Poll
// reports a change so the display is redrawn.
func (t *Tracker) Rebase(count int) {
	t.offset = count - t.enc.Position()
	t.seen = false
}
