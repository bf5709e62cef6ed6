// Package sequencer derives the run of per-second timestamp labels printed
// for one job.
package sequencer

import (
	"iter"
	"strings"
	"time"
)

const (
	layout    = "2006-01-02T15:04:05"
	separator = "T"
	suffix    = "Z"
)

// Label is the printable form of one second in a sequence.
type Label struct {
	Second int64  // absolute Unix second, encoded in the barcode
	Date   string // e.g. "2023-11-14"
	Time   string // e.g. "T22:13:20Z", separator kept
}

// Stamp is the full timestamp text, date and time joined.
func (l Label) Stamp() string { return l.Date + l.Time }

// Text is the two-line body printed under the barcode.
func (l Label) Text() string { return l.Date + "\n" + l.Time }

// NewLabel formats a single second. The trailing Z is a fixed marker: the
// second is rendered as-is on the UTC calendar with no offset applied.
func NewLabel(second int64) Label {
	stamp := time.Unix(second, 0).UTC().Format(layout) + suffix
	date, rest, _ := strings.Cut(stamp, separator)
	return Label{Second: second, Date: date, Time: separator + rest}
}

// Sequence is a finite, restartable run of labels starting at a seed second.
// Labels are computed on demand; a Sequence holds no per-label state.
type Sequence struct {
	seed  int64
	count int
}

// Generate returns the sequence of count labels for seed, seed+1, ...
// A count below zero yields an empty sequence.
func Generate(seed int64, count int) Sequence {
	if count < 0 {
		count = 0
	}
	return Sequence{seed: seed, count: count}
}

// Len returns the number of labels in the sequence.
func (s Sequence) Len() int { return s.count }

// At returns label i. It panics if i is out of range.
func (s Sequence) At(i int) Label {
	if i < 0 || i >= s.count {
		panic("sequencer: index out of range")
	}
	return NewLabel(s.seed + int64(i))
}

// All yields each index and label in order. Ranging over it again restarts
// from the first label.
func (s Sequence) All() iter.Seq2[int, Label] {
	return func(yield func(int, Label) bool) {
		for i := 0; i < s.count; i++ {
			if !yield(i, s.At(i)) {
				return
			}
		}
	}
}
