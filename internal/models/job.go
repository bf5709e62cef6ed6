package models

import (
	"math"

	"github.com/google/uuid"
)

// PrintJob is the unit of work created by one completed button press.
type PrintJob struct {
	ID    string
	Seed  int64 // Unix seconds from the time source
	Count int   // number of labels, always >= 1
}

// NewPrintJob returns a job with a fresh ID.
func NewPrintJob(seed int64, count int) PrintJob {
	return PrintJob{ID: uuid.NewString(), Seed: seed, Count: count}
}

// NormalizeCount turns a dialed position into a label count: negative counts
// are made positive and zero is promoted to one, so a press always prints.
// math.MinInt has no positive counterpart and clamps to math.MaxInt.
func NormalizeCount(position int) int {
	switch {
	case position == 0:
		return 1
	case position == math.MinInt:
		return math.MaxInt
	case position < 0:
		return -position
	}
	return position
}
