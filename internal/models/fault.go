package models

import "time"

// FaultKind identifies why the device stopped accepting input.
type FaultKind int

const (
	FaultNone FaultKind = iota
	// FaultReadOnly means the count file could not be written because the
	// filesystem is mounted read-only (or is otherwise not writable).
	FaultReadOnly
	// FaultFull means the filesystem has no space left for the count file.
	FaultFull
)

func (k FaultKind) String() string {
	switch k {
	case FaultNone:
		return "none"
	case FaultReadOnly:
		return "read-only"
	case FaultFull:
		return "full"
	default:
		return "unknown"
	}
}

// BlinkPeriod is the half-period of the fault blink: the light is on for
// this long, then off for this long. A faster blink means storage is full.
func (k FaultKind) BlinkPeriod() time.Duration {
	if k == FaultFull {
		return 150 * time.Millisecond
	}
	return 500 * time.Millisecond
}
