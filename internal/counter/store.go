// Package counter persists the dialed count across power cycles as a single
// newline-terminated integer.
package counter

import (
	"errors"

	"github.com/kso512/timestamper/internal/models"
)

// Save failures. A failed save is terminal for the device: the caller moves
// into the matching fault state instead of retrying.
var (
	ErrReadOnly = errors.New("counter: storage is not writable")
	ErrFull     = errors.New("counter: storage is full")
)

// Notifier receives the store's status output. Both calls are observational.
type Notifier interface {
	Say(text string)
	Fill(c models.Color)
}

// Store is the interface for persisting the count.
type Store interface {
	// Load returns the saved count, or 0 if there is none or it cannot be
	// read. Load never fails.
	Load() int

	// Save durably writes the count. The returned error matches ErrReadOnly
	// or ErrFull under errors.Is.
	Save(count int) error

	// Path returns the location of the backing record.
	Path() string
}

// SaveError describes a failed save.
type SaveError struct {
	Path string
	Kind error // ErrReadOnly or ErrFull
	Err  error // underlying cause
}

func (e *SaveError) Error() string {
	return e.Kind.Error() + ": " + e.Path + ": " + e.Err.Error()
}

func (e *SaveError) Unwrap() []error { return []error{e.Kind, e.Err} }

// FaultKind maps a save error onto the device fault it causes.
func FaultKind(err error) models.FaultKind {
	switch {
	case err == nil:
		return models.FaultNone
	case errors.Is(err, ErrFull):
		return models.FaultFull
	default:
		return models.FaultReadOnly
	}
}

type nopNotifier struct{}

func (nopNotifier) Say(string)         {}
func (nopNotifier) Fill(models.Color) {}
