package counter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/kso512/timestamper/internal/models"
)

// DefaultFileName is the name of the count record on the device filesystem.
const DefaultFileName = "count.txt"

// file is the subset of *os.File the store writes through.
type file interface {
	io.Writer
	Sync() error
	Close() error
}

// openFile is a variable so tests can inject write failures.
var openFile = func(name string, flag int, perm os.FileMode) (file, error) {
	return os.OpenFile(name, flag, perm)
}

// FileStore keeps the count in a small text file.
type FileStore struct {
	path   string
	notify Notifier
}

// NewFileStore creates a store backed by path. notify may be nil.
func NewFileStore(path string, notify Notifier) *FileStore {
	if notify == nil {
		notify = nopNotifier{}
	}
	return &FileStore{path: path, notify: notify}
}

// Path returns the file path used by this store.
func (s *FileStore) Path() string { return s.path }

// Load reads the count from disk. A missing or corrupt file reads as 0.
func (s *FileStore) Load() int {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("counter: cannot read count file", "path", s.path, "err", err)
		}
		s.notify.Say("No saved count to load")
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		slog.Warn("counter: corrupt count file, using 0", "path", s.path, "err", err)
		s.notify.Say("No saved count to load")
		return 0
	}
	s.notify.Say("Loaded saved Count: " + strconv.Itoa(n))
	return n
}

// Save writes the count to a temp file, syncs it and renames it over the
// record, so a power loss leaves either the old or the new count.
func (s *FileStore) Save(count int) error {
	s.notify.Fill(models.ColorWriting)
	defer s.notify.Fill(models.ColorReceived)

	if err := s.write(count); err != nil {
		serr := &SaveError{Path: s.path, Kind: classify(err), Err: err}
		slog.Error("counter: save failed", "path", s.path, "count", count, "err", err)
		return serr
	}
	slog.Debug("counter: saved", "path", s.path, "count", count)
	return nil
}

func (s *FileStore) write(count int) error {
	tmpPath := s.path + ".tmp"
	f, err := openFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f, "%d\n", count); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	syncDir(filepath.Dir(s.path))
	return nil
}

// syncDir flushes the directory entry after a rename. Failure only weakens
// durability of the rename itself, so it is logged and ignored.
func syncDir(dir string) {
	fd, err := unix.Open(dir, unix.O_RDONLY|unix.O_DIRECTORY, 0)
	if err != nil {
		return
	}
	defer unix.Close(fd)
	if err := unix.Fsync(fd); err != nil {
		slog.Debug("counter: directory fsync failed", "dir", dir, "err", err)
	}
}

// classify maps an OS error onto ErrFull or ErrReadOnly. Anything that is not
// an out-of-space condition is treated as unwritable storage.
func classify(err error) error {
	if errors.Is(err, unix.ENOSPC) || errors.Is(err, unix.EDQUOT) {
		return ErrFull
	}
	return ErrReadOnly
}

var _ Store = (*FileStore)(nil)
