package scrub

import (
	"io"
	"log/slog"
	"os"
)

// IsEmpty reports whether the directory at path contains no entries.
// It reads at most one entry; one is enough to disqualify. A directory
// that cannot be opened is reported as non-empty so that nothing is ever
// deleted on the strength of an uninspectable path.
func (w *Walker) IsEmpty(path string) bool {
	dir, err := os.Open(path)
	if err != nil {
		slog.Error("could not open directory", "path", path, "errno", errnoOf(err), "error", err)
		return false
	}
	defer dir.Close()

	_, err = dir.ReadDir(1)
	return err == io.EOF
}
