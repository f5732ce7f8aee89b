package scrub

import (
	"log/slog"
	"os"

	"golang.org/x/sys/unix"
)

// Report aggregates the outcome of one scrub invocation across all roots.
type Report struct {
	// Dirty is true if any root directory still contained entries after
	// its subtree was processed.
	Dirty bool
	// Errno is the first OS error recorded against a root itself (failed
	// stat, unreadable root). Failures deeper in a subtree never set it.
	Errno unix.Errno
}

// ExitCode maps the report to the process exit status: ENOTEMPTY when any
// root is dirty, otherwise the first root-level errno, otherwise 0.
func (r *Report) ExitCode() int {
	if r.Dirty {
		return int(unix.ENOTEMPTY)
	}
	if r.Errno != 0 {
		return int(r.Errno)
	}
	return 0
}

// Run processes each root in order. Directories get the full recursive
// treatment and are checked for emptiness afterwards; anything else is
// handed to the clobber policy directly. A failing root never prevents the
// remaining roots from being processed.
func (w *Walker) Run(roots []string) *Report {
	report := &Report{}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			slog.Error("could not stat root", "path", root, "errno", errnoOf(err), "error", err)
			report.recordErrno(err)
			continue
		}

		if info.IsDir() {
			slog.Debug("processing directory", "path", root)
			if err := w.ProcessDirectory(root); err != nil {
				slog.Error("could not process root", "path", root, "errno", errnoOf(err), "error", err)
				report.recordErrno(err)
			}
			if !w.IsEmpty(root) {
				report.Dirty = true
			}
		} else {
			slog.Debug("processing node", "path", root)
			if err := w.ProcessFile(root); err != nil {
				slog.Error("could not process node", "path", root, "errno", errnoOf(err), "error", err)
			}
		}
	}

	return report
}

func (r *Report) recordErrno(err error) {
	if r.Errno == 0 {
		r.Errno = errnoOf(err)
	}
}
