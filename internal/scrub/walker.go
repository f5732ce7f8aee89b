// Package scrub implements the recursive tree-collapse engine: a depth-first
// walk that deletes entries matched by the clobber policy, then removes any
// directory left empty by the cascade, bottom-up.
package scrub

import (
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/scrubtool/scrub/internal/config"
	"github.com/scrubtool/scrub/internal/entry"
	"github.com/scrubtool/scrub/internal/policy"
)

// Walker drives one scrub invocation. It holds the immutable run
// configuration, the derived clobber policy, and the stream that simulated
// actions are written to.
type Walker struct {
	cfg *config.Config
	pol *policy.Policy
	out io.Writer
}

// New creates a Walker for cfg. Simulated unlink lines are written to out;
// a nil out means stderr.
func New(cfg *config.Config, out io.Writer) *Walker {
	if out == nil {
		out = os.Stderr
	}
	return &Walker{
		cfg: cfg,
		pol: policy.New(cfg),
		out: out,
	}
}

// ProcessDirectory scrubs the tree rooted at path. Children are fully
// resolved before the parent decides whether to remove them, which is what
// lets nested empty-after-clobbering trees collapse upward in one pass.
// An emptied child is removed by emptiness alone, bypassing the clobber
// policy. Per-entry failures are logged and never abort the walk; the only
// error return is a directory that could not be read at all.
func (w *Walker) ProcessDirectory(path string) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		return err
	}

	for _, d := range entries {
		w.processEntry(path, d)
	}

	return nil
}

// processEntry classifies and handles a single entry of parent. Failures
// are logged, never returned; one bad entry must not cost its siblings.
func (w *Walker) processEntry(parent string, d fs.DirEntry) {
	child := filepath.Join(parent, d.Name())

	switch entry.Classify(d) {
	case entry.KindDirectory:
		if w.cfg.Preserve.Hidden && policy.IsHidden(d.Name()) {
			slog.Debug("skipping hidden directory", "path", child)
			return
		}
		if err := w.ProcessDirectory(child); err != nil {
			slog.Error("could not process directory", "path", child, "errno", errnoOf(err), "error", err)
			return
		}
		if !w.IsEmpty(child) {
			slog.Debug("directory not empty, not unlinking", "path", child)
			return
		}
		if err := w.unlink(child); err != nil {
			slog.Error("could not unlink directory", "path", child, "errno", errnoOf(err), "error", err)
		}

	case entry.KindSpecial:
		if w.cfg.Preserve.Special {
			return
		}
		fallthrough

	default: // regular, or unknown treated as regular
		if err := w.ProcessFile(child); err != nil {
			slog.Debug("could not process file", "path", child, "errno", errnoOf(err), "error", err)
		}
	}
}
