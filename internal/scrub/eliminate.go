package scrub

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// ProcessFile evaluates a single entry against the clobber policy and
// removes it on a match. A non-matching entry is left alone and reported
// as success.
func (w *Walker) ProcessFile(path string) error {
	if !w.pol.ShouldClobber(filepath.Base(path)) {
		return nil
	}
	return w.unlink(path)
}

// unlink removes exactly one filesystem entry, picking rmdir or unlink by
// the entry's current type. Lstat is used so a symlink is unlinked itself
// rather than resolved to its target. In simulate mode the intended action
// is reported and nothing is touched.
func (w *Walker) unlink(path string) error {
	if w.cfg.Simulate {
		fmt.Fprintf(w.out, "unlink(%s)\n", path)
		return nil
	}

	info, err := os.Lstat(path)
	if err != nil {
		return err
	}

	if info.IsDir() {
		err = unix.Rmdir(path)
	} else {
		err = unix.Unlink(path)
	}
	if err != nil {
		return &os.PathError{Op: "unlink", Path: path, Err: err}
	}
	return nil
}

// errnoOf extracts the OS error code from err, or 0 if it carries none.
func errnoOf(err error) unix.Errno {
	var errno unix.Errno
	if errors.As(err, &errno) {
		return errno
	}
	return 0
}
