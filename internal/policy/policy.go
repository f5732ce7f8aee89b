// Package policy implements the deletion predicates for a scrub run:
// whether a basename is subject to clobbering, and whether a name is hidden.
package policy

import (
	"strings"

	"github.com/scrubtool/scrub/internal/config"
)

// Policy answers clobber questions against the configured name and
// extension sets. Matching is exact and case-sensitive; there is no
// globbing. A Policy is immutable after construction and safe to share
// across recursive calls.
type Policy struct {
	names      map[string]struct{}
	extensions map[string]struct{}
}

func New(cfg *config.Config) *Policy {
	p := &Policy{
		names:      make(map[string]struct{}, len(cfg.Clobber.Names)),
		extensions: make(map[string]struct{}, len(cfg.Clobber.Extensions)),
	}
	for _, name := range cfg.Clobber.Names {
		p.names[name] = struct{}{}
	}
	for _, ext := range cfg.Clobber.Extensions {
		p.extensions[ext] = struct{}{}
	}
	return p
}

// ClobberName reports whether name is a literal member of the clobber-name set.
func (p *Policy) ClobberName(name string) bool {
	_, ok := p.names[name]
	return ok
}

// ClobberExtension reports whether ext (no leading dot) is a literal member
// of the clobber-extension set.
func (p *Policy) ClobberExtension(ext string) bool {
	_, ok := p.extensions[ext]
	return ok
}

// ShouldClobber reports whether a file with the given basename should be
// deleted. Name matches win; otherwise the substring after the last dot is
// checked against the extension set. A basename without a dot can only
// match by exact name.
func (p *Policy) ShouldClobber(basename string) bool {
	if p.ClobberName(basename) {
		return true
	}
	if i := strings.LastIndexByte(basename, '.'); i >= 0 {
		return p.ClobberExtension(basename[i+1:])
	}
	return false
}

// IsHidden reports whether a basename is hidden, i.e. starts with a dot.
// "." and ".." are hidden by this definition; the walker never iterates
// them regardless.
func IsHidden(basename string) bool {
	return len(basename) > 0 && basename[0] == '.'
}
