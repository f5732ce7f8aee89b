// Package entry classifies raw directory entries into the handful of kinds
// the walker distinguishes.
package entry

import "io/fs"

// Kind is the walker-relevant type of a directory entry.
type Kind uint8

const (
	KindRegular Kind = iota
	KindDirectory
	KindSpecial
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindRegular:
		return "regular"
	case KindDirectory:
		return "directory"
	case KindSpecial:
		return "special"
	default:
		return "unknown"
	}
}

// Classify maps a directory entry to its Kind. Symlinks, devices, named
// pipes, and sockets are special. Entries whose type the filesystem does
// not report come back as KindUnknown and must be handled exactly like
// regular files downstream.
func Classify(d fs.DirEntry) Kind {
	switch t := d.Type(); {
	case t.IsDir():
		return KindDirectory
	case t.IsRegular():
		return KindRegular
	case t&(fs.ModeSymlink|fs.ModeDevice|fs.ModeNamedPipe|fs.ModeSocket) != 0:
		return KindSpecial
	default:
		return KindUnknown
	}
}
