package paths

import (
	"strings"
)

// Separator is the only separator understood by the tree.
const Separator = "/"

// Seed layout
const (
	Root     = "/"
	Bin      = "/bin"
	HomeRoot = "/home"
	Tmp      = "/tmp"
)

// Special names that can never be removed or moved.
const (
	Current = "."
	Parent  = ".."
)

// Home returns the home directory of a user.
func Home(user string) string {
	return HomeRoot + Separator + user
}

// Normalize resolves path against cwd and home into a canonical absolute path.
//
// A leading "~" is replaced by home, a relative path is joined onto cwd,
// empty and "." segments are dropped and ".." pops one segment (a no-op at root).
func Normalize(path, cwd, home string) string {
	if strings.HasPrefix(path, "~") {
		path = home + path[1:]
	}

	var segments []string
	if !strings.HasPrefix(path, Separator) {
		segments = Segments(Normalize(cwd, Root, home))
	}

	for _, seg := range strings.Split(path, Separator) {
		switch seg {
		case "", Current:
			continue
		case Parent:
			if len(segments) > 0 {
				segments = segments[:len(segments)-1]
			}
		default:
			segments = append(segments, seg)
		}
	}

	return Join(segments)
}

// Segments splits a normalized path into its non-empty segments.
// The root yields an empty slice.
func Segments(path string) []string {
	parts := strings.Split(path, Separator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Join builds an absolute path from segments.
func Join(segments []string) string {
	if len(segments) == 0 {
		return Root
	}
	return Separator + strings.Join(segments, Separator)
}

// Split returns the parent path and final segment of a normalized path.
// The root has parent "" and name "".
func Split(path string) (parent, name string) {
	segs := Segments(path)
	if len(segs) == 0 {
		return "", ""
	}
	return Join(segs[:len(segs)-1]), segs[len(segs)-1]
}

// Base returns the final segment of a normalized path, or "/" for the root.
func Base(path string) string {
	_, name := Split(path)
	if name == "" {
		return Root
	}
	return name
}

// IsSpecial reports whether a raw argument names the root or ends in a dot
// entry. Trailing separators are ignored, so "../", "a/.." and "//" all
// count.
func IsSpecial(arg string) bool {
	trimmed := strings.TrimRight(arg, Separator)
	if trimmed == "" {
		return arg != ""
	}
	last := trimmed[strings.LastIndex(trimmed, Separator)+1:]
	return last == Current || last == Parent
}
