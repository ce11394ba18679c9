package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/GriffinCanCode/fsbridge/internal/types"
)

var unixEpoch = time.Unix(0, 0)

// newEntry builds a descriptor from a path and metadata already read for it
func newEntry(path string, info fs.FileInfo) types.EntryDescriptor {
	return types.EntryDescriptor{
		Name:        entryName(path),
		Path:        path,
		IsDirectory: info.IsDir(),
		Size:        uint64(info.Size()),
		MtimeMs:     mtimeMillis(info.ModTime()),
	}
}

// entryName returns the final component of path. Trailing separators and
// "." components are ignored. Paths without a final component ("", "/",
// "C:\", ".", "a/..") are named by the full path string.
func entryName(path string) string {
	rest := trimTail(path[len(filepath.VolumeName(path)):])
	name := rest[strings.LastIndexFunc(rest, isSeparator)+1:]
	if name == "" || name == "." || name == ".." {
		return path
	}
	return name
}

// parentDir returns path without its final component, as written. The
// result is not cleaned, so "x/../b/f" has parent "x/../b" and "a/b/" has
// parent "a". It is empty when path has no parent component.
func parentDir(path string) string {
	vol := filepath.VolumeName(path)
	rest := trimTail(path[len(vol):])
	i := strings.LastIndexFunc(rest, isSeparator)
	if i < 0 {
		return ""
	}
	if parent := strings.TrimRightFunc(rest[:i], isSeparator); parent != "" {
		return vol + parent
	}
	return vol + rest[:i+1]
}

// trimTail drops trailing separators and trailing "." components
func trimTail(rest string) string {
	for {
		rest = strings.TrimRightFunc(rest, isSeparator)
		i := strings.LastIndexFunc(rest, isSeparator)
		if i < 0 || rest[i+1:] != "." {
			return rest
		}
		rest = rest[:i]
	}
}

// childPath appends name to dir without cleaning dir
func childPath(dir, name string) string {
	if dir == "" || isSeparator(rune(dir[len(dir)-1])) {
		return dir + name
	}
	return dir + string(filepath.Separator) + name
}

// mtimeMillis converts a modification time to whole milliseconds since the
// Unix epoch. Unknown and pre-epoch times yield nil.
func mtimeMillis(t time.Time) *uint64 {
	if t.IsZero() || t.Before(unixEpoch) {
		return nil
	}
	ms := uint64(t.UnixMilli())
	return &ms
}

func isSeparator(r rune) bool {
	return r < 0x80 && os.IsPathSeparator(uint8(r))
}
