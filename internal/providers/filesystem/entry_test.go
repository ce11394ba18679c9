package filesystem

import (
	"io/fs"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInfo struct {
	name  string
	size  int64
	dir   bool
	mtime time.Time
}

func (f fakeInfo) Name() string       { return f.name }
func (f fakeInfo) Size() int64        { return f.size }
func (f fakeInfo) Mode() fs.FileMode  { return 0 }
func (f fakeInfo) ModTime() time.Time { return f.mtime }
func (f fakeInfo) IsDir() bool        { return f.dir }
func (f fakeInfo) Sys() interface{}   { return nil }

func TestEntryName(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix path layout")
	}

	tests := []struct {
		path string
		want string
	}{
		{"file.txt", "file.txt"},
		{"a/b/c.txt", "c.txt"},
		{"/abs/dir", "dir"},
		{"dir/", "dir"},
		{"dir//", "dir"},
		{"dir/.", "dir"},
		{"dir/./", "dir"},
		{"./file", "file"},
		{".hidden", ".hidden"},
		{"", ""},
		{"/", "/"},
		{"//", "//"},
		{".", "."},
		{"./", "./"},
		{"./.", "./."},
		{"..", ".."},
		{"a/..", "a/.."},
		{"a/../", "a/../"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, entryName(tt.path))
		})
	}
}

func TestParentDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix path layout")
	}

	tests := []struct {
		path string
		want string
	}{
		{"file", ""},
		{"", ""},
		{"/", ""},
		{"dir/.", ""},
		{"a/b/c", "a/b"},
		{"a/b/", "a"},
		{"a//b", "a"},
		{"a/b/./", "a"},
		{"x/../b/file", "x/../b"},
		{"a/..", "a"},
		{"./f", "."},
		{"../f", ".."},
		{"/file", "/"},
		{"/abs/dir/file", "/abs/dir"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, parentDir(tt.path))
		})
	}
}

func TestChildPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix path layout")
	}

	assert.Equal(t, "dir/x", childPath("dir", "x"))
	assert.Equal(t, "dir/x", childPath("dir/", "x"))
	assert.Equal(t, "/x", childPath("/", "x"))
	assert.Equal(t, "x", childPath("", "x"))
	assert.Equal(t, "./a/../b/x", childPath("./a/../b", "x"))
}

func TestMtimeMillis(t *testing.T) {
	assert.Nil(t, mtimeMillis(time.Time{}))
	assert.Nil(t, mtimeMillis(time.Unix(-1, 0)))
	assert.Nil(t, mtimeMillis(time.Unix(0, -1)))

	zero := mtimeMillis(time.Unix(0, 0))
	require.NotNil(t, zero)
	assert.Equal(t, uint64(0), *zero)

	// sub-millisecond precision is truncated
	ms := mtimeMillis(time.Unix(1_700_000_000, 123_999_999))
	require.NotNil(t, ms)
	assert.Equal(t, uint64(1_700_000_000_123), *ms)
}

func TestNewEntry(t *testing.T) {
	mtime := time.UnixMilli(1_600_000_000_000)
	entry := newEntry("docs/readme.md", fakeInfo{name: "readme.md", size: 42, mtime: mtime})

	assert.Equal(t, "readme.md", entry.Name)
	assert.Equal(t, "docs/readme.md", entry.Path)
	assert.False(t, entry.IsDirectory)
	assert.Equal(t, uint64(42), entry.Size)
	require.NotNil(t, entry.MtimeMs)
	assert.Equal(t, uint64(1_600_000_000_000), *entry.MtimeMs)

	dir := newEntry("docs", fakeInfo{name: "docs", size: 4096, dir: true})
	assert.True(t, dir.IsDirectory)
	assert.Equal(t, uint64(4096), dir.Size)
	assert.Nil(t, dir.MtimeMs)
}
