package types

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFileKind(t *testing.T) {
	cases := map[string]FileKind{
		"d": KindDirectory, "directory": KindDirectory,
		"f": KindRegular, "FILE": KindRegular,
		"l": KindSymlink, "x": KindExecutable,
		"e": KindEmpty, "s": KindSocket,
		"p": KindFifo, " pipe ": KindFifo,
	}
	for in, want := range cases {
		got, err := ParseFileKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFileKind("block")
	assert.ErrorIs(t, err, common.ErrUnknownFileKind)
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestEntryCachesMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))

	e := NewEntry(path, false)
	assert.Equal(t, "f.txt", e.Name)
	info, err := e.Info()
	require.NoError(t, err)
	assert.Equal(t, int64(3), info.Size())

	// Later changes on disk are not observed
	require.NoError(t, os.Remove(path))
	info, err = e.Info()
	require.NoError(t, err)
	assert.Equal(t, int64(3), info.Size())
}

func TestEntryMissing(t *testing.T) {
	e := NewEntry(filepath.Join(t.TempDir(), "gone"), false)
	_, ok := e.Mode()
	assert.False(t, ok)
	_, err := e.Info()
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.False(t, e.IsDir())
}

func TestListedEntrySymlinkFollow(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "target"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(dir, "target"), filepath.Join(dir, "link")))

	listing, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, listing, 2)
	link := listing[0]
	require.Equal(t, "link", link.Name())

	plain := NewListedEntry(dir, link, false)
	assert.False(t, plain.IsDir())
	mode, ok := plain.Mode()
	require.True(t, ok)
	assert.NotZero(t, mode&os.ModeSymlink)

	followed := NewListedEntry(dir, link, true)
	assert.True(t, followed.IsDir())
	assert.Equal(t, filepath.Join(dir, "link"), followed.Path)
}

func TestSearchResultIsDir(t *testing.T) {
	r := &SearchResult{Matches: []string{"/r/a", "/r/b"}, Dirs: map[string]bool{"/r/a": true}}
	assert.True(t, r.IsDir("/r/a"))
	assert.False(t, r.IsDir("/r/b"))
}
