package vfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedLayout(t *testing.T) {
	tree := Seed("user")

	assert.Equal(t, DefaultDirPerms, tree.Root.Perms)
	for _, p := range []string{"/bin", "/home", "/home/user"} {
		dir, ok := tree.ResolveDirectory(p)
		require.True(t, ok, p)
		assert.Equal(t, DefaultDirPerms, dir.Perms, p)
	}

	tmp, ok := tree.ResolveDirectory("/tmp")
	require.True(t, ok)
	assert.Equal(t, WorldDirPerms, tmp.Perms)

	for _, name := range []string{"welcome.txt", ".bashrc", "notes.txt"} {
		ref, ok := tree.ResolveFile("/home/user/" + name)
		require.True(t, ok, name)
		assert.Equal(t, DefaultFilePerms, ref.File.Perms)
	}

	notes, _ := tree.Read("/home/user/notes.txt")
	assert.Equal(t, NotesText, notes)
}

func TestResolveDirectory(t *testing.T) {
	tree := Seed("user")

	dir, ok := tree.ResolveDirectory("/")
	require.True(t, ok)
	assert.Same(t, tree.Root, dir)

	_, ok = tree.ResolveDirectory("/missing")
	assert.False(t, ok)

	// a file segment stops the walk
	_, ok = tree.ResolveDirectory("/home/user/notes.txt")
	assert.False(t, ok)
	_, ok = tree.ResolveDirectory("/home/user/notes.txt/deeper")
	assert.False(t, ok)
}

func TestResolveFile(t *testing.T) {
	tree := Seed("user")

	ref, ok := tree.ResolveFile("/home/user/.bashrc")
	require.True(t, ok)
	assert.Equal(t, ".bashrc", ref.Name)
	assert.Equal(t, BashrcText, ref.File.Content)

	_, ok = tree.ResolveFile("/home/user")
	assert.False(t, ok, "directories are not files")

	_, ok = tree.ResolveFile("/")
	assert.False(t, ok)
}

func TestResolveForMutation(t *testing.T) {
	tree := Seed("user")

	root, ok := tree.ResolveForMutation("/")
	require.True(t, ok)
	assert.True(t, root.IsRoot())
	assert.Same(t, tree.Root, root.Dir)
	assert.Equal(t, KindDirectory, root.Kind)

	res, ok := tree.ResolveForMutation("/home/user/notes.txt")
	require.True(t, ok)
	assert.Equal(t, KindFile, res.Kind)
	assert.Equal(t, "notes.txt", res.Name)

	res, ok = tree.ResolveForMutation("/home/user/new")
	require.True(t, ok)
	assert.False(t, res.Exists())
	assert.NotNil(t, res.Parent)

	_, ok = tree.ResolveForMutation("/nope/new")
	assert.False(t, ok)

	before := tree.Stats()
	_, _ = tree.ResolveForMutation("/home/user/another")
	assert.Equal(t, before, tree.Stats(), "resolution never mutates")
}

func TestCloneIsDeep(t *testing.T) {
	tree := Seed("user")
	clone := tree.Clone()

	clone.Root.Dirs["home"].Dirs["user"].Files["notes.txt"].Content = "changed"
	clone.Root.Dirs["tmp"].Dirs["x"] = NewDirectory(DefaultDirPerms)

	notes, _ := tree.Read("/home/user/notes.txt")
	assert.Equal(t, NotesText, notes)
	assert.False(t, tree.Exists("/tmp/x"))
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		mode string
		want string
	}{
		{"755", "rwxr-xr-x"},
		{"644", "rw-r--r--"},
		{"000", "---------"},
		{"777", "rwxrwxrwx"},
		{"123", "--x-w--wx"},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.mode)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.mode, FormatMode(got))
	}

	for _, bad := range []string{"", "75", "7555", "789", "rwx", "-75"} {
		_, err := ParseMode(bad)
		assert.ErrorIs(t, err, ErrInvalidMode, bad)
		assert.ErrorIs(t, err, ErrInvalidArgument, bad)
		assert.Equal(t, CodeInvalidArgument, CodeOf(err))
	}
}
