package filesystem

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/vshell/internal/domain/vfs"
	"github.com/GriffinCanCode/vshell/internal/infrastructure/storage"
	"github.com/GriffinCanCode/vshell/internal/shared/types"
)

// countingStore records how often a snapshot is written.
type countingStore struct {
	*storage.Memory
	puts atomic.Int32
}

func (c *countingStore) Put(ctx context.Context, key string, data []byte) error {
	c.puts.Add(1)
	return c.Memory.Put(ctx, key, data)
}

func newTestProvider(t *testing.T) (*Provider, *vfs.Repository, *countingStore) {
	t.Helper()
	store := &countingStore{Memory: storage.NewMemory()}
	repo, err := vfs.NewRepository(store, vfs.Options{
		Seed: func() *vfs.Tree { return vfs.Seed("user") },
	}, nil)
	require.NoError(t, err)
	return NewProvider(repo), repo, store
}

func appContext(cwd string) *types.Context {
	return &types.Context{User: "user", Home: "/home/user", Cwd: cwd}
}

func run(t *testing.T, p *Provider, cwd, toolID string, args ...string) *types.Result {
	t.Helper()
	result, err := p.Execute(context.Background(), toolID, map[string]interface{}{"args": args}, appContext(cwd))
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func TestDefinition(t *testing.T) {
	p, _, _ := newTestProvider(t)
	def := p.Definition()

	assert.Equal(t, "filesystem", def.ID)
	assert.Equal(t, types.CategoryFilesystem, def.Category)

	commands := make(map[string]string)
	for _, tool := range def.Tools {
		if tool.Command != "" {
			commands[tool.Command] = tool.ID
		}
	}
	for _, cmd := range []string{"ls", "cd", "pwd", "cat", "head", "tail", "wc", "grep", "edit",
		"mkdir", "touch", "rm", "rmdir", "mv", "cp", "chmod", "clear_fs", "find", "file", "stat"} {
		assert.Contains(t, commands, cmd)
	}
	assert.Equal(t, "filesystem.reset", commands["clear_fs"])
}

func TestUnknownTool(t *testing.T) {
	p, _, _ := newTestProvider(t)
	result := run(t, p, "/", "filesystem.nope")
	assert.False(t, result.Success)
	assert.Contains(t, result.Text(), "unknown tool")
}

func TestList(t *testing.T) {
	p, _, _ := newTestProvider(t)

	result := run(t, p, "/home/user", "filesystem.ls")
	require.True(t, result.Success)
	assert.Equal(t, ".bashrc  notes.txt  welcome.txt", result.Text())

	result = run(t, p, "/home/user", "filesystem.ls", "/")
	require.True(t, result.Success)
	assert.Equal(t, "bin  home  tmp", result.Text())
	spans := result.Spans()
	require.Len(t, spans, 5)
	assert.Equal(t, types.Span{Text: "bin", Style: types.StyleDir}, spans[0])
	assert.Equal(t, types.Span{Text: "  "}, spans[1])

	result = run(t, p, "/", "filesystem.ls", "nope")
	assert.False(t, result.Success)
	assert.Equal(t, "ls: cannot access 'nope': No such file or directory", result.Text())

	result = run(t, p, "/", "filesystem.ls", "-x")
	assert.False(t, result.Success)
	assert.Equal(t, "ls: invalid option -- 'x'", result.Text())
}

func TestListLong(t *testing.T) {
	p, _, _ := newTestProvider(t)

	result := run(t, p, "/home/user", "filesystem.ls", "-l")
	require.True(t, result.Success)

	lines := splitLines(result.Text())
	require.Len(t, lines, 5)
	assert.Equal(t, "drwxr-xr-x 1 user user        Jan 1 12:00 .", lines[0])
	assert.Equal(t, "drwxr-xr-x 1 user user        Jan 1 12:00 ..", lines[1])
	assert.Equal(t, "-rw-r--r-- 1 user user 53     Jan 1 12:00 notes.txt", lines[3])

	run(t, p, "/", "filesystem.chmod", "700", "/tmp")
	result = run(t, p, "/", "filesystem.ls", "-lh", "/tmp")
	require.True(t, result.Success)
	assert.Equal(t, "drwx------ 1 user user        Jan 1 12:00 .", splitLines(result.Text())[0])

	result = run(t, p, "/", "filesystem.ls", "-l", "-h", "/home/user")
	require.True(t, result.Success)
	assert.Contains(t, result.Text(), "53 B")
}

func TestChangeDir(t *testing.T) {
	p, _, _ := newTestProvider(t)

	result := run(t, p, "/home/user", "filesystem.cd", "/tmp")
	require.True(t, result.Success)
	assert.Equal(t, "/tmp", result.Data[types.KeyCwd])

	result = run(t, p, "/tmp", "filesystem.cd")
	require.True(t, result.Success)
	assert.Equal(t, "/home/user", result.Data[types.KeyCwd])

	result = run(t, p, "/home/user", "filesystem.cd", "..")
	assert.Equal(t, "/home", result.Data[types.KeyCwd])

	result = run(t, p, "/home/user", "filesystem.cd", "notes.txt")
	assert.False(t, result.Success)
	assert.Equal(t, "cd: notes.txt: No such file or directory", result.Text())

	result = run(t, p, "/tmp", "filesystem.pwd")
	assert.Equal(t, "/tmp", result.Text())
}

func TestCatHeadTailWcGrep(t *testing.T) {
	p, _, _ := newTestProvider(t)
	home := "/home/user"

	result := run(t, p, home, "filesystem.cat", "notes.txt")
	assert.Equal(t, vfs.NotesText, result.Text())

	result = run(t, p, home, "filesystem.cat", "missing")
	assert.False(t, result.Success)
	assert.Equal(t, "cat: missing: No such file or directory", result.Text())

	tests := []struct {
		name    string
		toolID  string
		args    []string
		ok      bool
		message string
	}{
		{"head default", "filesystem.head", []string{"notes.txt"}, true, vfs.NotesText},
		{"head one", "filesystem.head", []string{"-n", "1", "notes.txt"}, true, "Linux is great!"},
		{"head attached", "filesystem.head", []string{"-n2", "notes.txt"}, true, "Linux is great!\nProgramming is fun."},
		{"head zero", "filesystem.head", []string{"-n", "0", "notes.txt"}, true, ""},
		{"head invalid", "filesystem.head", []string{"-n", "x", "notes.txt"}, false, "head: invalid number of lines: 'x'"},
		{"head usage", "filesystem.head", nil, false, "Usage: head [-n num_lines] [file]"},
		{"head missing", "filesystem.head", []string{"nope"}, false, "head: nope: No such file or directory"},
		{"tail one", "filesystem.tail", []string{"-n", "1", "notes.txt"}, true, "Build cool stuff."},
		{"tail many", "filesystem.tail", []string{"-n", "100", "notes.txt"}, true, vfs.NotesText},
		{"tail zero", "filesystem.tail", []string{"-n0", "notes.txt"}, true, ""},
		{"wc", "filesystem.wc", []string{"notes.txt"}, true, "1\t9\t53 notes.txt"},
		{"wc usage", "filesystem.wc", nil, false, "Usage: wc [file]"},
		{"grep", "filesystem.grep", []string{"is", "notes.txt"}, true, "Linux is great!\nProgramming is fun."},
		{"grep none", "filesystem.grep", []string{"zzz", "notes.txt"}, true, ""},
		{"grep missing", "filesystem.grep", []string{"a", "nope"}, false, "grep: nope: No such file or directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := run(t, p, home, tt.toolID, tt.args...)
			assert.Equal(t, tt.ok, result.Success)
			assert.Equal(t, tt.message, result.Text())
		})
	}
}

func TestMkdirTouch(t *testing.T) {
	p, repo, _ := newTestProvider(t)

	result := run(t, p, "/tmp", "filesystem.mkdir", "a", "b")
	require.True(t, result.Success)
	assert.Equal(t, "Directory 'a' created\nDirectory 'b' created", result.Text())

	result = run(t, p, "/tmp", "filesystem.mkdir", "a", "c")
	assert.False(t, result.Success)
	assert.Equal(t, "mkdir: cannot create directory 'a': File exists\nDirectory 'c' created", result.Text())

	result = run(t, p, "/tmp", "filesystem.mkdir", "x/y")
	assert.Equal(t, "mkdir: cannot create directory 'x/y': No such file or directory.", result.Text())

	result = run(t, p, "/tmp", "filesystem.mkdir", "-p", "x/y/z", "a")
	require.True(t, result.Success)
	assert.Equal(t, "Directory 'x/y/z' created", result.Text())

	result = run(t, p, "/tmp", "filesystem.touch", "a/f", "a/f", "a", "q/f")
	assert.False(t, result.Success)
	assert.Equal(t, "File 'a/f' created\n"+
		"touch: updated timestamp for 'a/f' (simulated)\n"+
		"touch: cannot touch 'a': Is a directory\n"+
		"touch: cannot create file 'q/f': No such file or directory.", result.Text())

	require.NoError(t, repo.View(context.Background(), func(tree *vfs.Tree) error {
		assert.True(t, tree.Exists("/tmp/x/y/z"))
		assert.True(t, tree.Exists("/tmp/a/f"))
		assert.True(t, tree.Exists("/tmp/c"))
		return nil
	}))
}

func TestRemove(t *testing.T) {
	p, repo, _ := newTestProvider(t)
	run(t, p, "/tmp", "filesystem.mkdir", "-p", "d/sub")
	run(t, p, "/tmp", "filesystem.touch", "f")

	tests := []struct {
		name    string
		toolID  string
		args    []string
		ok      bool
		message string
	}{
		{"not empty", "filesystem.rm", []string{"d"}, false, "rm: cannot remove 'd': Directory not empty. Use 'rm -r' to remove non-empty directories."},
		{"rmdir not empty", "filesystem.rmdir", []string{"d"}, false, "rmdir: failed to remove 'd': Directory not empty"},
		{"rmdir file", "filesystem.rmdir", []string{"f"}, false, "rmdir: failed to remove 'f': Not a directory"},
		{"rmdir special", "filesystem.rmdir", []string{".."}, false, "rmdir: cannot remove special directory '..'."},
		{"rmdir empty", "filesystem.rmdir", []string{"d/sub"}, true, "Removed directory 'd/sub'"},
		{"file", "filesystem.rm", []string{"f"}, true, "Removed file 'f'"},
		{"missing", "filesystem.rm", []string{"f"}, false, "rm: cannot remove 'f': No such file or directory"},
		{"force missing", "filesystem.rm", []string{"-f", "f"}, true, ""},
		{"special", "filesystem.rm", []string{"-r", "/"}, false, "rm: cannot remove special directory '/'."},
		{"dot", "filesystem.rm", []string{"."}, false, "rm: cannot remove special directory '.'."},
		{"root via dotdot", "filesystem.rm", []string{"-r", "/tmp/.."}, false, "rm: cannot remove special directory '/tmp/..'."},
		{"parent with slash", "filesystem.rm", []string{"-r", "../"}, false, "rm: cannot remove special directory '../'."},
		{"cwd with slash", "filesystem.rm", []string{"-r", "./"}, false, "rm: cannot remove special directory './'."},
		{"child then parent", "filesystem.rm", []string{"-r", "d/.."}, false, "rm: cannot remove special directory 'd/..'."},
		{"rmdir parent with slash", "filesystem.rmdir", []string{"../"}, false, "rmdir: cannot remove special directory '../'."},
		{"usage", "filesystem.rm", []string{"-r"}, false, "Usage: rm [-r] [file/directory]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := run(t, p, "/tmp", tt.toolID, tt.args...)
			assert.Equal(t, tt.ok, result.Success)
			assert.Equal(t, tt.message, result.Text())
		})
	}

	run(t, p, "/tmp", "filesystem.mkdir", "-p", "d/sub")
	result := run(t, p, "/tmp", "filesystem.rm", "-r", "d")
	require.True(t, result.Success)
	assert.Equal(t, "Removed directory 'd'", result.Text())

	require.NoError(t, repo.View(context.Background(), func(tree *vfs.Tree) error {
		assert.False(t, tree.Exists("/tmp/d"))
		return nil
	}))
}

func TestMove(t *testing.T) {
	p, repo, _ := newTestProvider(t)
	home := "/home/user"
	run(t, p, home, "filesystem.mkdir", "docs", "full")
	run(t, p, home, "filesystem.touch", "full/x")

	result := run(t, p, home, "filesystem.mv", "notes.txt", "todo.txt")
	require.True(t, result.Success)
	assert.Equal(t, "Moved 'notes.txt' to 'todo.txt'", result.Text())

	result = run(t, p, home, "filesystem.mv", "todo.txt", ".bashrc", "missing", "docs")
	assert.False(t, result.Success)
	assert.Equal(t, "Moved 'todo.txt' to 'docs/todo.txt'\n"+
		"Moved '.bashrc' to 'docs/.bashrc'\n"+
		"mv: cannot stat 'missing': No such file or directory", result.Text())

	result = run(t, p, home, "filesystem.mv", "welcome.txt", "docs/todo.txt", "nowhere")
	assert.Equal(t, "mv: destination must be a directory if multiple sources are specified.", result.Text())

	result = run(t, p, home, "filesystem.mv", "welcome.txt", "nope/w.txt")
	assert.Equal(t, "mv: cannot create 'nope/w.txt': No such file or directory", result.Text())

	result = run(t, p, home, "filesystem.mv", "welcome.txt", "full")
	require.True(t, result.Success)
	result = run(t, p, home, "filesystem.mv", "docs", "full")
	require.True(t, result.Success)

	run(t, p, home, "filesystem.touch", "welcome.txt")
	result = run(t, p, home, "filesystem.mv", "welcome.txt", "full")
	assert.Equal(t, "mv: cannot move 'welcome.txt' to 'full/welcome.txt': Target exists", result.Text())

	result = run(t, p, home, "filesystem.mv", "full", "full/docs")
	assert.Equal(t, "mv: cannot move 'full' to a subdirectory of itself, 'full/docs/full'", result.Text())

	result = run(t, p, home, "filesystem.mv", "..", "/tmp")
	assert.Equal(t, "mv: cannot move special directory '..'.", result.Text())
	result = run(t, p, home, "filesystem.mv", "../", "/tmp")
	assert.Equal(t, "mv: cannot move special directory '../'.", result.Text())
	result = run(t, p, home, "filesystem.mv", "full/..", "/tmp/x")
	assert.Equal(t, "mv: cannot move special directory 'full/..'.", result.Text())

	run(t, p, home, "filesystem.mkdir", "empty")
	result = run(t, p, home, "filesystem.mv", "welcome.txt", "full/docs")
	require.True(t, result.Success)

	require.NoError(t, repo.View(context.Background(), func(tree *vfs.Tree) error {
		content, err := tree.Read("/home/user/full/docs/todo.txt")
		require.NoError(t, err)
		assert.Equal(t, vfs.NotesText, content)
		assert.True(t, tree.Exists("/home/user/full/docs/welcome.txt"))
		assert.False(t, tree.Exists("/home/user/notes.txt"))
		return nil
	}))
}

func TestCopy(t *testing.T) {
	p, repo, _ := newTestProvider(t)
	home := "/home/user"
	run(t, p, home, "filesystem.mkdir", "-p", "src/inner", "dst")
	run(t, p, home, "filesystem.touch", "src/inner/f")

	result := run(t, p, home, "filesystem.cp", "src", "dst")
	assert.False(t, result.Success)
	assert.Equal(t, "cp: -r not specified; omitting directory 'src'", result.Text())

	result = run(t, p, home, "filesystem.cp", "-r", "src", "notes.txt", "dst")
	require.True(t, result.Success)
	assert.Equal(t, "Copied 'src' to 'dst/src'\nCopied 'notes.txt' to 'dst/notes.txt'", result.Text())

	result = run(t, p, home, "filesystem.cp", "notes.txt", "dst")
	assert.Equal(t, "cp: cannot copy 'notes.txt' to 'dst/notes.txt': Target exists", result.Text())

	result = run(t, p, home, "filesystem.cp", "notes.txt", "welcome.txt", "nodir")
	assert.Equal(t, "cp: target 'nodir' is not a directory", result.Text())

	result = run(t, p, home, "filesystem.cp", "notes.txt", "copy.txt")
	require.True(t, result.Success)
	assert.Equal(t, "Copied 'notes.txt' to 'copy.txt'", result.Text())

	result = run(t, p, home, "filesystem.cp", "notes.txt", "notes.txt")
	assert.Equal(t, "cp: 'notes.txt' and 'notes.txt' are the same file", result.Text())

	result = run(t, p, home, "filesystem.cp", "missing", "x")
	assert.Equal(t, "cp: cannot stat 'missing': No such file or directory", result.Text())

	result = run(t, p, home, "filesystem.cp", "-r", "src", "src/inner")
	assert.Equal(t, "cp: cannot copy 'src' to a subdirectory of itself, 'src/inner/src'", result.Text())

	result = run(t, p, home, "filesystem.cp", "-r", ".", "/tmp")
	assert.Equal(t, "cp: cannot copy special directory '.'.", result.Text())
	result = run(t, p, home, "filesystem.cp", "-r", "./", "/tmp/x")
	assert.Equal(t, "cp: cannot copy special directory './'.", result.Text())

	// The copy is independent of its source.
	run(t, p, home, "filesystem.rm", "-r", "src")
	require.NoError(t, repo.View(context.Background(), func(tree *vfs.Tree) error {
		assert.True(t, tree.Exists("/home/user/dst/src/inner/f"))
		assert.True(t, tree.Exists("/home/user/notes.txt"))
		return nil
	}))
}

func TestChmod(t *testing.T) {
	p, _, _ := newTestProvider(t)
	home := "/home/user"

	result := run(t, p, home, "filesystem.chmod", "755", "notes.txt")
	require.True(t, result.Success)
	assert.Equal(t, "Permissions for file 'notes.txt' changed to rwxr-xr-x", result.Text())

	result = run(t, p, home, "filesystem.chmod", "700", ".")
	assert.Equal(t, "Permissions for directory '.' changed to rwx------", result.Text())

	result = run(t, p, home, "filesystem.chmod", "78", "notes.txt")
	assert.Equal(t, "chmod: invalid mode: '78' (expected 3 octal digits, e.g., 755)", result.Text())

	result = run(t, p, home, "filesystem.chmod", "644", "nope")
	assert.Equal(t, "chmod: cannot access 'nope': No such file or directory", result.Text())

	result = run(t, p, home, "filesystem.chmod", "644")
	assert.Equal(t, "Usage: chmod [octal_permissions] [file/directory]", result.Text())

	result = run(t, p, home, "filesystem.stat", "notes.txt")
	require.True(t, result.Success)
	assert.Equal(t, "755", result.Data["mode"])
}

func TestFind(t *testing.T) {
	p, _, _ := newTestProvider(t)

	result := run(t, p, "/", "filesystem.find", "/", "-name", "note")
	require.True(t, result.Success)
	assert.Equal(t, "/home/user/notes.txt", result.Text())

	result = run(t, p, "/", "filesystem.find", "/home", "-glob", "*.txt")
	assert.Equal(t, "/home/user/notes.txt\n/home/user/welcome.txt", result.Text())

	result = run(t, p, "/", "filesystem.find", "/home", "-glob", "[bad")
	assert.False(t, result.Success)
	assert.Equal(t, "find: invalid glob '[bad'", result.Text())

	// -name is a literal substring match.
	result = run(t, p, "/", "filesystem.find", "/home", "-name", "*.txt")
	require.True(t, result.Success)
	assert.Equal(t, "", result.Text())
	run(t, p, "/home/user", "filesystem.touch", "a*b", "plain.txt")
	result = run(t, p, "/home/user", "filesystem.find", ".", "-name", "*")
	assert.Equal(t, "/home/user/a*b", result.Text())

	result = run(t, p, "/home", "filesystem.find", "-name", "user")
	assert.Equal(t, "/home/user", result.Text())

	result = run(t, p, "/", "filesystem.find", "/home/user", "-name", "zzz")
	require.True(t, result.Success)
	assert.Equal(t, "", result.Text())

	result = run(t, p, "/", "filesystem.find", "/nope", "-name", "x")
	assert.Equal(t, "find: '/nope': No such file or directory", result.Text())

	result = run(t, p, "/", "filesystem.find", "/home")
	assert.Equal(t, "Usage: find [path] -name [pattern]", result.Text())
}

func TestEditAndWrite(t *testing.T) {
	p, repo, _ := newTestProvider(t)
	home := "/home/user"

	result := run(t, p, home, "filesystem.edit", "notes.txt")
	require.True(t, result.Success)
	assert.Equal(t, "/home/user/notes.txt", result.Data[types.KeyEdit])
	assert.Equal(t, "Editing 'notes.txt' (type 'EOF' on new line to save)\nCurrent content:\n"+vfs.NotesText, result.Text())

	result = run(t, p, home, "filesystem.edit", "nope.txt")
	assert.False(t, result.Success)
	assert.Equal(t, "edit: nope.txt: No such file", result.Text())

	result, err := p.Execute(context.Background(), "filesystem.write", map[string]interface{}{
		"path":    "notes.txt",
		"content": "one\ntwo",
		"name":    "notes.txt",
	}, appContext(home))
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, "File 'notes.txt' saved", result.Text())

	result, err = p.Execute(context.Background(), "filesystem.write", map[string]interface{}{
		"path":    "/tmp",
		"content": "x",
	}, appContext(home))
	require.NoError(t, err)
	assert.Equal(t, "edit: /tmp: Is a directory", result.Text())

	require.NoError(t, repo.View(context.Background(), func(tree *vfs.Tree) error {
		content, err := tree.Read("/home/user/notes.txt")
		require.NoError(t, err)
		assert.Equal(t, "one\ntwo", content)
		return nil
	}))
}

func TestFileType(t *testing.T) {
	p, _, _ := newTestProvider(t)
	run(t, p, "/tmp", "filesystem.touch", "empty")

	result := run(t, p, "/home/user", "filesystem.file", "notes.txt", "/tmp", "/tmp/empty")
	require.True(t, result.Success)
	lines := splitLines(result.Text())
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "notes.txt: text/plain")
	assert.Equal(t, "/tmp: directory", lines[1])
	assert.Equal(t, "/tmp/empty: empty", lines[2])

	infos, ok := result.Data["types"].([]TypeInfo)
	require.True(t, ok)
	assert.Equal(t, "file", infos[0].Kind)

	result = run(t, p, "/", "filesystem.file", "nope")
	assert.False(t, result.Success)
}

func TestReset(t *testing.T) {
	p, repo, _ := newTestProvider(t)
	run(t, p, "/", "filesystem.rm", "-r", "/home")

	ctx := &types.Context{User: "alice", Home: "/home/alice", Cwd: "/tmp"}
	result, err := p.Execute(context.Background(), "filesystem.reset", nil, ctx)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, "/home/alice", result.Data[types.KeyCwd])

	require.NoError(t, repo.View(context.Background(), func(tree *vfs.Tree) error {
		assert.True(t, tree.Exists("/home/user/notes.txt"))
		assert.True(t, tree.Exists("/home/alice"))
		return nil
	}))
}

func TestUnchangedTreeIsNotSaved(t *testing.T) {
	p, _, store := newTestProvider(t)

	run(t, p, "/home/user", "filesystem.touch", "fresh")
	before := store.puts.Load()

	run(t, p, "/home/user", "filesystem.touch", "fresh")
	run(t, p, "/home/user", "filesystem.mkdir", "/tmp")
	run(t, p, "/home/user", "filesystem.rm", "-f", "missing")
	run(t, p, "/home/user", "filesystem.chmod", "999", "fresh")
	run(t, p, "/home/user", "filesystem.ls")
	assert.Equal(t, before, store.puts.Load())

	run(t, p, "/home/user", "filesystem.rm", "fresh")
	assert.Greater(t, store.puts.Load(), before)
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}
