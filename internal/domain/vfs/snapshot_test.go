package vfs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is a map-backed BlobStore
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
	puts int
	err  error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, false, m.err
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) Put(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.puts++
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

type recordingObserver struct {
	ops []string
}

func (r *recordingObserver) ObserveSnapshot(op string, _ int, _ time.Duration, _ error) {
	r.ops = append(r.ops, op)
}

func newRepo(t *testing.T, store BlobStore, opts Options) *Repository {
	t.Helper()
	if opts.Seed == nil {
		opts.Seed = func() *Tree { return Seed("user") }
	}
	repo, err := NewRepository(store, opts, nil)
	require.NoError(t, err)
	return repo
}

func TestRepositorySeedsWhenEmpty(t *testing.T) {
	store := newMemStore()
	repo := newRepo(t, store, Options{})

	tree, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, tree.Exists("/home/user/notes.txt"))
	assert.Zero(t, store.puts, "loading does not write")
}

func TestRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()

	for _, codec := range []Codec{JSON, YAML, TOML} {
		for _, compress := range []bool{false, true} {
			store := newMemStore()
			repo := newRepo(t, store, Options{Codec: codec, Compress: compress})

			err := repo.Mutate(ctx, func(tree *Tree) error {
				if err := tree.Mkdir("/tmp/work"); err != nil {
					return err
				}
				return tree.WriteFile("/tmp/work/f", "line1\nline2\n")
			})
			require.NoError(t, err, codec.Name())

			tree, err := repo.Load(ctx)
			require.NoError(t, err)
			content, err := tree.Read("/tmp/work/f")
			require.NoError(t, err, "%s compress=%v", codec.Name(), compress)
			assert.Equal(t, "line1\nline2\n", content)

			empty, ok := tree.ResolveDirectory("/bin")
			require.True(t, ok)
			assert.NotNil(t, empty.Dirs, "decoded maps are usable")
			assert.NotNil(t, empty.Files)
		}
	}
}

func TestRepositoryMutateErrorSkipsSave(t *testing.T) {
	store := newMemStore()
	repo := newRepo(t, store, Options{})

	err := repo.Mutate(context.Background(), func(tree *Tree) error {
		return tree.Mkdir("/home")
	})
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.Zero(t, store.puts)
}

func TestRepositoryCorruptSnapshotReseeds(t *testing.T) {
	ctx := context.Background()
	corrupt := map[string][]byte{
		"garbage":   []byte("not a snapshot"),
		"truncated": []byte("VSNP\x01"),
		"version":   append([]byte("VSNP\x09\x00\x00"), make([]byte, 40)...),
		"name clash": []byte(`{"root":{"permissions":"rwxr-xr-x",` +
			`"directories":{"home":{"permissions":"rwxr-xr-x"}},` +
			`"files":{"home":{"permissions":"rw-r--r--","content":"x"}}}}`),
	}

	for name, data := range corrupt {
		t.Run(name, func(t *testing.T) {
			store := newMemStore()
			store.data[DefaultKey] = data
			repo := newRepo(t, store, Options{})

			tree, err := repo.Load(ctx)
			require.NoError(t, err)
			assert.True(t, tree.Exists("/home/user/welcome.txt"))
		})
	}
}

func TestDecodeRejectsNameClash(t *testing.T) {
	data := []byte(`{"root":{"directories":{"etc":{"directories":{"conf":{}},` +
		`"files":{"conf":{"content":"x"}}}}}}`)

	_, err := Decode(JSON, data)
	assert.ErrorContains(t, err, "/etc/conf is both a directory and a file")

	tree, err := Decode(JSON, []byte(`{"root":{"directories":{"etc":null},"files":{"a":{}}}}`))
	require.NoError(t, err)
	assert.False(t, tree.Exists("/etc"))
	assert.True(t, tree.Exists("/a"))
}

func TestRepositoryChecksumMismatch(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	repo := newRepo(t, store, Options{})

	require.NoError(t, repo.Mutate(ctx, func(tree *Tree) error {
		return tree.Mkdir("/custom")
	}))

	blob := store.data[DefaultKey]
	blob[len(blob)-2] ^= 0xff

	tree, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.False(t, tree.Exists("/custom"), "tampered snapshot is replaced by the seed")
}

func TestRepositoryLoadsBareJSON(t *testing.T) {
	store := newMemStore()
	store.data[DefaultKey] = []byte(`{"root":{"permissions":"rwxr-xr-x","directories":{"etc":{"permissions":"rwxr-xr-x"}},"files":{}}}`)
	repo := newRepo(t, store, Options{})

	tree, err := repo.Load(context.Background())
	require.NoError(t, err)
	etc, ok := tree.ResolveDirectory("/etc")
	require.True(t, ok)
	assert.NotNil(t, etc.Files)
}

func TestRepositoryReset(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	repo := newRepo(t, store, Options{})

	require.NoError(t, repo.Mutate(ctx, func(tree *Tree) error {
		_, err := tree.Remove("/home", true)
		return err
	}))

	tree, err := repo.Reset(ctx)
	require.NoError(t, err)
	assert.True(t, tree.Exists("/home/user"))

	tree, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, tree.Exists("/home/user"))
}

func TestRepositoryStoreError(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("backend down")
	repo := newRepo(t, store, Options{})

	_, err := repo.Load(context.Background())
	assert.ErrorContains(t, err, "backend down")
}

func TestRepositoryExport(t *testing.T) {
	repo := newRepo(t, newMemStore(), Options{})

	data, err := repo.Export(context.Background(), YAML)
	require.NoError(t, err)

	tree, err := Decode(YAML, data)
	require.NoError(t, err)
	assert.True(t, tree.Exists("/home/user/notes.txt"))
}

func TestRepositoryObserver(t *testing.T) {
	obs := &recordingObserver{}
	repo := newRepo(t, newMemStore(), Options{}).WithObserver(obs)

	require.NoError(t, repo.Mutate(context.Background(), func(tree *Tree) error {
		return tree.Mkdir("/x")
	}))
	assert.Equal(t, []string{"load", "save"}, obs.ops)
}

func TestCodecByName(t *testing.T) {
	for name, want := range map[string]string{"": "json", "JSON": "json", "yml": "yaml", "toml": "toml"} {
		codec, err := CodecByName(name)
		require.NoError(t, err)
		assert.Equal(t, want, codec.Name())
	}
	_, err := CodecByName("xml")
	assert.Error(t, err)
}
