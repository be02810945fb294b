package vfs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"
	"go.uber.org/zap"
)

// BlobStore persists opaque values by key.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// Observer receives snapshot timings.
type Observer interface {
	ObserveSnapshot(op string, size int, duration time.Duration, err error)
}

// DefaultKey is the blob key used when none is configured.
const DefaultKey = "vfs/snapshot"

// Snapshot envelope layout:
//
//	magic(4) version(1) flags(1) codec(1) blake3(32) payload
//
// The checksum covers the uncompressed payload.
var magic = []byte("VSNP")

const (
	envelopeVersion byte = 1
	flagZstd        byte = 1 << 0
	headerSize           = 4 + 1 + 1 + 1 + 32
)

// ErrCorrupt marks a snapshot that could not be decoded.
var ErrCorrupt = errors.New("corrupt snapshot")

// Options configures a Repository.
type Options struct {
	Key      string
	Codec    Codec
	Compress bool
	// Seed builds the tree used when no valid snapshot exists.
	Seed func() *Tree
}

// Repository loads and saves the whole tree as one snapshot. Every access is
// serialized so a load/mutate/save cycle is atomic within the process.
type Repository struct {
	store    BlobStore
	key      string
	codec    Codec
	compress bool
	seed     func() *Tree
	logger   *zap.Logger
	observer Observer

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	mu sync.Mutex
}

// NewRepository creates a snapshot repository over store.
func NewRepository(store BlobStore, opts Options, logger *zap.Logger) (*Repository, error) {
	if store == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.Codec == nil {
		opts.Codec = JSON
	}
	if _, ok := codecIDs[opts.Codec.Name()]; !ok {
		return nil, fmt.Errorf("codec %q cannot be stored in a snapshot", opts.Codec.Name())
	}
	if opts.Seed == nil {
		opts.Seed = NewTree
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &Repository{
		store:    store,
		key:      opts.Key,
		codec:    opts.Codec,
		compress: opts.Compress,
		seed:     opts.Seed,
		logger:   logger,
		encoder:  encoder,
		decoder:  decoder,
	}, nil
}

// WithObserver attaches a timing observer.
func (r *Repository) WithObserver(o Observer) *Repository {
	r.observer = o
	return r
}

// Key returns the blob key of the snapshot.
func (r *Repository) Key() string {
	return r.key
}

// Load returns the stored tree, or a freshly seeded one when the snapshot is
// missing or corrupt.
func (r *Repository) Load(ctx context.Context) (*Tree, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// Save replaces the stored snapshot with t.
func (r *Repository) Save(ctx context.Context, t *Tree) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(ctx, t)
}

// View loads the tree and passes it to fn without saving.
func (r *Repository) View(ctx context.Context, fn func(*Tree) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.load(ctx)
	if err != nil {
		return err
	}
	return fn(t)
}

// Mutate loads the tree, applies fn and saves the result. Nothing is saved
// when fn returns an error.
func (r *Repository) Mutate(ctx context.Context, fn func(*Tree) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(t); err != nil {
		return err
	}
	return r.save(ctx, t)
}

// Reset discards the snapshot and stores a freshly seeded tree.
func (r *Repository) Reset(ctx context.Context) (*Tree, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Delete(ctx, r.key); err != nil {
		return nil, fmt.Errorf("failed to delete snapshot: %w", err)
	}
	t := r.seed()
	if err := r.save(ctx, t); err != nil {
		return nil, err
	}
	r.logger.Info("File system reset", zap.String("key", r.key))
	return t, nil
}

// Export encodes the current tree with codec, without envelope or compression.
func (r *Repository) Export(ctx context.Context, codec Codec) ([]byte, error) {
	var out []byte
	err := r.View(ctx, func(t *Tree) error {
		data, err := codec.Marshal(t)
		out = data
		return err
	})
	return out, err
}

func (r *Repository) load(ctx context.Context) (*Tree, error) {
	start := time.Now()
	data, found, err := r.store.Get(ctx, r.key)
	if err != nil {
		r.observe("load", 0, start, err)
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	if !found {
		r.observe("load", 0, start, nil)
		r.logger.Debug("No snapshot found, seeding", zap.String("key", r.key))
		return r.seed(), nil
	}

	t, err := r.decode(data)
	r.observe("load", len(data), start, err)
	if err != nil {
		r.logger.Warn("Snapshot unreadable, reseeding",
			zap.String("key", r.key),
			zap.Int("size", len(data)),
			zap.Error(err),
		)
		return r.seed(), nil
	}
	return t, nil
}

func (r *Repository) save(ctx context.Context, t *Tree) error {
	start := time.Now()
	data, err := r.encode(t)
	if err != nil {
		r.observe("save", 0, start, err)
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	err = r.store.Put(ctx, r.key, data)
	r.observe("save", len(data), start, err)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (r *Repository) encode(t *Tree) ([]byte, error) {
	payload, err := r.codec.Marshal(t)
	if err != nil {
		return nil, err
	}
	sum := blake3.Sum256(payload)

	var flags byte
	if r.compress {
		flags |= flagZstd
		payload = r.encoder.EncodeAll(payload, nil)
	}

	out := make([]byte, 0, headerSize+len(payload))
	out = append(out, magic...)
	out = append(out, envelopeVersion, flags, codecIDs[r.codec.Name()])
	out = append(out, sum[:]...)
	out = append(out, payload...)
	return out, nil
}

func (r *Repository) decode(data []byte) (*Tree, error) {
	// Bare JSON written by hand or by older tooling.
	if !bytes.HasPrefix(data, magic) {
		t, err := Decode(JSON, data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		return t, nil
	}
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: truncated header", ErrCorrupt)
	}

	version, flags, id := data[4], data[5], data[6]
	if version != envelopeVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, version)
	}
	codec, ok := codecsByID[id]
	if !ok {
		return nil, fmt.Errorf("%w: unknown codec %d", ErrCorrupt, id)
	}

	payload := data[headerSize:]
	if flags&flagZstd != 0 {
		var err error
		payload, err = r.decoder.DecodeAll(payload, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	}

	sum := blake3.Sum256(payload)
	if !bytes.Equal(sum[:], data[7:headerSize]) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}

	t, err := Decode(codec, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return t, nil
}

func (r *Repository) observe(op string, size int, start time.Time, err error) {
	if r.observer != nil {
		r.observer.ObserveSnapshot(op, size, time.Since(start), err)
	}
}
