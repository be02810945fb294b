// Package id generates the identifiers vshell hands out.
//
// IDs are ULIDs behind a short type prefix, sess_01H... or span_01H...,
// so they sort by creation time and read well in logs.
package id

import (
	"crypto/rand"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// SessionID identifies a shell session
type SessionID string

// SpanID identifies one traced operation
type SpanID string

const (
	SessionPrefix = "sess"
	SpanPrefix    = "span"
)

// Generator produces ULIDs. It is safe for concurrent use.
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
	now     func() time.Time
}

var std = NewGenerator()

// NewGenerator creates a generator backed by crypto/rand with monotonic
// entropy so IDs created in the same millisecond still sort in order.
func NewGenerator() *Generator {
	return NewGeneratorWithEntropy(ulid.Monotonic(rand.Reader, 0))
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy, now: time.Now}
}

// ULID returns the next raw ULID.
func (g *Generator) ULID() ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy)
}

// New returns "<prefix>_<ulid>", or the bare ULID when prefix is empty.
func (g *Generator) New(prefix string) string {
	u := g.ULID().String()
	if prefix == "" {
		return u
	}
	return prefix + "_" + u
}

// NewSessionID generates a new session ID
func NewSessionID() SessionID { return SessionID(std.New(SessionPrefix)) }

// NewSpanID generates a new span ID
func NewSpanID() SpanID { return SpanID(std.New(SpanPrefix)) }

func (id SessionID) String() string { return string(id) }
func (id SpanID) String() string    { return string(id) }

// Parse splits an ID into its prefix and ULID.
func Parse(s string) (prefix string, u ulid.ULID, err error) {
	body := s
	if i := strings.LastIndexByte(s, '_'); i >= 0 {
		prefix, body = s[:i], s[i+1:]
	}
	u, err = ulid.Parse(body)
	return prefix, u, err
}

// IsValid reports whether s is a ULID, with or without prefix.
func IsValid(s string) bool {
	_, _, err := Parse(s)
	return err == nil
}

// Timestamp extracts the creation time from an ID.
func Timestamp(s string) (time.Time, error) {
	_, u, err := Parse(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()), nil
}
