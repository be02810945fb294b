package id

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestULIDMonotonic(t *testing.T) {
	gen := NewGenerator()

	a, b := gen.ULID(), gen.ULID()
	assert.Less(t, a.String(), b.String(), "ordered within a millisecond")
}

func TestNew(t *testing.T) {
	gen := NewGenerator()

	assert.Len(t, gen.New(""), 26)

	for _, prefix := range []string{SessionPrefix, SpanPrefix} {
		s := gen.New(prefix)
		require.True(t, strings.HasPrefix(s, prefix+"_"), s)

		got, _, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, prefix, got)
	}
}

func TestDeterministicEntropy(t *testing.T) {
	fixed := time.UnixMilli(1_700_000_000_000)
	mk := func() *Generator {
		g := NewGeneratorWithEntropy(bytes.NewReader(make([]byte, 64)))
		g.now = func() time.Time { return fixed }
		return g
	}

	assert.Equal(t, mk().New("x"), mk().New("x"))
	ts, err := Timestamp(mk().New(SessionPrefix))
	require.NoError(t, err)
	assert.True(t, ts.Equal(fixed))
}

func TestTypedIDs(t *testing.T) {
	assert.True(t, strings.HasPrefix(NewSessionID().String(), "sess_"))
	assert.True(t, strings.HasPrefix(NewSpanID().String(), "span_"))
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid(NewGenerator().New("")))
	assert.True(t, IsValid(string(NewSessionID())))
	assert.False(t, IsValid("not-a-ulid"))
	assert.False(t, IsValid("sess_bogus"))
	assert.False(t, IsValid(""))
}

func TestTimestamp(t *testing.T) {
	before := time.Now().Add(-time.Second)
	ts, err := Timestamp(string(NewSessionID()))
	require.NoError(t, err)
	assert.True(t, ts.After(before))

	_, err = Timestamp("sess_bogus")
	assert.Error(t, err)
}

func TestConcurrentGeneration(t *testing.T) {
	gen := NewGenerator()
	const n = 200

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[string]struct{}, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := gen.New(SessionPrefix)
			mu.Lock()
			seen[s] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
}
