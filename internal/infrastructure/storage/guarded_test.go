package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/vshell/internal/infrastructure/resilience"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Bool(1), args.Error(2)
}

func (m *mockStore) Put(ctx context.Context, key string, data []byte) error {
	return m.Called(ctx, key, data).Error(0)
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockStore) Close() error {
	return m.Called().Error(0)
}

func TestGuardedStore(t *testing.T) {
	exerciseStore(t, NewGuarded(NewMemory(), resilience.New("memory", resilience.Settings{})))
}

func TestGuardedOpensOnFailures(t *testing.T) {
	ctx := context.Background()
	down := errors.New("connection refused")

	inner := &mockStore{}
	inner.On("Get", mock.Anything, "vfs/snapshot").Return(nil, false, down).Times(2)

	breaker := resilience.New("postgres", resilience.Settings{FailureThreshold: 2, Cooldown: time.Hour})
	store := NewGuarded(inner, breaker)

	for i := 0; i < 2; i++ {
		_, _, err := store.Get(ctx, "vfs/snapshot")
		assert.ErrorIs(t, err, down)
	}
	assert.Equal(t, resilience.StateOpen, store.Breaker().State())

	_, _, err := store.Get(ctx, "vfs/snapshot")
	assert.ErrorIs(t, err, resilience.ErrOpen)
	err = store.Put(ctx, "vfs/snapshot", []byte("x"))
	assert.ErrorIs(t, err, resilience.ErrOpen)

	inner.AssertExpectations(t)
	inner.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
}

func TestGuardedPassesThrough(t *testing.T) {
	ctx := context.Background()
	inner := &mockStore{}
	inner.On("Get", mock.Anything, "k").Return([]byte("v"), true, nil).Once()
	inner.On("Delete", mock.Anything, "k").Return(nil).Once()
	inner.On("Close").Return(nil).Once()

	store := NewGuarded(inner, resilience.New("s3", resilience.Settings{}))
	data, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v"), data)
	require.NoError(t, store.Delete(ctx, "k"))
	require.NoError(t, store.Close())

	inner.AssertExpectations(t)
}

func TestRemote(t *testing.T) {
	assert.True(t, Remote(BackendPostgres))
	assert.True(t, Remote(BackendS3))
	assert.False(t, Remote(BackendFile))
	assert.False(t, Remote(BackendMemory))
}
