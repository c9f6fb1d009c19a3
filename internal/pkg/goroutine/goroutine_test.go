package goroutine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager(t *testing.T) {
	t.Run("RunsAndCollectsErrors", func(t *testing.T) {
		m := NewManager(4)
		var ran atomic.Int32
		boom := errors.New("boom")

		require.True(t, m.Go(context.Background(), func(context.Context) error {
			ran.Add(1)
			return nil
		}))
		require.True(t, m.Go(context.Background(), func(context.Context) error {
			ran.Add(1)
			return boom
		}))

		err := m.Wait()
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, int32(2), ran.Load())
	})

	t.Run("RejectsAfterWait", func(t *testing.T) {
		m := NewManager(1)
		require.NoError(t, m.Wait())

		assert.False(t, m.Go(context.Background(), func(context.Context) error { return nil }))
	})

	t.Run("RejectsWhenFull", func(t *testing.T) {
		m := NewManager(1)
		release := make(chan struct{})
		started := make(chan struct{})

		require.True(t, m.Go(context.Background(), func(context.Context) error {
			close(started)
			<-release
			return nil
		}))
		<-started

		assert.False(t, m.Go(context.Background(), func(context.Context) error { return nil }))

		close(release)
		assert.NoError(t, m.Wait())
	})

	t.Run("RecoversPanic", func(t *testing.T) {
		m := NewManager(1)
		require.True(t, m.Go(context.Background(), func(context.Context) error {
			panic("provider exploded")
		}))
		assert.NoError(t, m.Wait())
	})

	t.Run("NilManager", func(t *testing.T) {
		var m *Manager
		assert.False(t, m.Go(context.Background(), func(context.Context) error { return nil }))
		assert.NoError(t, m.Wait())
	})
}
