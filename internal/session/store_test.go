package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkhin/deskbot/internal/domain"
)

func TestWith_CreatesIdleSessionOnFirstUse(t *testing.T) {
	s := NewStore()

	s.With(100, 100, func(sess *domain.Session) bool {
		assert.Equal(t, domain.StateIdle, sess.State)
		assert.Equal(t, int64(100), sess.UserID)
		sess.State = domain.StateAwaitingCategory
		return true
	})

	assert.Equal(t, 1, s.Len())

	snap := s.Snapshot(100)
	require.NotNil(t, snap)
	assert.Equal(t, domain.StateAwaitingCategory, snap.State)
}

func TestWith_MutationsPersistAcrossCalls(t *testing.T) {
	s := NewStore()

	s.With(1, 1, func(sess *domain.Session) bool {
		sess.Category = domain.CategoryPayment
		sess.Items = append(sess.Items, domain.ContentItem{Kind: domain.ItemText, MessageID: 5})
		return true
	})
	s.With(1, 1, func(sess *domain.Session) bool {
		assert.Equal(t, domain.CategoryPayment, sess.Category)
		require.Len(t, sess.Items, 1)
		return true
	})
}

func TestWith_DestroyRemovesSession(t *testing.T) {
	s := NewStore()

	s.With(1, 1, func(sess *domain.Session) bool {
		sess.State = domain.StateCollectingContent
		return false
	})

	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Snapshot(1))

	// Next event gets a fresh Idle session.
	s.With(1, 1, func(sess *domain.Session) bool {
		assert.Equal(t, domain.StateIdle, sess.State)
		assert.Empty(t, sess.Items)
		return true
	})
}

func TestWith_DistinctUsersIsolated(t *testing.T) {
	s := NewStore()

	s.With(1, 1, func(sess *domain.Session) bool {
		sess.FullName = "alice"
		return true
	})
	s.With(2, 2, func(sess *domain.Session) bool {
		assert.Empty(t, sess.FullName)
		return true
	})
	assert.Equal(t, 2, s.Len())
}

func TestWith_SameUserSerialized(t *testing.T) {
	s := NewStore()

	// Hammer one key from many goroutines; the per-key lock must make the
	// increments race-free.
	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.With(1, 1, func(sess *domain.Session) bool {
				sess.Items = append(sess.Items, domain.ContentItem{Kind: domain.ItemText, MessageID: i})
				return true
			})
		}(i)
	}
	wg.Wait()

	snap := s.Snapshot(1)
	require.NotNil(t, snap)
	assert.Len(t, snap.Items, n)
}

func TestWith_DestroyUnderContention(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.With(1, 1, func(sess *domain.Session) bool {
				return i%2 == 0 // alternate keep/destroy
			})
		}(i)
	}
	wg.Wait()

	// Must settle with at most one live entry and no deadlock.
	assert.LessOrEqual(t, s.Len(), 1)
}

func TestSnapshot_CopiesItems(t *testing.T) {
	s := NewStore()

	s.With(1, 1, func(sess *domain.Session) bool {
		sess.Items = []domain.ContentItem{{Kind: domain.ItemPhoto, FileID: "f1"}}
		return true
	})

	snap := s.Snapshot(1)
	require.NotNil(t, snap)
	snap.Items[0].FileID = "mutated"

	again := s.Snapshot(1)
	assert.Equal(t, "f1", again.Items[0].FileID)
}
