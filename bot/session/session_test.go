package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreamThenWhisperRestoresDefault(t *testing.T) {
	var s Session
	require.False(t, s.Screaming())

	s.Scream()
	assert.True(t, s.Screaming())

	s.Whisper()
	assert.False(t, s.Screaming())
}

func TestStorePerChat(t *testing.T) {
	st := NewStore(Options{})

	a := st.Get(1)
	a.Scream()

	assert.Same(t, a, st.Get(1))
	assert.False(t, st.Get(2).Screaming(), "other chats keep their own flag")
	assert.Equal(t, 2, st.Len())
}

func TestStoreShared(t *testing.T) {
	st := NewStore(Options{Shared: true})

	st.Get(1).Scream()

	assert.True(t, st.Get(2).Screaming())
	assert.Same(t, st.Get(1), st.Get(99))
}

func TestStoreConcurrentGet(t *testing.T) {
	st := NewStore(Options{})

	var wg sync.WaitGroup
	got := make([]*Session, 32)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = st.Get(7)
		}(i)
	}
	wg.Wait()

	for _, s := range got {
		assert.Same(t, got[0], s)
	}
}
