package id

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUnique(t *testing.T) {
	gen := NewGenerator()

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		s := gen.GenerateString()
		require.Len(t, s, 26)
		_, dup := seen[s]
		require.False(t, dup, "duplicate id %s", s)
		seen[s] = struct{}{}
	}
}

func TestGenerateMonotonic(t *testing.T) {
	gen := NewGenerator()

	prev := gen.GenerateString()
	for i := 0; i < 100; i++ {
		next := gen.GenerateString()
		assert.Less(t, prev, next)
		prev = next
	}
}

func TestNewRequestID(t *testing.T) {
	rid := NewRequestID()

	assert.True(t, strings.HasPrefix(rid.String(), RequestPrefix+"_"))
	assert.True(t, IsValid(rid.String()))
}

func TestTraceAndSpanIDs(t *testing.T) {
	assert.True(t, IsValid(NewTraceID()))
	assert.True(t, IsValid(NewSpanID()))
	assert.NotEqual(t, NewSpanID(), NewSpanID())
}

func TestNewConnectionID(t *testing.T) {
	cid := NewConnectionID()

	_, err := uuid.Parse(cid.String())
	assert.NoError(t, err)
}

func TestIsValid(t *testing.T) {
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("not-a-ulid"))
	assert.False(t, IsValid("req_short"))
}

func TestTimestamp(t *testing.T) {
	before := time.Now().Add(-time.Second)
	rid := NewRequestID()

	ts, err := Timestamp(rid.String())
	require.NoError(t, err)
	assert.True(t, ts.After(before))
	assert.True(t, ts.Before(time.Now().Add(time.Second)))

	_, err = Timestamp("garbage")
	assert.Error(t, err)
}

func TestConcurrentGeneration(t *testing.T) {
	gen := NewGenerator()

	var (
		mu   sync.Mutex
		seen = make(map[string]struct{})
		wg   sync.WaitGroup
	)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				s := gen.GenerateString()
				mu.Lock()
				seen[s] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 1600)
}
