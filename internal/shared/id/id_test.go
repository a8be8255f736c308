package id

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWindowID(t *testing.T) {
	wid := NewWindowID()

	assert.True(t, strings.HasPrefix(wid.String(), "win_"))
	assert.Len(t, wid.String(), len("win_")+26)
}

func TestParseWindowID(t *testing.T) {
	wid := NewWindowID()

	parsed, err := ParseWindowID(wid.String())
	require.NoError(t, err)
	assert.Equal(t, wid, parsed)

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no prefix", "01ARZ3NDEKTSV4RRFFQ69G5FAV"},
		{"wrong prefix", "app_01ARZ3NDEKTSV4RRFFQ69G5FAV"},
		{"bad ulid", "win_not-a-ulid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWindowID(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestCreated(t *testing.T) {
	before := time.Now().Add(-time.Second)
	wid := NewWindowID()

	created, err := wid.Created()
	require.NoError(t, err)
	assert.True(t, created.After(before))
	assert.True(t, created.Before(time.Now().Add(time.Second)))
}

func TestConcurrentGeneration(t *testing.T) {
	const n = 200
	var (
		mu   sync.Mutex
		seen = make(map[WindowID]struct{}, n)
		wg   sync.WaitGroup
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wid := NewWindowID()
			mu.Lock()
			seen[wid] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
}

func TestLexicographicSorting(t *testing.T) {
	g := NewGenerator()
	first := g.GenerateWithPrefix(WindowPrefix)
	time.Sleep(2 * time.Millisecond)
	second := g.GenerateWithPrefix(WindowPrefix)

	assert.Less(t, first, second)
}
