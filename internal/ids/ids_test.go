package ids

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixed []string

func (f *fixed) Next() string {
	v := (*f)[0]
	if len(*f) > 1 {
		*f = (*f)[1:]
	}
	return v
}

func TestUUID_ProducesParseableDistinctIDs(t *testing.T) {
	g := UUID{}
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := g.Next()
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestSequence(t *testing.T) {
	s := NewSequence("tag")
	assert.Equal(t, "tag-1", s.Next())
	assert.Equal(t, "tag-2", s.Next())
}

func TestAllocate_SkipsTakenIDs(t *testing.T) {
	g := &fixed{"a", "a", "b"}
	taken := map[string]bool{"a": true}

	id, err := Allocate[string](g, func(k string) bool { return taken[k] })
	require.NoError(t, err)
	assert.Equal(t, "b", id)
}

func TestAllocate_GivesUpOnPersistentCollision(t *testing.T) {
	g := &fixed{"a"}
	_, err := Allocate[string](g, func(string) bool { return true })
	assert.Error(t, err)
}
