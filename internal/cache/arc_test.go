package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestARC(t *testing.T) {
	t.Parallel()

	c, err := NewARC[string, []int](2)
	require.NoError(t, err)

	c.Add("a", []int{1})
	c.Add("b", []int{2, 3})

	v, ok := c.Get("b")
	require.True(t, ok)
	assert.Equal(t, []int{2, 3}, v)

	c.Add("c", nil)
	assert.Len(t, c.Keys(), 2)

	c.Delete("b")
	_, ok = c.Get("b")
	assert.False(t, ok)

	c.Purge()
	assert.Empty(t, c.Keys())
}

func TestNewARCInvalidSize(t *testing.T) {
	t.Parallel()

	_, err := NewARC[string, int](0)
	assert.Error(t, err)
}
