package embedcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	calls int
	vec   []float32
}

func (c *countingEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	c.calls++
	return c.vec, nil
}

func (c *countingEmbedder) ModelName() string {
	return "test-model"
}

func TestLruEmbedderCachesByTextAndTaskType(t *testing.T) {
	inner := &countingEmbedder{vec: []float32{1, 2, 3}}
	cached := WrapLruCacheToEmbedder(inner, 16, time.Minute)

	v1, err := cached.Embed(context.Background(), "hello", "SEMANTIC_SIMILARITY")
	require.NoError(t, err)
	require.Equal(t, []float32{1, 2, 3}, v1)
	require.Equal(t, 1, inner.calls)

	v2, err := cached.Embed(context.Background(), "hello", "SEMANTIC_SIMILARITY")
	require.NoError(t, err)
	require.Equal(t, v1, v2)
	require.Equal(t, 1, inner.calls)

	// different task type embeds again
	_, err = cached.Embed(context.Background(), "hello", "RETRIEVAL_DOCUMENT")
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls)
}

func TestLruEmbedderReturnsCopies(t *testing.T) {
	inner := &countingEmbedder{vec: []float32{1, 2, 3}}
	cached := WrapLruCacheToEmbedder(inner, 16, time.Minute)

	v1, err := cached.Embed(context.Background(), "hello", "SEMANTIC_SIMILARITY")
	require.NoError(t, err)
	v1[0] = 99

	v2, err := cached.Embed(context.Background(), "hello", "SEMANTIC_SIMILARITY")
	require.NoError(t, err)
	require.Equal(t, float32(1), v2[0])
}

func TestWrapLruCacheDisabled(t *testing.T) {
	inner := &countingEmbedder{vec: []float32{1}}
	require.Equal(t, inner, WrapLruCacheToEmbedder(inner, 0, time.Minute))
	require.Equal(t, inner, WrapLruCacheToEmbedder(inner, 16, 0))
}
