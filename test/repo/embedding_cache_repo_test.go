package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/greenthumb-labs/botanicalbuddy/internal/model"
	"github.com/greenthumb-labs/botanicalbuddy/internal/pkg/timeutil"
	"github.com/greenthumb-labs/botanicalbuddy/internal/repo"
	"github.com/greenthumb-labs/botanicalbuddy/test/testutil"
)

func TestEmbeddingCacheRepoRoundtrip(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	cache := repo.NewEmbeddingCacheRepo(db)
	hash := uuid.NewString()
	item := &model.EmbeddingCache{
		ModelName:   "text-embedding-3-small",
		TaskType:    "SEMANTIC_SIMILARITY",
		ContentHash: hash,
		Embedding:   testVector(0.7),
		Ctime:       timeutil.NowUnix(),
	}
	require.NoError(t, cache.Save(context.Background(), item))

	values, ok, err := cache.Get(context.Background(), item.ModelName, item.TaskType, hash)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, values, embeddingDim)

	_, ok, err = cache.Get(context.Background(), item.ModelName, item.TaskType, uuid.NewString())
	require.NoError(t, err)
	require.False(t, ok)

	// saving again with the same key overwrites instead of failing
	item.Embedding = testVector(0.8)
	require.NoError(t, cache.Save(context.Background(), item))
}

func TestEmbeddingCacheRepoDeleteBefore(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	cache := repo.NewEmbeddingCacheRepo(db)
	hash := uuid.NewString()
	old := &model.EmbeddingCache{
		ModelName:   "text-embedding-3-small",
		TaskType:    "RETRIEVAL_DOCUMENT",
		ContentHash: hash,
		Embedding:   testVector(0.9),
		Ctime:       timeutil.NowUnix() - 90*24*3600,
	}
	require.NoError(t, cache.Save(context.Background(), old))

	_, err := cache.DeleteBefore(context.Background(), timeutil.NowUnix()-30*24*3600)
	require.NoError(t, err)

	_, ok, err := cache.Get(context.Background(), old.ModelName, old.TaskType, hash)
	require.NoError(t, err)
	require.False(t, ok)
}
