package job

import (
	"context"
	"fmt"
	"time"

	"github.com/greenthumb-labs/botanicalbuddy/internal/repo"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// EmbeddingCacheCleanupJob drops persisted embeddings older than the
// retention window so the cache table does not grow without bound.
type EmbeddingCacheCleanupJob struct {
	cache     *repo.EmbeddingCacheRepo
	maxAge    time.Duration
	nowUnixFn func() int64
}

func NewEmbeddingCacheCleanupJob(cache *repo.EmbeddingCacheRepo, maxAgeDays int) *EmbeddingCacheCleanupJob {
	return &EmbeddingCacheCleanupJob{
		cache:     cache,
		maxAge:    time.Duration(maxAgeDays) * 24 * time.Hour,
		nowUnixFn: func() int64 { return time.Now().Unix() },
	}
}

func (j *EmbeddingCacheCleanupJob) Name() string {
	return "embedding_cache_cleanup"
}

func (j *EmbeddingCacheCleanupJob) Run(ctx context.Context) error {
	cutoff := j.nowUnixFn() - int64(j.maxAge.Seconds())
	deleted, err := j.cache.DeleteBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("delete expired embeddings: %w", err)
	}
	logutil.GetLogger(ctx).With(
		zap.Int64("deleted", deleted),
		zap.Int64("cutoff", cutoff),
	).Info("embedding cache cleanup done")
	return nil
}
