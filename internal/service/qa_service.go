package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/greenthumb-labs/botanicalbuddy/internal/ai"
	"github.com/greenthumb-labs/botanicalbuddy/internal/model"
	appErr "github.com/greenthumb-labs/botanicalbuddy/internal/pkg/errors"
	"github.com/greenthumb-labs/botanicalbuddy/internal/pkg/timeutil"
	"github.com/greenthumb-labs/botanicalbuddy/internal/pkg/vectormath"
)

// Question vectors on both sides of a comparison must share a task type.
const taskTypeQuestion = "SEMANTIC_SIMILARITY"

// QAStore is the append-only question/answer storage surface.
type QAStore interface {
	ListByPlant(ctx context.Context, plantID string) ([]model.QAEntry, error)
	Create(ctx context.Context, entry *model.QAEntry) error
	GetByID(ctx context.Context, id string) (*model.QAEntry, error)
}

type QAServiceConfig struct {
	SimilarityThreshold float64
	BestMatch           bool
	EmbeddingDim        int
	EmbedTimeout        int
	MaxInputChars       int
}

// QAService answers plant questions, reusing a stored answer when a
// sufficiently similar question has been asked before.
type QAService struct {
	plants   *PlantService
	qa       QAStore
	embedder ai.IEmbedder
	agent    *ai.Agent
	cfg      QAServiceConfig
}

func NewQAService(plants *PlantService, qa QAStore, embedder ai.IEmbedder, agent *ai.Agent, cfg QAServiceConfig) *QAService {
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = 0.75
	}
	return &QAService{
		plants:   plants,
		qa:       qa,
		embedder: embedder,
		agent:    agent,
		cfg:      cfg,
	}
}

type AskResult struct {
	Answer    string    `json:"answer"`
	FromCache bool      `json:"from_cache"`
	Score     float64   `json:"score,omitempty"`
	Intent    ai.Intent `json:"intent,omitempty"`
	Degraded  bool      `json:"degraded,omitempty"`
	EntryID   string    `json:"entry_id,omitempty"`
}

// Ask runs the full flow: resolve plant, embed the question, scan stored
// entries for a match, and either reuse the stored answer or generate and
// persist a new one.
func (s *QAService) Ask(ctx context.Context, plantName, query string) (*AskResult, error) {
	query = strings.TrimSpace(query)
	plantName = strings.TrimSpace(plantName)
	if query == "" || plantName == "" {
		return nil, appErr.ErrInvalid
	}
	if s.cfg.MaxInputChars > 0 && len(query) > s.cfg.MaxInputChars {
		return nil, appErr.ErrInvalid
	}
	logger := logutil.GetLogger(ctx).With(zap.String("plant", plantName))

	plant, err := s.plants.Resolve(ctx, plantName)
	if err != nil {
		return nil, err
	}

	qvec, err := s.embedQuestion(ctx, query)
	if err != nil {
		logger.Error("failed to embed question", zap.Error(err))
		return nil, fmt.Errorf("%w: embed question: %v", appErr.ErrUpstream, err)
	}

	entries, err := s.qa.ListByPlant(ctx, plant.ID)
	if err != nil {
		return nil, err
	}
	match, score, err := s.findMatch(entries, qvec)
	if err != nil {
		// dimension mismatch means the embedding model changed under us,
		// producing a silently wrong similarity is worse than failing
		logger.Error("similarity scan failed", zap.Error(err))
		return nil, err
	}
	if match != nil {
		logger.Info("qa cache hit", zap.String("entry_id", match.ID), zap.Float64("score", score))
		return &AskResult{
			Answer:    match.AnswerText,
			FromCache: true,
			Score:     score,
			EntryID:   match.ID,
		}, nil
	}

	inference := s.agent.Answer(ctx, plant, query)
	result := &AskResult{
		Answer:   inference.Answer,
		Intent:   inference.Intent,
		Degraded: inference.Degraded,
	}
	if inference.Degraded {
		// failure text must never become a cached answer
		logger.Warn("degraded answer, skipping persist", zap.String("intent", string(inference.Intent)))
		return result, nil
	}

	entry := &model.QAEntry{
		ID:             uuid.NewString(),
		PlantID:        plant.ID,
		QuestionText:   query,
		QuestionVector: qvec,
		AnswerText:     inference.Answer,
		Ctime:          timeutil.NowUnix(),
	}
	if err := s.qa.Create(ctx, entry); err != nil {
		// the answer is already in hand, losing the cache write is not
		// worth failing the request over
		logger.Warn("failed to persist qa entry", zap.Error(err))
		return result, nil
	}
	logger.Info("qa entry created", zap.String("entry_id", entry.ID), zap.String("intent", string(inference.Intent)))
	result.EntryID = entry.ID
	return result, nil
}

func (s *QAService) GetEntry(ctx context.Context, id string) (*model.QAEntry, error) {
	if strings.TrimSpace(id) == "" {
		return nil, appErr.ErrInvalid
	}
	return s.qa.GetByID(ctx, id)
}

func (s *QAService) embedQuestion(ctx context.Context, query string) ([]float32, error) {
	if s.embedder == nil {
		return nil, fmt.Errorf("embedder not configured")
	}
	if s.cfg.EmbedTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.cfg.EmbedTimeout)*time.Second)
		defer cancel()
	}
	vec, err := s.embedder.Embed(ctx, query, taskTypeQuestion)
	if err != nil {
		return nil, err
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("provider returned empty embedding")
	}
	if s.cfg.EmbeddingDim > 0 && len(vec) != s.cfg.EmbeddingDim {
		return nil, fmt.Errorf("provider returned %d dims, expected %d", len(vec), s.cfg.EmbeddingDim)
	}
	return vec, nil
}

// findMatch walks entries in storage order. The default policy returns the
// first entry at or above the threshold; best-match mode keeps scanning and
// returns the highest scorer.
func (s *QAService) findMatch(entries []model.QAEntry, qvec []float32) (*model.QAEntry, float64, error) {
	var best *model.QAEntry
	var bestScore float64
	for i := range entries {
		score, err := vectormath.Cosine(qvec, entries[i].QuestionVector)
		if err != nil {
			return nil, 0, err
		}
		if score < s.cfg.SimilarityThreshold {
			continue
		}
		if !s.cfg.BestMatch {
			return &entries[i], score, nil
		}
		if best == nil || score > bestScore {
			best = &entries[i]
			bestScore = score
		}
	}
	return best, bestScore, nil
}
