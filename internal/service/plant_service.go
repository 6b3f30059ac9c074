package service

import (
	"context"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/greenthumb-labs/botanicalbuddy/internal/model"
	appErr "github.com/greenthumb-labs/botanicalbuddy/internal/pkg/errors"
)

// PlantStore is the read surface the QA flow needs from plant storage.
type PlantStore interface {
	GetByID(ctx context.Context, id string) (*model.Plant, error)
	GetByName(ctx context.Context, name string) (*model.Plant, error)
	ListNames(ctx context.Context) ([]string, error)
}

type PlantService struct {
	plants PlantStore
}

func NewPlantService(plants PlantStore) *PlantService {
	return &PlantService{plants: plants}
}

func (s *PlantService) Get(ctx context.Context, id string) (*model.Plant, error) {
	if strings.TrimSpace(id) == "" {
		return nil, appErr.ErrInvalid
	}
	return s.plants.GetByID(ctx, id)
}

// Resolve finds a plant by common or scientific name, falling back to a
// fuzzy match over all common names when the exact lookup misses.
func (s *PlantService) Resolve(ctx context.Context, name string) (*model.Plant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, appErr.ErrInvalid
	}
	plant, err := s.plants.GetByName(ctx, name)
	if err == nil {
		return plant, nil
	}
	if !appErr.IsNotFound(err) {
		return nil, err
	}
	names, err := s.plants.ListNames(ctx)
	if err != nil {
		return nil, err
	}
	closest, ok := closestName(name, names)
	if !ok {
		logutil.GetLogger(ctx).Warn("plant not found", zap.String("name", name))
		return nil, appErr.ErrNotFound
	}
	logutil.GetLogger(ctx).Info("fuzzy plant match",
		zap.String("requested", name),
		zap.String("matched", closest),
	)
	return s.plants.GetByName(ctx, closest)
}

func closestName(name string, options []string) (string, bool) {
	ranks := fuzzy.RankFindNormalizedFold(name, options)
	if len(ranks) == 0 {
		return "", false
	}
	sort.Sort(ranks)
	return ranks[0].Target, true
}
