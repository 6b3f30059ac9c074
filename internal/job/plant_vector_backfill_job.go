package job

import (
	"context"
	"fmt"
	"strings"

	"github.com/greenthumb-labs/botanicalbuddy/internal/ai"
	"github.com/greenthumb-labs/botanicalbuddy/internal/model"
	"github.com/greenthumb-labs/botanicalbuddy/internal/repo"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const backfillTaskType = "RETRIEVAL_DOCUMENT"

// PlantVectorBackfillJob embeds the profile text of plants that were
// inserted without a vector, a batch at a time.
type PlantVectorBackfillJob struct {
	plants   *repo.PlantRepo
	embedder ai.IEmbedder
	batch    int
}

func NewPlantVectorBackfillJob(plants *repo.PlantRepo, embedder ai.IEmbedder, batch int) *PlantVectorBackfillJob {
	if batch <= 0 {
		batch = 50
	}
	return &PlantVectorBackfillJob{plants: plants, embedder: embedder, batch: batch}
}

func (j *PlantVectorBackfillJob) Name() string {
	return "plant_vector_backfill"
}

func (j *PlantVectorBackfillJob) Run(ctx context.Context) error {
	plants, err := j.plants.ListMissingVectors(ctx, j.batch)
	if err != nil {
		return fmt.Errorf("list plants without vector: %w", err)
	}
	if len(plants) == 0 {
		return nil
	}
	var filled int
	for i := range plants {
		plant := &plants[i]
		vec, err := j.embedder.Embed(ctx, profileText(plant), backfillTaskType)
		if err != nil {
			logutil.GetLogger(ctx).With(
				zap.String("plant_id", plant.ID),
				zap.Error(err),
			).Error("embed plant profile failed")
			continue
		}
		if err := j.plants.UpdateVector(ctx, plant.ID, vec); err != nil {
			logutil.GetLogger(ctx).With(
				zap.String("plant_id", plant.ID),
				zap.Error(err),
			).Error("save plant vector failed")
			continue
		}
		filled++
	}
	logutil.GetLogger(ctx).With(
		zap.Int("candidates", len(plants)),
		zap.Int("filled", filled),
	).Info("plant vector backfill done")
	return nil
}

func profileText(plant *model.Plant) string {
	parts := []string{plant.CommonName, plant.ScientificName}
	for _, extra := range []string{
		plant.Description,
		plant.CareInstructions,
		plant.SoilType,
		plant.WaterRequirements,
		plant.SunlightRequirements,
	} {
		if extra != "" {
			parts = append(parts, extra)
		}
	}
	if len(plant.CommonDiseases) > 0 {
		parts = append(parts, "Common diseases: "+strings.Join(plant.CommonDiseases, ", "))
	}
	if len(plant.CommonPests) > 0 {
		parts = append(parts, "Common pests: "+strings.Join(plant.CommonPests, ", "))
	}
	return strings.Join(parts, ". ")
}
