package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/greenthumb-labs/botanicalbuddy/internal/model"
	appErr "github.com/greenthumb-labs/botanicalbuddy/internal/pkg/errors"
	"github.com/greenthumb-labs/botanicalbuddy/internal/pkg/timeutil"
	"github.com/greenthumb-labs/botanicalbuddy/internal/repo"
	"github.com/greenthumb-labs/botanicalbuddy/test/testutil"
)

const embeddingDim = 1536

func testVector(seed float32) []float32 {
	vec := make([]float32, embeddingDim)
	vec[0] = seed
	vec[1] = 1
	return vec
}

func TestPlantRepoCreateAndGet(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	plants := repo.NewPlantRepo(db)
	id := uuid.NewString()
	plant := &model.Plant{
		ID:                   id,
		CommonName:           "Monstera Deliciosa " + id[:8],
		ScientificName:       "Monstera deliciosa " + id[:8],
		Family:               "Araceae",
		Genus:                "Monstera",
		CareInstructions:     "Water when the top inch of soil is dry.",
		SoilType:             "well-draining",
		WaterRequirements:    "moderate",
		SunlightRequirements: "bright indirect",
		CommonDiseases:       []string{"root rot"},
		CommonPests:          []string{"spider mites", "thrips"},
		Ctime:                timeutil.NowUnix(),
	}
	require.NoError(t, plants.Create(context.Background(), plant))

	got, err := plants.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, plant.CommonName, got.CommonName)
	require.Equal(t, plant.ScientificName, got.ScientificName)
	require.Equal(t, []string{"root rot"}, got.CommonDiseases)
	require.Equal(t, []string{"spider mites", "thrips"}, got.CommonPests)

	// duplicate id maps to a validation error
	require.ErrorIs(t, plants.Create(context.Background(), plant), appErr.ErrInvalid)
}

func TestPlantRepoGetByNameCaseInsensitive(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	plants := repo.NewPlantRepo(db)
	id := uuid.NewString()
	plant := &model.Plant{
		ID:             id,
		CommonName:     "Snake Plant " + id[:8],
		ScientificName: "Dracaena trifasciata " + id[:8],
		Ctime:          timeutil.NowUnix(),
	}
	require.NoError(t, plants.Create(context.Background(), plant))

	got, err := plants.GetByName(context.Background(), "snake plant "+id[:8])
	require.NoError(t, err)
	require.Equal(t, id, got.ID)

	got, err = plants.GetByName(context.Background(), "DRACAENA TRIFASCIATA "+id[:8])
	require.NoError(t, err)
	require.Equal(t, id, got.ID)

	_, err = plants.GetByName(context.Background(), "no such plant "+id)
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestPlantRepoVectorBackfill(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	plants := repo.NewPlantRepo(db)
	id := uuid.NewString()
	plant := &model.Plant{
		ID:         id,
		CommonName: "Fiddle Leaf Fig " + id[:8],
		Ctime:      timeutil.NowUnix(),
	}
	require.NoError(t, plants.Create(context.Background(), plant))

	missing, err := plants.ListMissingVectors(context.Background(), 1000)
	require.NoError(t, err)
	var found bool
	for _, p := range missing {
		if p.ID == id {
			found = true
		}
	}
	require.True(t, found)

	require.NoError(t, plants.UpdateVector(context.Background(), id, testVector(0.5)))

	missing, err = plants.ListMissingVectors(context.Background(), 1000)
	require.NoError(t, err)
	for _, p := range missing {
		require.NotEqual(t, id, p.ID)
	}

	require.ErrorIs(t, plants.UpdateVector(context.Background(), uuid.NewString(), testVector(0.5)), appErr.ErrNotFound)
}
