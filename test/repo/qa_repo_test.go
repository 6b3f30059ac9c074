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

func createTestPlant(t *testing.T, plants *repo.PlantRepo) string {
	t.Helper()
	id := uuid.NewString()
	require.NoError(t, plants.Create(context.Background(), &model.Plant{
		ID:         id,
		CommonName: "Pothos " + id[:8],
		Ctime:      timeutil.NowUnix(),
	}))
	return id
}

func TestQARepoCreateAndList(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	plants := repo.NewPlantRepo(db)
	qa := repo.NewQARepo(db)
	plantID := createTestPlant(t, plants)

	now := timeutil.NowUnix()
	first := &model.QAEntry{
		ID:             uuid.NewString(),
		PlantID:        plantID,
		QuestionText:   "How often should I water it?",
		QuestionVector: testVector(0.1),
		AnswerText:     "Water when the soil is dry.",
		Ctime:          now,
	}
	second := &model.QAEntry{
		ID:             uuid.NewString(),
		PlantID:        plantID,
		QuestionText:   "Why are the leaves yellow?",
		QuestionVector: testVector(0.2),
		AnswerText:     "Usually overwatering.",
		AnswerVector:   testVector(0.3),
		Ctime:          now + 1,
	}
	require.NoError(t, qa.Create(context.Background(), first))
	require.NoError(t, qa.Create(context.Background(), second))

	entries, err := qa.ListByPlant(context.Background(), plantID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, first.ID, entries[0].ID)
	require.Equal(t, second.ID, entries[1].ID)
	require.Len(t, entries[0].QuestionVector, embeddingDim)

	got, err := qa.GetByID(context.Background(), second.ID)
	require.NoError(t, err)
	require.Equal(t, second.QuestionText, got.QuestionText)
	require.Equal(t, second.AnswerText, got.AnswerText)

	_, err = qa.GetByID(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestQARepoDuplicateQuestionsCoexist(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	plants := repo.NewPlantRepo(db)
	qa := repo.NewQARepo(db)
	plantID := createTestPlant(t, plants)

	now := timeutil.NowUnix()
	for i := 0; i < 2; i++ {
		require.NoError(t, qa.Create(context.Background(), &model.QAEntry{
			ID:             uuid.NewString(),
			PlantID:        plantID,
			QuestionText:   "Is it safe for cats?",
			QuestionVector: testVector(0.4),
			AnswerText:     "No, it is mildly toxic to cats.",
			Ctime:          now + int64(i),
		}))
	}

	entries, err := qa.ListByPlant(context.Background(), plantID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}
