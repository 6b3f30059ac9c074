package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/common/webapi"

	"github.com/greenthumb-labs/botanicalbuddy/internal/ai"
	"github.com/greenthumb-labs/botanicalbuddy/internal/handler"
	"github.com/greenthumb-labs/botanicalbuddy/internal/middleware"
	"github.com/greenthumb-labs/botanicalbuddy/internal/model"
	"github.com/greenthumb-labs/botanicalbuddy/internal/pkg/timeutil"
	"github.com/greenthumb-labs/botanicalbuddy/internal/repo"
	"github.com/greenthumb-labs/botanicalbuddy/internal/service"
	"github.com/greenthumb-labs/botanicalbuddy/test/testutil"
)

const embeddingDim = 1536

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	vec := make([]float32, embeddingDim)
	// deterministic direction per text so identical questions match and
	// different ones do not
	for i, r := range text {
		vec[(i+int(r))%embeddingDim] += 1
	}
	return vec, nil
}

func (stubEmbedder) ModelName() string {
	return "stub-embed"
}

type stubGenerator struct {
	answer string
}

func (s stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return s.answer, nil
}

func setupRouter(t *testing.T) (http.Handler, string, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, cleanup := testutil.OpenTestDB(t)
	plantRepo := repo.NewPlantRepo(db)
	qaRepo := repo.NewQARepo(db)

	plantID := uuid.NewString()
	plantName := "Peace Lily " + plantID[:8]
	require.NoError(t, plantRepo.Create(context.Background(), &model.Plant{
		ID:                plantID,
		CommonName:        plantName,
		ScientificName:    "Spathiphyllum " + plantID[:8],
		CareInstructions:  "Keep the soil lightly moist.",
		WaterRequirements: "weekly",
		Ctime:             timeutil.NowUnix(),
	}))

	agent := ai.NewAgent(stubGenerator{answer: "Water it about once a week."}, ai.AgentConfig{Timeout: 5})
	plantService := service.NewPlantService(plantRepo)
	qaService := service.NewQAService(plantService, qaRepo, stubEmbedder{}, agent, service.QAServiceConfig{
		SimilarityThreshold: 0.75,
		EmbeddingDim:        embeddingDim,
		EmbedTimeout:        5,
		MaxInputChars:       4000,
	})

	deps := handler.RouterDeps{
		QA:        handler.NewQAHandler(qaService),
		Plants:    handler.NewPlantHandler(plantService),
		RateLimit: time.Duration(0),
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		"",
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(nil),
		),
	)
	require.NoError(t, err)

	return engine, plantName, cleanup
}
