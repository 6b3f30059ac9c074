package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/greenthumb-labs/botanicalbuddy/internal/middleware"
)

type RouterDeps struct {
	QA        *QAHandler
	Plants    *PlantHandler
	RateLimit time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	askGroup := api.Group("")
	if deps.RateLimit > 0 {
		askGroup.Use(middleware.RateLimit(deps.RateLimit))
	}
	askGroup.POST("/qa/ask", deps.QA.Ask)

	api.GET("/qa/:id", deps.QA.Get)
	api.GET("/plants/:id", deps.Plants.Get)
	api.GET("/plants", deps.Plants.Resolve)
}
