package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/greenthumb-labs/botanicalbuddy/internal/pkg/errcode"
	"github.com/greenthumb-labs/botanicalbuddy/internal/pkg/response"
	"github.com/greenthumb-labs/botanicalbuddy/internal/service"
)

type PlantHandler struct {
	plants *service.PlantService
}

func NewPlantHandler(plants *service.PlantService) *PlantHandler {
	return &PlantHandler{plants: plants}
}

func (h *PlantHandler) Get(c *gin.Context) {
	plant, err := h.plants.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, plant)
}

// Resolve looks a plant up by name, including the fuzzy fallback.
func (h *PlantHandler) Resolve(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		response.Error(c, errcode.ErrInvalid, "name required")
		return
	}
	plant, err := h.plants.Resolve(c.Request.Context(), name)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, plant)
}
