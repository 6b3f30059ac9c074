package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/greenthumb-labs/botanicalbuddy/internal/pkg/errcode"
	"github.com/greenthumb-labs/botanicalbuddy/internal/pkg/response"
	"github.com/greenthumb-labs/botanicalbuddy/internal/service"
)

type QAHandler struct {
	qa *service.QAService
}

func NewQAHandler(qa *service.QAService) *QAHandler {
	return &QAHandler{qa: qa}
}

type askRequest struct {
	Query     string `json:"query"`
	PlantName string `json:"plant_name"`
}

func (h *QAHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	result, err := h.qa.Ask(c.Request.Context(), req.PlantName, req.Query)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

func (h *QAHandler) Get(c *gin.Context) {
	entry, err := h.qa.GetEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, entry)
}
