package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/greenthumb-labs/botanicalbuddy/internal/pkg/errcode"
	appErr "github.com/greenthumb-labs/botanicalbuddy/internal/pkg/errors"
	"github.com/greenthumb-labs/botanicalbuddy/internal/pkg/response"
	"github.com/greenthumb-labs/botanicalbuddy/internal/pkg/vectormath"
)

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	switch {
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, errcode.ErrInvalid, "invalid request")
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, errcode.ErrNotFound, "not found")
	case errors.Is(err, appErr.ErrTooMany):
		response.Error(c, errcode.ErrTooMany, "too many requests")
	case errors.Is(err, appErr.ErrUpstream):
		response.Error(c, errcode.ErrUpstream, "upstream failure")
	case errors.Is(err, vectormath.ErrDimensionMismatch):
		response.Error(c, errcode.ErrInternal, "internal error")
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}
