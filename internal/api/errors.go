package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/omerorhan/hedging-calculator/internal/apperrors"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// statusFor maps an error category onto an HTTP status.
func statusFor(err error) int {
	switch apperrors.Kind(err) {
	case "invalid_input", "unrecognized_country":
		return http.StatusBadRequest
	case "rate_not_found":
		return http.StatusNotFound
	case "rate_fetch":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	lg := loggerFrom(c)
	if status >= http.StatusInternalServerError {
		lg.Error("request failed", zap.Error(err))
	} else {
		lg.Warn("request rejected", zap.Error(err))
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: err.Error(), Kind: apperrors.Kind(err)})
}
