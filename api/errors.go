package api

import (
	"errors"
	"net/http"

	"github.com/gilby125/weekend-trip-api/db"
	"github.com/gilby125/weekend-trip-api/pkg/dates"
	"github.com/gilby125/weekend-trip-api/pkg/logger"
	"github.com/gilby125/weekend-trip-api/pkg/presets"
	"github.com/gin-gonic/gin"
)

// respondError maps domain errors to status codes. Unexpected errors are
// logged and hidden behind a generic message.
func respondError(c *gin.Context, err error) {
	var invalidDate *dates.InvalidDateError
	var invalidSearch *db.ValidationError

	switch {
	case errors.As(err, &invalidDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidDate.Error(), "field": "reference"})
	case errors.As(err, &invalidSearch):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidSearch.Reason, "field": invalidSearch.Field})
	case errors.Is(err, presets.ErrUnknownPreset):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": "presets"})
	case errors.Is(err, presets.ErrNoDatedPreset):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "field": "presets"})
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		_ = c.Error(err)
		logger.WithContext(c.Request.Context()).Error(err, "Request failed", "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
