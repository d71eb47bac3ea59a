package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/expense_fx_engine/internal/apperrors"
	"github.com/SscSPs/expense_fx_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusForError maps service errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidCurrencyCode):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrFallbackCycleDetected), errors.Is(err, apperrors.ErrFallbackChainTooDeep):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrRateUnavailableForPeriod),
		errors.Is(err, apperrors.ErrRuleNotFound),
		errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrProviderUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes it as a JSON error body. 5xx bodies carry fallback only.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()), slog.Int("status", status))
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	logger.Warn(fallback, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, gin.H{"error": err.Error()})
}

// parseDateQuery reads an optional YYYY-MM-DD "date" query parameter.
func parseDateQuery(c *gin.Context) (*time.Time, error) {
	raw := c.Query("date")
	if raw == "" {
		return nil, nil
	}
	date, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

// callerFromContext returns the authenticated tenant and user, aborting with 401 when missing.
func callerFromContext(c *gin.Context, logger *slog.Logger) (tenantID, userID string, ok bool) {
	userID, userOK := middleware.GetUserIDFromContext(c)
	tenantID, tenantOK := middleware.GetTenantIDFromContext(c)
	if !userOK || !tenantOK {
		logger.Error("Caller identity not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", "", false
	}
	return tenantID, userID, true
}
