package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/expense_fx_engine/internal/core/ports/services"
	"github.com/SscSPs/expense_fx_engine/internal/dto"
	"github.com/SscSPs/expense_fx_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests that resolve exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

func newExchangeRateHandler(ers portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{
		exchangeRateService: ers,
	}
}

// RegisterExchangeRateRoutes registers routes related to rate resolution.
func RegisterExchangeRateRoutes(rg *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(exchangeRateService)

	exchangeRates := rg.Group("/exchange-rates")
	{
		exchangeRates.GET("/batch/:target", h.resolveBatch)
		exchangeRates.GET("/:from/:to", h.resolveRate)
	}
}

// resolveRate godoc
// @Summary Resolve an exchange rate
// @Description Resolves the rate for 1 unit of from in to, for the month containing date
// @Tags exchange rates
// @Produce  json
// @Param   from path string true "From Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Param   to   path string true "To Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Param   date query string false "Reference date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.ResolvedRateResponse
// @Failure 400 {object} map[string]string "Invalid currency code or date"
// @Failure 404 {object} map[string]string "No rate available for the period"
// @Failure 409 {object} map[string]string "Fallback rule chain is cyclic or too deep"
// @Failure 503 {object} map[string]string "Market rate provider unavailable"
// @Security BearerAuth
// @Router /exchange-rates/{from}/{to} [get]
func (h *exchangeRateHandler) resolveRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _, ok := callerFromContext(c, logger)
	if !ok {
		return
	}

	date, err := parseDateQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted as YYYY-MM-DD"})
		return
	}

	fromCode, toCode := c.Param("from"), c.Param("to")
	logger = logger.With(slog.String("from", fromCode), slog.String("to", toCode))

	rate, err := h.exchangeRateService.ResolveRate(c.Request.Context(), tenantID, fromCode, toCode, date)
	if err != nil {
		respondError(c, logger, err, "Failed to resolve exchange rate")
		return
	}

	logger.Debug("Exchange rate resolved", slog.String("source", string(rate.Source)))
	c.JSON(http.StatusOK, dto.ToResolvedRateResponse(rate))
}

// resolveBatch godoc
// @Summary Resolve rates into a target currency
// @Description Resolves every system currency and every currency with a manual rate into target. Entries that fail carry rate 1 and source "error".
// @Tags exchange rates
// @Produce  json
// @Param   target path string true "Target Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Param   date query string false "Reference date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.BatchRatesResponse
// @Failure 400 {object} map[string]string "Invalid currency code or date"
// @Failure 500 {object} map[string]string "Failed to resolve batch"
// @Security BearerAuth
// @Router /exchange-rates/batch/{target} [get]
func (h *exchangeRateHandler) resolveBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _, ok := callerFromContext(c, logger)
	if !ok {
		return
	}

	date, err := parseDateQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted as YYYY-MM-DD"})
		return
	}

	target := c.Param("target")
	logger = logger.With(slog.String("target", target))

	result, err := h.exchangeRateService.ResolveBatch(c.Request.Context(), tenantID, target, date)
	if err != nil {
		respondError(c, logger, err, "Failed to resolve batch")
		return
	}

	logger.Info("Batch resolved", slog.Int("entries", len(result.Rates)))
	c.JSON(http.StatusOK, dto.ToBatchRatesResponse(result))
}
