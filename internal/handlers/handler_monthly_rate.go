package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/expense_fx_engine/internal/core/domain"
	portssvc "github.com/SscSPs/expense_fx_engine/internal/core/ports/services"
	"github.com/SscSPs/expense_fx_engine/internal/dto"
	"github.com/SscSPs/expense_fx_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// monthlyRateHandler handles HTTP requests for cached and manual monthly rates.
type monthlyRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

// RegisterMonthlyRateRoutes registers routes related to monthly rates.
func RegisterMonthlyRateRoutes(rg *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvcFacade) {
	h := &monthlyRateHandler{exchangeRateService: exchangeRateService}

	monthlyRates := rg.Group("/monthly-rates")
	{
		monthlyRates.GET("", h.listMonthlyRates)
		monthlyRates.PUT("", h.saveManualRate)
	}
}

// listMonthlyRates godoc
// @Summary List monthly rates
// @Description Lists the tenant's manual and calculated rates and the shared market rates for a month
// @Tags monthly rates
// @Produce  json
// @Param   yearMonth query string true "Month (YYYY-MM)"
// @Success 200 {array} dto.MonthlyRateResponse
// @Failure 400 {object} map[string]string "Invalid month"
// @Security BearerAuth
// @Router /monthly-rates [get]
func (h *monthlyRateHandler) listMonthlyRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _, ok := callerFromContext(c, logger)
	if !ok {
		return
	}

	ym, err := domain.ParseYearMonth(c.Query("yearMonth"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "yearMonth must be formatted as YYYY-MM"})
		return
	}

	rates, err := h.exchangeRateService.ListMonthlyRates(c.Request.Context(), tenantID, ym)
	if err != nil {
		respondError(c, logger, err, "Failed to list monthly rates")
		return
	}
	c.JSON(http.StatusOK, dto.ToListMonthlyRateResponse(rates))
}

// saveManualRate godoc
// @Summary Save a manual monthly rate
// @Description Inserts or replaces the tenant's manual rate for a currency pair and month
// @Tags monthly rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.SaveManualRateRequest true "Manual rate"
// @Success 200 {object} dto.MonthlyRateResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to save manual rate"
// @Security BearerAuth
// @Router /monthly-rates [put]
func (h *monthlyRateHandler) saveManualRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerFromContext(c, logger)
	if !ok {
		return
	}

	var req dto.SaveManualRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SaveManualRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	saved, err := h.exchangeRateService.SaveManualRate(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to save manual rate")
		return
	}

	logger.Info("Manual rate saved",
		slog.String("from", saved.FromCurrency),
		slog.String("to", saved.ToCurrency),
		slog.String("year_month", saved.YearMonth.String()))
	c.JSON(http.StatusOK, dto.ToMonthlyRateResponse(saved))
}
