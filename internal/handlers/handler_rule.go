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

// ruleHandler handles HTTP requests related to exchange rate rules.
type ruleHandler struct {
	ruleService portssvc.RuleSvcFacade
}

// RegisterRuleRoutes registers routes related to exchange rate rules.
func RegisterRuleRoutes(rg *gin.RouterGroup, ruleService portssvc.RuleSvcFacade) {
	h := &ruleHandler{ruleService: ruleService}

	rules := rg.Group("/rules")
	{
		rules.GET("", h.listRules)
		rules.POST("", h.createRule)
		rules.POST("/:ruleID/archive", h.archiveRule)
	}
}

// listRules godoc
// @Summary List exchange rate rules
// @Description Lists the tenant's rules and global rules in evaluation order
// @Tags rules
// @Produce  json
// @Param   status query string false "Filter by status" Enums(draft, active, archived)
// @Success 200 {array} dto.RuleResponse
// @Failure 400 {object} map[string]string "Unknown status"
// @Security BearerAuth
// @Router /rules [get]
func (h *ruleHandler) listRules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _, ok := callerFromContext(c, logger)
	if !ok {
		return
	}

	var status *domain.RuleStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.RuleStatus(raw)
		status = &s
	}

	rules, err := h.ruleService.ListRules(c.Request.Context(), tenantID, status)
	if err != nil {
		respondError(c, logger, err, "Failed to list rules")
		return
	}
	c.JSON(http.StatusOK, dto.ToListRuleResponse(rules))
}

// createRule godoc
// @Summary Create an exchange rate rule
// @Tags rules
// @Accept  json
// @Produce  json
// @Param   rule body dto.CreateRuleRequest true "Rule details"
// @Success 201 {object} dto.RuleResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to create rule"
// @Security BearerAuth
// @Router /rules [post]
func (h *ruleHandler) createRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerFromContext(c, logger)
	if !ok {
		return
	}

	var req dto.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	rule, err := h.ruleService.CreateRule(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create rule")
		return
	}
	c.JSON(http.StatusCreated, dto.ToRuleResponse(rule))
}

// archiveRule godoc
// @Summary Archive an exchange rate rule
// @Description Rules are never deleted; archiving removes them from resolution
// @Tags rules
// @Produce  json
// @Param   ruleID path string true "Rule ID"
// @Success 200 {object} dto.RuleResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Rule not found"
// @Security BearerAuth
// @Router /rules/{ruleID}/archive [post]
func (h *ruleHandler) archiveRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerFromContext(c, logger)
	if !ok {
		return
	}

	ruleID := c.Param("ruleID")
	rule, err := h.ruleService.ArchiveRule(c.Request.Context(), tenantID, ruleID, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("rule_id", ruleID)), err, "Failed to archive rule")
		return
	}
	c.JSON(http.StatusOK, dto.ToRuleResponse(rule))
}
