package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/expense_fx_engine/internal/apperrors"
	"github.com/SscSPs/expense_fx_engine/internal/core/domain"
	"github.com/SscSPs/expense_fx_engine/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/expense_fx_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_fx_engine/internal/core/ports/services"
	"github.com/SscSPs/expense_fx_engine/internal/dto"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ruleService implements the RuleSvcFacade interface
type ruleService struct {
	BaseService
	ruleRepo portsrepo.RuleRepositoryFacade
	registry portssvc.CurrencySvcFacade
	validate *validator.Validate
	now      func() time.Time
}

// RuleServiceOption is a functional option for configuring the rule service
type RuleServiceOption func(*ruleService)

// WithRuleAuthorizer adds the authorization gate consulted on writes
func WithRuleAuthorizer(gate gateways.AuthorizationGate) RuleServiceOption {
	return func(s *ruleService) {
		s.Authorizer = gate
	}
}

// WithRuleClock overrides time.Now
func WithRuleClock(now func() time.Time) RuleServiceOption {
	return func(s *ruleService) {
		s.now = now
	}
}

// NewRuleService creates a new rule service with the provided options
func NewRuleService(repo portsrepo.RuleRepositoryFacade, registry portssvc.CurrencySvcFacade, options ...RuleServiceOption) portssvc.RuleSvcFacade {
	svc := &ruleService{
		ruleRepo: repo,
		registry: registry,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.RuleSvcFacade = (*ruleService)(nil)

func (s *ruleService) ListRules(ctx context.Context, tenantID string, status *domain.RuleStatus) ([]domain.ExchangeRateRule, error) {
	if status != nil && !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown rule status %q", apperrors.ErrValidation, *status)
	}

	rules, err := s.ruleRepo.ListRules(ctx, tenantID, status)
	if err != nil {
		s.LogError(ctx, err, "Failed to list rules", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}

	visible := rules[:0]
	for _, rule := range rules {
		if rule.VisibleTo(tenantID) {
			visible = append(visible, rule)
		}
	}
	SortRules(visible)
	return visible, nil
}

func (s *ruleService) CreateRule(ctx context.Context, tenantID string, req dto.CreateRuleRequest, userID string) (*domain.ExchangeRateRule, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	if req.Global {
		if err := s.AuthorizeGlobalRuleAdmin(ctx, userID); err != nil {
			s.LogError(ctx, err, "User not authorized to create global rule", slog.String("user_id", userID))
			return nil, err
		}
	} else if err := s.AuthorizeRateAdmin(ctx, tenantID, userID); err != nil {
		s.LogError(ctx, err, "User not authorized to create rule",
			slog.String("user_id", userID),
			slog.String("tenant_id", tenantID))
		return nil, err
	}

	currencies, err := s.normalizeCurrencies(req.Currencies)
	if err != nil {
		return nil, err
	}

	if req.EffectiveTo != nil && req.EffectiveTo.Before(req.EffectiveFrom) {
		return nil, fmt.Errorf("%w: effectiveTo must not be earlier than effectiveFrom", apperrors.ErrValidation)
	}

	fixedRates, err := s.normalizeFixedRates(req)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = domain.RuleStatusActive
	}

	if req.FallbackRuleID != nil {
		if _, err := s.ruleRepo.FindRuleByID(ctx, *req.FallbackRuleID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: fallback rule %s does not exist", apperrors.ErrValidation, *req.FallbackRuleID)
			}
			return nil, fmt.Errorf("failed to check fallback rule: %w", err)
		}
	}

	now := s.now()
	rule := domain.ExchangeRateRule{
		RuleID:         uuid.NewString(),
		Description:    strings.TrimSpace(req.Description),
		Source:         req.Source,
		Currencies:     currencies,
		FixedRates:     fixedRates,
		EffectiveFrom:  req.EffectiveFrom,
		EffectiveTo:    req.EffectiveTo,
		FallbackRuleID: req.FallbackRuleID,
		Status:         status,
		Priority:       req.Priority,
		AuditFields:    domain.NewAuditFields(userID, now),
	}
	if !req.Global {
		owner := tenantID
		rule.TenantID = &owner
	}

	if err := s.ruleRepo.SaveRule(ctx, rule); err != nil {
		s.LogError(ctx, err, "Failed to save rule", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to create rule: %w", err)
	}

	s.LogInfo(ctx, "Exchange rate rule created",
		slog.String("rule_id", rule.RuleID),
		slog.String("tenant_id", tenantID),
		slog.String("source", string(rule.Source)),
		slog.Bool("global", req.Global))
	return &rule, nil
}

func (s *ruleService) ArchiveRule(ctx context.Context, tenantID, ruleID, userID string) (*domain.ExchangeRateRule, error) {
	rule, err := s.ruleRepo.FindRuleByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	if !rule.VisibleTo(tenantID) {
		// other tenants' rules are indistinguishable from missing ones
		return nil, apperrors.NewNotFoundError("rule " + ruleID)
	}

	if rule.IsGlobal() {
		err = s.AuthorizeGlobalRuleAdmin(ctx, userID)
	} else {
		err = s.AuthorizeRateAdmin(ctx, tenantID, userID)
	}
	if err != nil {
		s.LogError(ctx, err, "User not authorized to archive rule",
			slog.String("user_id", userID),
			slog.String("rule_id", ruleID))
		return nil, err
	}

	if rule.Status == domain.RuleStatusArchived {
		return rule, nil
	}

	now := s.now()
	if err := s.ruleRepo.UpdateRuleStatus(ctx, ruleID, domain.RuleStatusArchived, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to archive rule", slog.String("rule_id", ruleID))
		return nil, fmt.Errorf("failed to archive rule: %w", err)
	}

	rule.Status = domain.RuleStatusArchived
	rule.Touch(userID, now)
	return rule, nil
}

func (s *ruleService) normalizeCurrencies(raw []string) ([]string, error) {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, c := range raw {
		code, err := s.registry.NormalizeCode(c)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out, nil
}

// normalizeFixedRates requires a positive rate for every "FROM/TO" key of a fixed rule and
// drops the map for other sources.
func (s *ruleService) normalizeFixedRates(req dto.CreateRuleRequest) (map[string]decimal.Decimal, error) {
	if req.Source != domain.RuleSourceFixed {
		return nil, nil
	}
	if len(req.FixedRates) == 0 {
		return nil, fmt.Errorf("%w: fixedRates are required for fixed rules", apperrors.ErrValidation)
	}

	out := make(map[string]decimal.Decimal, len(req.FixedRates))
	for pair, rate := range req.FixedRates {
		from, to, ok := strings.Cut(pair, "/")
		if !ok {
			return nil, fmt.Errorf("%w: fixed rate key %q must look like FROM/TO", apperrors.ErrValidation, pair)
		}
		fromCode, errFrom := s.registry.NormalizeCode(from)
		toCode, errTo := s.registry.NormalizeCode(to)
		if errFrom != nil || errTo != nil {
			return nil, fmt.Errorf("%w: fixed rate key %q has an invalid currency code", apperrors.ErrValidation, pair)
		}
		if fromCode == toCode {
			return nil, fmt.Errorf("%w: fixed rate key %q converts a currency to itself", apperrors.ErrValidation, pair)
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("%w: fixed rate for %s must be positive", apperrors.ErrValidation, pair)
		}
		out[domain.PairKey(fromCode, toCode)] = rate
	}
	return out, nil
}
