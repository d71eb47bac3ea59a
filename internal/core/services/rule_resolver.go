package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/expense_fx_engine/internal/apperrors"
	"github.com/SscSPs/expense_fx_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_fx_engine/internal/core/ports/repositories"
)

// DefaultFallbackMaxDepth caps the number of fallback hops followed from the selected rule.
const DefaultFallbackMaxDepth = 10

// CompareRules orders rules by precedence: priority ascending, tenant rules before global
// ones, newer before older, then rule id. It returns a negative number when a comes first.
func CompareRules(a, b *domain.ExchangeRateRule) int {
	if a.Priority != b.Priority {
		if a.Priority < b.Priority {
			return -1
		}
		return 1
	}
	if a.IsGlobal() != b.IsGlobal() {
		if !a.IsGlobal() {
			return -1
		}
		return 1
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	}
	return strings.Compare(a.RuleID, b.RuleID)
}

// SortRules sorts rules in place using CompareRules.
func SortRules(rules []domain.ExchangeRateRule) {
	slices.SortStableFunc(rules, func(a, b domain.ExchangeRateRule) int {
		return CompareRules(&a, &b)
	})
}

// RuleResolver picks the governing rule for a pair and walks its fallback chain.
type RuleResolver struct {
	BaseService
	ruleRepo portsrepo.RuleReader
	maxDepth int
}

// NewRuleResolver creates a resolver. A non-positive maxDepth uses DefaultFallbackMaxDepth.
func NewRuleResolver(ruleRepo portsrepo.RuleReader, maxDepth int) *RuleResolver {
	if maxDepth <= 0 {
		maxDepth = DefaultFallbackMaxDepth
	}
	return &RuleResolver{ruleRepo: ruleRepo, maxDepth: maxDepth}
}

// SelectRule returns the highest-precedence active rule governing from or to on date.
// It fails with apperrors.ErrRuleNotFound when there is no candidate.
func (r *RuleResolver) SelectRule(ctx context.Context, tenantID, from, to string, date time.Time) (*domain.ExchangeRateRule, error) {
	codes := []string{from}
	if to != from {
		codes = append(codes, to)
	}

	seen := make(map[string]struct{})
	var candidates []domain.ExchangeRateRule
	for _, code := range codes {
		rules, err := r.ruleRepo.FindCandidateRules(ctx, tenantID, code, date)
		if err != nil {
			r.LogError(ctx, err, "Failed to load candidate rules",
				slog.String("tenant_id", tenantID),
				slog.String("currency", code))
			return nil, fmt.Errorf("failed to load candidate rules for %s: %w", code, err)
		}
		for _, rule := range rules {
			if _, dup := seen[rule.RuleID]; dup {
				continue
			}
			seen[rule.RuleID] = struct{}{}
			// the store narrows the set; the predicate here is authoritative
			if !rule.Applies(tenantID, from, to, date) {
				continue
			}
			candidates = append(candidates, rule)
		}
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no active rule for %s/%s on %s", apperrors.ErrRuleNotFound, from, to, date.Format(time.DateOnly))
	}

	SortRules(candidates)
	selected := candidates[0]
	r.LogDebug(ctx, "Selected exchange rate rule",
		slog.String("rule_id", selected.RuleID),
		slog.Int("candidates", len(candidates)))
	return &selected, nil
}

// FallbackTraversal tracks one walk along a fallback chain.
type FallbackTraversal struct {
	tenantID string
	date     time.Time
	visited  map[string]struct{}
	hops     int
	maxDepth int
}

// NewTraversal starts a walk at start, which counts as visited.
func (r *RuleResolver) NewTraversal(tenantID string, date time.Time, start *domain.ExchangeRateRule) *FallbackTraversal {
	return &FallbackTraversal{
		tenantID: tenantID,
		date:     date,
		visited:  map[string]struct{}{start.RuleID: {}},
		maxDepth: r.maxDepth,
	}
}

// Hops returns how many fallback references have been followed.
func (t *FallbackTraversal) Hops() int {
	return t.hops
}

// Usable reports whether a rule reached in the walk may produce a rate. Unusable rules are
// skipped but their own fallback is still followed.
func (t *FallbackTraversal) Usable(rule *domain.ExchangeRateRule) bool {
	return rule.Status == domain.RuleStatusActive &&
		rule.VisibleTo(t.tenantID) &&
		rule.EffectiveOn(t.date)
}

// Next loads the rule that current falls back to. A nil rule with a nil error means the
// chain has ended.
func (r *RuleResolver) Next(ctx context.Context, t *FallbackTraversal, current *domain.ExchangeRateRule) (*domain.ExchangeRateRule, error) {
	if current.FallbackRuleID == nil || *current.FallbackRuleID == "" {
		return nil, nil
	}
	nextID := *current.FallbackRuleID

	if _, ok := t.visited[nextID]; ok {
		return nil, fmt.Errorf("%w: rule %s falls back to already visited rule %s", apperrors.ErrFallbackCycleDetected, current.RuleID, nextID)
	}
	if t.hops >= t.maxDepth {
		return nil, fmt.Errorf("%w: more than %d hops from rule %s", apperrors.ErrFallbackChainTooDeep, t.maxDepth, current.RuleID)
	}
	t.hops++
	t.visited[nextID] = struct{}{}

	next, err := r.ruleRepo.FindRuleByID(ctx, nextID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			r.LogWarn(ctx, "Fallback rule does not exist, ending chain",
				slog.String("rule_id", current.RuleID),
				slog.String("fallback_rule_id", nextID))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load fallback rule %s: %w", nextID, err)
	}
	return next, nil
}
