package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/expense_fx_engine/internal/apperrors"
	"github.com/SscSPs/expense_fx_engine/internal/core/domain"
	"github.com/SscSPs/expense_fx_engine/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

func TestCompareRules(t *testing.T) {
	tenant := strPtr("t1")
	older := newRule("b", tenant, 1, "USD")
	newer := newRule("c", tenant, 1, "USD")
	newer.CreatedAt = older.CreatedAt.Add(time.Hour)

	tests := []struct {
		name  string
		first domain.ExchangeRateRule
		then  domain.ExchangeRateRule
	}{
		{name: "lower priority value first", first: newRule("z", nil, 1, "USD"), then: newRule("a", tenant, 2, "USD")},
		{name: "tenant before global", first: newRule("z", tenant, 1, "USD"), then: newRule("a", nil, 1, "USD")},
		{name: "newer before older", first: newer, then: older},
		{name: "rule id breaks full ties", first: newRule("a", tenant, 1, "USD"), then: newRule("b", tenant, 1, "USD")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Negative(t, services.CompareRules(&tt.first, &tt.then))
			assert.Positive(t, services.CompareRules(&tt.then, &tt.first))
		})
	}

	same := newRule("a", tenant, 1, "USD")
	assert.Zero(t, services.CompareRules(&same, &same))
}

func TestSortRules(t *testing.T) {
	tenant := strPtr("t1")
	newest := newRule("n", tenant, 1, "USD")
	newest.CreatedAt = newest.CreatedAt.Add(24 * time.Hour)

	rules := []domain.ExchangeRateRule{
		newRule("g", nil, 1, "USD"),
		newRule("low", tenant, 5, "USD"),
		newRule("b", tenant, 1, "USD"),
		newest,
		newRule("a", tenant, 1, "USD"),
	}
	services.SortRules(rules)

	ids := make([]string, len(rules))
	for i, r := range rules {
		ids[i] = r.RuleID
	}
	assert.Equal(t, []string{"n", "a", "b", "g", "low"}, ids)
}

// --- Test Suite ---
type RuleResolverTestSuite struct {
	suite.Suite
	mockRuleRepo *MockRuleRepository
	resolver     *services.RuleResolver
	ctx          context.Context
	date         time.Time
}

func (suite *RuleResolverTestSuite) SetupTest() {
	suite.mockRuleRepo = new(MockRuleRepository)
	suite.resolver = services.NewRuleResolver(suite.mockRuleRepo, 3)
	suite.ctx = context.Background()
	suite.date = day("2024-03-15")
}

func (suite *RuleResolverTestSuite) candidates(code string, rules ...domain.ExchangeRateRule) {
	suite.mockRuleRepo.On("FindCandidateRules", mock.Anything, "t1", code, suite.date).Return(rules, nil).Once()
}

func (suite *RuleResolverTestSuite) TestSelectRule_PriorityWins() {
	p1 := newRule("p1", strPtr("t1"), 1, "USD", "EUR")
	p2 := newRule("p2", strPtr("t1"), 2, "USD", "EUR")
	suite.candidates("USD", p2, p1)
	suite.candidates("EUR", p1, p2)

	rule, err := suite.resolver.SelectRule(suite.ctx, "t1", "USD", "EUR", suite.date)

	suite.Require().NoError(err)
	suite.Equal("p1", rule.RuleID)
	suite.mockRuleRepo.AssertExpectations(suite.T())
}

func (suite *RuleResolverTestSuite) TestSelectRule_TenantBeatsGlobalAtEqualPriority() {
	global := newRule("global", nil, 1, "USD")
	tenant := newRule("tenant", strPtr("t1"), 1, "USD")
	global.CreatedAt = tenant.CreatedAt.Add(time.Hour)
	suite.candidates("USD", global, tenant)
	suite.candidates("EUR")

	rule, err := suite.resolver.SelectRule(suite.ctx, "t1", "USD", "EUR", suite.date)

	suite.Require().NoError(err)
	suite.Equal("tenant", rule.RuleID)
}

func (suite *RuleResolverTestSuite) TestSelectRule_IgnoresInapplicableRows() {
	archived := newRule("archived", strPtr("t1"), 0, "USD")
	archived.Status = domain.RuleStatusArchived
	otherTenant := newRule("other", strPtr("t2"), 0, "USD")
	expired := newRule("expired", strPtr("t1"), 0, "USD")
	expired.EffectiveTo = timePtr(day("2024-02-29"))
	usable := newRule("usable", nil, 5, "USD")
	suite.candidates("USD", archived, otherTenant, expired, usable)
	suite.candidates("EUR")

	rule, err := suite.resolver.SelectRule(suite.ctx, "t1", "USD", "EUR", suite.date)

	suite.Require().NoError(err)
	suite.Equal("usable", rule.RuleID)
}

func (suite *RuleResolverTestSuite) TestSelectRule_NotFound() {
	suite.candidates("THB")
	suite.candidates("USD")

	rule, err := suite.resolver.SelectRule(suite.ctx, "t1", "THB", "USD", suite.date)

	suite.Nil(rule)
	suite.ErrorIs(err, apperrors.ErrRuleNotFound)
}

func (suite *RuleResolverTestSuite) TestSelectRule_RepositoryError() {
	suite.mockRuleRepo.On("FindCandidateRules", mock.Anything, "t1", "USD", suite.date).Return(nil, fmt.Errorf("connection reset")).Once()

	_, err := suite.resolver.SelectRule(suite.ctx, "t1", "USD", "EUR", suite.date)

	suite.Error(err)
	suite.NotErrorIs(err, apperrors.ErrRuleNotFound)
}

func (suite *RuleResolverTestSuite) TestNext_FollowsChainToEnd() {
	a := newRule("a", strPtr("t1"), 1, "USD")
	a.FallbackRuleID = strPtr("b")
	b := newRule("b", strPtr("t1"), 1, "USD")
	suite.mockRuleRepo.On("FindRuleByID", mock.Anything, "b").Return(&b, nil).Once()

	traversal := suite.resolver.NewTraversal("t1", suite.date, &a)
	next, err := suite.resolver.Next(suite.ctx, traversal, &a)
	suite.Require().NoError(err)
	suite.Equal("b", next.RuleID)
	suite.Equal(1, traversal.Hops())

	end, err := suite.resolver.Next(suite.ctx, traversal, next)
	suite.NoError(err)
	suite.Nil(end)
}

func (suite *RuleResolverTestSuite) TestNext_DetectsCycle() {
	a := newRule("a", strPtr("t1"), 1, "USD")
	a.FallbackRuleID = strPtr("b")
	b := newRule("b", strPtr("t1"), 1, "USD")
	b.FallbackRuleID = strPtr("a")
	suite.mockRuleRepo.On("FindRuleByID", mock.Anything, "b").Return(&b, nil).Once()

	traversal := suite.resolver.NewTraversal("t1", suite.date, &a)
	next, err := suite.resolver.Next(suite.ctx, traversal, &a)
	suite.Require().NoError(err)

	_, err = suite.resolver.Next(suite.ctx, traversal, next)
	suite.ErrorIs(err, apperrors.ErrFallbackCycleDetected)
}

func (suite *RuleResolverTestSuite) TestNext_SelfReferenceIsACycle() {
	a := newRule("a", strPtr("t1"), 1, "USD")
	a.FallbackRuleID = strPtr("a")

	traversal := suite.resolver.NewTraversal("t1", suite.date, &a)
	_, err := suite.resolver.Next(suite.ctx, traversal, &a)

	suite.ErrorIs(err, apperrors.ErrFallbackCycleDetected)
	suite.mockRuleRepo.AssertNotCalled(suite.T(), "FindRuleByID", mock.Anything, mock.Anything)
}

func (suite *RuleResolverTestSuite) TestNext_DepthCap() {
	// max depth is 3: r0 -> r1 -> r2 -> r3 is allowed, r3 -> r4 is not
	rules := make([]domain.ExchangeRateRule, 5)
	for i := range rules {
		rules[i] = newRule(fmt.Sprintf("r%d", i), strPtr("t1"), 1, "USD")
		if i < len(rules)-1 {
			rules[i].FallbackRuleID = strPtr(fmt.Sprintf("r%d", i+1))
		}
	}
	for i := 1; i < len(rules); i++ {
		suite.mockRuleRepo.On("FindRuleByID", mock.Anything, rules[i].RuleID).Return(&rules[i], nil).Maybe()
	}

	traversal := suite.resolver.NewTraversal("t1", suite.date, &rules[0])
	current := &rules[0]
	var err error
	for i := 0; i < 3; i++ {
		current, err = suite.resolver.Next(suite.ctx, traversal, current)
		suite.Require().NoError(err)
	}
	suite.Equal("r3", current.RuleID)

	_, err = suite.resolver.Next(suite.ctx, traversal, current)
	suite.ErrorIs(err, apperrors.ErrFallbackChainTooDeep)
}

func (suite *RuleResolverTestSuite) TestNext_MissingFallbackEndsChain() {
	a := newRule("a", strPtr("t1"), 1, "USD")
	a.FallbackRuleID = strPtr("gone")
	suite.mockRuleRepo.On("FindRuleByID", mock.Anything, "gone").Return(nil, apperrors.NewNotFoundError("rule gone")).Once()

	traversal := suite.resolver.NewTraversal("t1", suite.date, &a)
	next, err := suite.resolver.Next(suite.ctx, traversal, &a)

	suite.NoError(err)
	suite.Nil(next)
}

func (suite *RuleResolverTestSuite) TestTraversal_Usable() {
	start := newRule("a", strPtr("t1"), 1, "USD")
	traversal := suite.resolver.NewTraversal("t1", suite.date, &start)

	draft := newRule("draft", strPtr("t1"), 1, "USD")
	draft.Status = domain.RuleStatusDraft
	foreign := newRule("foreign", strPtr("t2"), 1, "USD")
	future := newRule("future", nil, 1, "USD")
	future.EffectiveFrom = day("2024-04-01")
	// a fallback does not need to govern the pair itself
	unrelated := newRule("unrelated", nil, 1, "JPY")

	suite.False(traversal.Usable(&draft))
	suite.False(traversal.Usable(&foreign))
	suite.False(traversal.Usable(&future))
	suite.True(traversal.Usable(&unrelated))
}

func TestRuleResolverTestSuite(t *testing.T) {
	suite.Run(t, new(RuleResolverTestSuite))
}
