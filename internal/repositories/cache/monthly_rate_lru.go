package cache

import (
	"context"
	"fmt"

	"github.com/SscSPs/expense_fx_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_fx_engine/internal/core/ports/repositories"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize is the number of rows kept when no size is configured.
const DefaultSize = 4096

// MonthlyRateLRU keeps market rows in memory in front of another repository.
// Only api rows are cached: they are write-once, so a cached row never goes stale.
type MonthlyRateLRU struct {
	next  portsrepo.MonthlyRateRepositoryFacade
	cache *lru.Cache[domain.MonthlyRateKey, domain.MonthlyExchangeRate]
}

var _ portsrepo.MonthlyRateRepositoryFacade = (*MonthlyRateLRU)(nil)

// NewMonthlyRateLRU wraps next with an LRU of the given size.
func NewMonthlyRateLRU(next portsrepo.MonthlyRateRepositoryFacade, size int) (*MonthlyRateLRU, error) {
	if size <= 0 {
		size = DefaultSize
	}
	c, err := lru.New[domain.MonthlyRateKey, domain.MonthlyExchangeRate](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create monthly rate cache: %w", err)
	}
	return &MonthlyRateLRU{next: next, cache: c}, nil
}

func (c *MonthlyRateLRU) FindMonthlyRate(ctx context.Context, key domain.MonthlyRateKey) (*domain.MonthlyExchangeRate, error) {
	if row, ok := c.cache.Get(key); ok {
		return &row, nil
	}
	row, err := c.next.FindMonthlyRate(ctx, key)
	if err != nil {
		return nil, err
	}
	c.remember(*row)
	return row, nil
}

func (c *MonthlyRateLRU) ListMonthlyRates(ctx context.Context, tenantID string, yearMonth domain.YearMonth) ([]domain.MonthlyExchangeRate, error) {
	return c.next.ListMonthlyRates(ctx, tenantID, yearMonth)
}

func (c *MonthlyRateLRU) ListManualFromCurrencies(ctx context.Context, tenantID string, yearMonth domain.YearMonth) ([]string, error) {
	return c.next.ListManualFromCurrencies(ctx, tenantID, yearMonth)
}

func (c *MonthlyRateLRU) InsertMonthlyRateIfAbsent(ctx context.Context, rate domain.MonthlyExchangeRate) (*domain.MonthlyExchangeRate, bool, error) {
	stored, inserted, err := c.next.InsertMonthlyRateIfAbsent(ctx, rate)
	if err != nil {
		return nil, false, err
	}
	c.remember(*stored)
	return stored, inserted, nil
}

func (c *MonthlyRateLRU) UpsertMonthlyRate(ctx context.Context, rate domain.MonthlyExchangeRate) error {
	c.cache.Remove(rate.Key())
	return c.next.UpsertMonthlyRate(ctx, rate)
}

// Len reports the number of cached rows.
func (c *MonthlyRateLRU) Len() int {
	return c.cache.Len()
}

func (c *MonthlyRateLRU) remember(row domain.MonthlyExchangeRate) {
	if row.Source != domain.RateSourceAPI {
		return
	}
	c.cache.Add(row.Key(), row)
}
