package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/expense_fx_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_fx_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_fx_engine/internal/core/ports/services"
	"github.com/SscSPs/expense_fx_engine/internal/platform/metrics"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBatchTaskTimeout = 5 * time.Second
	DefaultBatchConcurrency = 8
)

// BatchResolver resolves many currencies into one target concurrently.
// A failing currency is recorded as an error entry and never fails the batch.
type BatchResolver struct {
	BaseService
	engine      RateResolver
	registry    portssvc.CurrencySvcFacade
	rateRepo    portsrepo.MonthlyRateReader
	metrics     *metrics.RateMetrics
	taskTimeout time.Duration
	concurrency int
	now         func() time.Time
}

// BatchOption is a functional option for configuring the batch resolver
type BatchOption func(*BatchResolver)

// WithTaskTimeout bounds each currency's resolution
func WithTaskTimeout(d time.Duration) BatchOption {
	return func(b *BatchResolver) {
		if d > 0 {
			b.taskTimeout = d
		}
	}
}

// WithConcurrency bounds the number of resolutions in flight
func WithConcurrency(n int) BatchOption {
	return func(b *BatchResolver) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithBatchMetrics records per-entry outcomes
func WithBatchMetrics(m *metrics.RateMetrics) BatchOption {
	return func(b *BatchResolver) {
		b.metrics = m
	}
}

// WithBatchClock overrides time.Now
func WithBatchClock(now func() time.Time) BatchOption {
	return func(b *BatchResolver) {
		b.now = now
	}
}

// NewBatchResolver creates a batch resolver with the provided options
func NewBatchResolver(engine RateResolver, registry portssvc.CurrencySvcFacade, rateRepo portsrepo.MonthlyRateReader, options ...BatchOption) *BatchResolver {
	b := &BatchResolver{
		engine:      engine,
		registry:    registry,
		rateRepo:    rateRepo,
		taskTimeout: DefaultBatchTaskTimeout,
		concurrency: DefaultBatchConcurrency,
		now:         time.Now,
	}
	for _, option := range options {
		option(b)
	}
	return b
}

// ResolveAll resolves every system currency and every custom currency with a manual rate
// for the month into target. Only an invalid target or a failure to enumerate the inputs
// fails the call.
func (b *BatchResolver) ResolveAll(ctx context.Context, tenantID, target string, date time.Time) (*domain.BatchResult, error) {
	target, err := b.registry.NormalizeCode(target)
	if err != nil {
		return nil, err
	}
	ym := domain.YearMonthOf(date)

	inputs, err := b.inputCurrencies(ctx, tenantID, target, ym)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.BatchEntry, len(inputs))
	timeout := b.boundedTaskTimeout(ctx)

	var g errgroup.Group
	g.SetLimit(b.concurrency)
	for i, code := range inputs {
		g.Go(func() error {
			entries[i] = b.resolveOne(ctx, tenantID, code, target, date, timeout)
			return nil
		})
	}
	_ = g.Wait() // tasks never return errors

	result := &domain.BatchResult{
		Target:     target,
		YearMonth:  ym,
		Rates:      make(map[string]domain.BatchEntry, len(inputs)),
		ResolvedAt: b.now(),
	}
	failed := 0
	for i, code := range inputs {
		result.Rates[code] = entries[i]
		b.metrics.ObserveBatchEntry(string(entries[i].Source))
		if entries[i].Source == domain.ResolutionError {
			failed++
		}
	}

	b.LogInfo(ctx, "Resolved batch rates",
		slog.String("tenant_id", tenantID),
		slog.String("target", target),
		slog.String("year_month", ym.String()),
		slog.Int("currencies", len(inputs)),
		slog.Int("failed", failed))
	return result, nil
}

func (b *BatchResolver) resolveOne(ctx context.Context, tenantID, from, target string, date time.Time, timeout time.Duration) domain.BatchEntry {
	taskCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rate, err := b.engine.Resolve(taskCtx, tenantID, from, target, date)
	if err == nil {
		// the engine may return after its deadline has passed
		err = taskCtx.Err()
	}
	if err != nil {
		b.LogWarn(ctx, "Batch entry degraded to error",
			slog.String("tenant_id", tenantID),
			slog.String("from", from),
			slog.String("target", target),
			slog.String("error", err.Error()))
		return domain.BatchEntry{Rate: decimal.NewFromInt(1), Source: domain.ResolutionError}
	}
	return domain.BatchEntry{Rate: rate.Rate, Source: rate.Source}
}

// inputCurrencies lists system currencies followed by the month's custom manual currencies,
// without target and without duplicates.
func (b *BatchResolver) inputCurrencies(ctx context.Context, tenantID, target string, ym domain.YearMonth) ([]string, error) {
	custom, err := b.rateRepo.ListManualFromCurrencies(ctx, tenantID, ym)
	if err != nil {
		b.LogError(ctx, err, "Failed to list manual currencies",
			slog.String("tenant_id", tenantID),
			slog.String("year_month", ym.String()))
		return nil, fmt.Errorf("failed to list manual currencies for %s: %w", ym, err)
	}

	system := b.registry.List()
	seen := map[string]struct{}{target: {}}
	inputs := make([]string, 0, len(system)+len(custom))
	add := func(code string) {
		if _, dup := seen[code]; dup {
			return
		}
		seen[code] = struct{}{}
		inputs = append(inputs, code)
	}

	for _, c := range system {
		add(c.CurrencyCode)
	}
	for _, raw := range custom {
		code, err := b.registry.NormalizeCode(raw)
		if err != nil {
			b.LogWarn(ctx, "Skipping malformed manual currency", slog.String("currency", raw))
			continue
		}
		add(code)
	}
	return inputs, nil
}

// boundedTaskTimeout keeps each task's timeout strictly inside the caller's deadline.
func (b *BatchResolver) boundedTaskTimeout(ctx context.Context) time.Duration {
	timeout := b.taskTimeout
	deadline, ok := ctx.Deadline()
	if !ok {
		return timeout
	}
	remaining := time.Until(deadline)
	if remaining <= timeout {
		timeout = remaining * 9 / 10
	}
	if timeout <= 0 {
		timeout = time.Millisecond
	}
	return timeout
}
