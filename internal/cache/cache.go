package cache

import (
	"context"
	"time"

	"dapurbooks/backend/internal/domain"
)

type SummaryCache interface {
	Get(ctx context.Context, year int) (*domain.FinancialSummary, bool, error)
	Set(ctx context.Context, summary *domain.FinancialSummary, ttl time.Duration) error
	Invalidate(ctx context.Context, year int) error
}

type NoopSummaryCache struct{}

func (NoopSummaryCache) Get(_ context.Context, _ int) (*domain.FinancialSummary, bool, error) {
	return nil, false, nil
}

func (NoopSummaryCache) Set(_ context.Context, _ *domain.FinancialSummary, _ time.Duration) error {
	return nil
}

func (NoopSummaryCache) Invalidate(_ context.Context, _ int) error {
	return nil
}
