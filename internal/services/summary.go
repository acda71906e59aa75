package services

import (
	"context"

	"finledger/internal/models"
)

type SummaryGenerator func(ctx context.Context, query models.SummaryQuery) ([]models.SummaryPoint, error)

type SummaryStore interface {
	SumByCategory(ctx context.Context, query models.SummaryQuery) ([]models.SummaryPoint, error)
	SumByDay(ctx context.Context, query models.SummaryQuery) ([]models.SummaryPoint, error)
	SumByMonth(ctx context.Context, query models.SummaryQuery) ([]models.SummaryPoint, error)
	SumByYear(ctx context.Context, query models.SummaryQuery) ([]models.SummaryPoint, error)
}

// SummaryGenerators holds exactly one generator per summary type. It is
// assembled once at startup; a nil field means the type is unsupported.
type SummaryGenerators struct {
	Category SummaryGenerator
	Daily    SummaryGenerator
	Monthly  SummaryGenerator
	Yearly   SummaryGenerator
}

func NewSummaryGenerators(source SummaryStore) SummaryGenerators {
	return SummaryGenerators{
		Category: source.SumByCategory,
		Daily:    source.SumByDay,
		Monthly:  source.SumByMonth,
		Yearly:   source.SumByYear,
	}
}

func (g SummaryGenerators) For(summaryType models.SummaryType) (SummaryGenerator, error) {
	var generator SummaryGenerator
	switch summaryType {
	case models.SummaryCategory:
		generator = g.Category
	case models.SummaryDaily:
		generator = g.Daily
	case models.SummaryMonthly:
		generator = g.Monthly
	case models.SummaryYearly:
		generator = g.Yearly
	}
	if generator == nil {
		return nil, models.ErrUnsupportedSummaryType
	}
	return generator, nil
}
