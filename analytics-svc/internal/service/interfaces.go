package service

import (
	"context"

	"github.com/nazarkrivolesov/kitchen-2.0/analytics-svc/internal/domain"
	"github.com/nazarkrivolesov/kitchen-2.0/analytics-svc/internal/storage"
)

type AnalyticsInterface interface {
	TopDishes(ctx context.Context, query domain.TopQuery) ([]domain.DishStat, error)
	Summary(ctx context.Context, date string) (*domain.Summary, error)
}

type DishNameResolver interface {
	DishNames(ctx context.Context, ids []string) (map[string]string, error)
}

var (
	_ AnalyticsInterface = (*AnalyticsService)(nil)
	_ DishNameResolver   = (*storage.PostgresDishNames)(nil)
)
