package dashboard

import (
	"context"
	"fmt"

	"aesthetx/internal/models"
	"aesthetx/internal/repositories"
	"aesthetx/internal/services/trending"
)

const trendingOnDashboard = 5

type Service interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

type service struct {
	productRepo repositories.ProductRepository
	orderRepo   repositories.OrderRepository
	userRepo    repositories.UserRepository
	viewRepo    repositories.ViewRepository
	trending    trending.Service
}

func NewService(
	productRepo repositories.ProductRepository,
	orderRepo repositories.OrderRepository,
	userRepo repositories.UserRepository,
	viewRepo repositories.ViewRepository,
	trendingSvc trending.Service,
) Service {
	return &service{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		viewRepo:    viewRepo,
		trending:    trendingSvc,
	}
}

func (s *service) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var (
		stats models.DashboardStats
		err   error
	)

	if stats.Products, err = s.productRepo.Totals(ctx); err != nil {
		return nil, fmt.Errorf("product totals: %w", err)
	}
	if stats.Orders, err = s.orderRepo.Totals(ctx); err != nil {
		return nil, fmt.Errorf("order totals: %w", err)
	}
	if stats.Users, err = s.userRepo.Totals(ctx); err != nil {
		return nil, fmt.Errorf("user totals: %w", err)
	}
	if stats.Views.Total, err = s.viewRepo.CountActive(ctx); err != nil {
		return nil, fmt.Errorf("view totals: %w", err)
	}
	if stats.Trending, err = s.trending.MostViewed(ctx, "", trendingOnDashboard); err != nil {
		return nil, fmt.Errorf("trending products: %w", err)
	}
	return &stats, nil
}
