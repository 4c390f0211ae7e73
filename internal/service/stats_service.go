package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"storefront/internal/repository"
)

// DashboardStats is the admin dashboard summary. TotalRevenue is always a
// number: a revenue sum over zero orders reads as 0, never null.
type DashboardStats struct {
	TotalUsers    int64           `json:"totalUsers"`
	TotalProducts int64           `json:"totalProducts"`
	TotalOrders   int64           `json:"totalOrders"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
}

// StatsService computes admin dashboard statistics.
type StatsService interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
}

type statsService struct {
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
}

// NewStatsService creates a new stats service.
func NewStatsService(userRepo repository.UserRepository, productRepo repository.ProductRepository, orderRepo repository.OrderRepository) StatsService {
	return &statsService{
		userRepo:    userRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

// Dashboard returns entity counts and total revenue.
func (s *statsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	products, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	orders, err := s.orderRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	revenue, err := s.orderRepo.SumRevenue(ctx)
	if err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}

	return &DashboardStats{
		TotalUsers:    users,
		TotalProducts: products,
		TotalOrders:   orders,
		TotalRevenue:  revenue,
	}, nil
}
