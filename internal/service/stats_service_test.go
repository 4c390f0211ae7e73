package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestStatsService_Dashboard(t *testing.T) {
	t.Run("aggregates counts and revenue", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		productRepo := new(MockProductRepository)
		orderRepo := new(MockOrderRepository)
		svc := NewStatsService(userRepo, productRepo, orderRepo)

		userRepo.On("Count", mock.Anything).Return(int64(12), nil)
		productRepo.On("Count", mock.Anything).Return(int64(34), nil)
		orderRepo.On("Count", mock.Anything).Return(int64(5), nil)
		orderRepo.On("SumRevenue", mock.Anything).Return(decimal.RequireFromString("1234.50"), nil)

		stats, err := svc.Dashboard(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, int64(12), stats.TotalUsers)
		assert.Equal(t, int64(34), stats.TotalProducts)
		assert.Equal(t, int64(5), stats.TotalOrders)
		assert.True(t, stats.TotalRevenue.Equal(decimal.RequireFromString("1234.50")))
	})

	t.Run("zero orders report zero revenue", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		productRepo := new(MockProductRepository)
		orderRepo := new(MockOrderRepository)
		svc := NewStatsService(userRepo, productRepo, orderRepo)

		userRepo.On("Count", mock.Anything).Return(int64(0), nil)
		productRepo.On("Count", mock.Anything).Return(int64(0), nil)
		orderRepo.On("Count", mock.Anything).Return(int64(0), nil)
		orderRepo.On("SumRevenue", mock.Anything).Return(decimal.Zero, nil)

		stats, err := svc.Dashboard(context.Background())

		assert.NoError(t, err)
		assert.True(t, stats.TotalRevenue.IsZero())
	})

	t.Run("count failure surfaces", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewStatsService(userRepo, new(MockProductRepository), new(MockOrderRepository))

		userRepo.On("Count", mock.Anything).Return(int64(0), assert.AnError)

		_, err := svc.Dashboard(context.Background())

		assert.Error(t, err)
	})
}
