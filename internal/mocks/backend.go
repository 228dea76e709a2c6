package mocks

import (
	"context"

	"foodiego/internal/domain"

	"github.com/stretchr/testify/mock"
)

type Backend struct {
	mock.Mock
}

func (m *Backend) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	args := m.Called(ctx)
	var out []domain.Restaurant
	if v := args.Get(0); v != nil {
		out = v.([]domain.Restaurant)
	}
	return out, args.Error(1)
}

func (m *Backend) GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	args := m.Called(ctx, id)
	var out *domain.Restaurant
	if v := args.Get(0); v != nil {
		out = v.(*domain.Restaurant)
	}
	return out, args.Error(1)
}

func (m *Backend) GetRestaurantMenu(ctx context.Context, id string) ([]domain.MenuItem, error) {
	args := m.Called(ctx, id)
	var out []domain.MenuItem
	if v := args.Get(0); v != nil {
		out = v.([]domain.MenuItem)
	}
	return out, args.Error(1)
}

func (m *Backend) ListMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	args := m.Called(ctx)
	var out []domain.MenuItem
	if v := args.Get(0); v != nil {
		out = v.([]domain.MenuItem)
	}
	return out, args.Error(1)
}

func (m *Backend) GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	args := m.Called(ctx, id)
	var out *domain.MenuItem
	if v := args.Get(0); v != nil {
		out = v.(*domain.MenuItem)
	}
	return out, args.Error(1)
}

func (m *Backend) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	var out *domain.Order
	if v := args.Get(0); v != nil {
		out = v.(*domain.Order)
	}
	return out, args.Error(1)
}

func NewBackend(t interface {
	mock.TestingT
	Cleanup(func())
}) *Backend {
	m := &Backend{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
