package mocks

import (
	"context"

	"foodiego/internal/domain"

	"github.com/stretchr/testify/mock"
)

type OrderServiceInterface struct {
	mock.Mock
}

func (m *OrderServiceInterface) AddToCart(ctx context.Context, menuItemID, quantity int) error {
	return m.Called(ctx, menuItemID, quantity).Error(0)
}

func (m *OrderServiceInterface) UpdateQuantity(ctx context.Context, menuItemID, quantity int) error {
	return m.Called(ctx, menuItemID, quantity).Error(0)
}

func (m *OrderServiceInterface) RemoveFromCart(ctx context.Context, menuItemID int) error {
	return m.Called(ctx, menuItemID).Error(0)
}

func (m *OrderServiceInterface) ClearCart(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *OrderServiceInterface) Checkout(ctx context.Context) (*domain.Order, error) {
	args := m.Called(ctx)
	var out *domain.Order
	if v := args.Get(0); v != nil {
		out = v.(*domain.Order)
	}
	return out, args.Error(1)
}

func (m *OrderServiceInterface) GetCart(ctx context.Context) []domain.CartLine {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]domain.CartLine)
	}
	return nil
}

func (m *OrderServiceInterface) GetOrders(ctx context.Context) []domain.Order {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]domain.Order)
	}
	return nil
}

func (m *OrderServiceInterface) CartSummary(ctx context.Context) domain.CartSummary {
	return m.Called(ctx).Get(0).(domain.CartSummary)
}

func (m *OrderServiceInterface) OrderHistory(ctx context.Context) []domain.OrderHistoryEntry {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]domain.OrderHistoryEntry)
	}
	return nil
}

func (m *OrderServiceInterface) FindOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	var out *domain.Order
	if v := args.Get(0); v != nil {
		out = v.(*domain.Order)
	}
	return out, args.Error(1)
}

func (m *OrderServiceInterface) OrderQRCode(ctx context.Context, orderID string) ([]byte, error) {
	args := m.Called(ctx, orderID)
	var out []byte
	if v := args.Get(0); v != nil {
		out = v.([]byte)
	}
	return out, args.Error(1)
}

func NewOrderServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrderServiceInterface {
	m := &OrderServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
