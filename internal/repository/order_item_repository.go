package repository

import (
	"context"

	"app/internal/domain/model"
)

type OrderItemRepository interface {
	Create(ctx context.Context, item model.OrderLineItem) error
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderLineItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderLineItem, error)
}
