package repository

import (
	"context"

	"app/internal/domain/model"
)

type CartRepository interface {
	GetOrCreateActiveByUserID(ctx context.Context, userID int64) (model.Cart, error)
	FindActiveByUserID(ctx context.Context, userID int64) (model.Cart, error)
	UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error
	Clear(ctx context.Context, cartID int64) error
}

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	// 同一モジュールの二重追加はno-op（数量は常に1）
	AddIfAbsent(ctx context.Context, cartID int64, moduleID int64, priceSnapshot int64) error
	DeleteByCartAndModule(ctx context.Context, cartID int64, moduleID int64) error
}
