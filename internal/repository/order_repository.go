package repository

import (
	"context"

	"app/internal/domain/model"
)

type OrderRepository interface {
	Create(ctx context.Context, order model.Order) (model.Order, error)
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (model.Order, error)
	// 照合キーでの検索（同期フローとWebhookの合流点）
	FindByPaymentRef(ctx context.Context, paymentRef string) (model.Order, bool, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	// 部分的に作られた注文の補償削除。明細もまとめて消す。
	Delete(ctx context.Context, orderID int64) error
}
