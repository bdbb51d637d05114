package usecase

import (
	"context"
	"net/http"
	"time"

	repo "app/internal/repository"
)

// OrderUsecase は購入履歴の参照。作成はCheckout/Webhook側。
type OrderUsecase struct {
	orderRepo     repo.OrderRepository
	orderItemRepo repo.OrderItemRepository
}

func NewOrderUsecase(orderRepo repo.OrderRepository, orderItemRepo repo.OrderItemRepository) *OrderUsecase {
	return &OrderUsecase{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
	}
}

type OrderSummaryOutput struct {
	OrderNumber string    `json:"order_number"`
	Total       int64     `json:"total"`
	ItemCount   int       `json:"item_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type OrderListOutput struct {
	Items []OrderSummaryOutput `json:"items"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// ListMyOrders は自分の注文を新しい順に返す。
func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page int, limit int) (OrderListOutput, error) {
	if userID <= 0 {
		return OrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	orders, total, err := u.orderRepo.ListByUserID(ctx, userID, page, limit)
	if err != nil {
		return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]OrderSummaryOutput, 0, len(orders))
	for _, o := range orders {
		items, err := u.orderItemRepo.ListByOrderID(ctx, o.ID)
		if err != nil {
			return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		outs = append(outs, OrderSummaryOutput{
			OrderNumber: o.OrderNumber,
			Total:       o.Total,
			ItemCount:   len(items),
			CreatedAt:   o.CreatedAt,
		})
	}

	return OrderListOutput{Items: outs, Total: total, Page: page, Limit: limit}, nil
}

// GetMyOrder は注文番号で1件取得。他人の注文は404。
func (u *OrderUsecase) GetMyOrder(ctx context.Context, userID int64, orderNumber string) (OrderDetailOutput, error) {
	if userID <= 0 {
		return OrderDetailOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderNumber == "" {
		return OrderDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid order number")
	}

	order, err := u.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err == repo.ErrNotFound {
		return OrderDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// 所有者チェック（存在を漏らさないため404で返す）
	if order.UserID == nil || *order.UserID != userID {
		return OrderDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	items, err := u.orderItemRepo.ListByOrderID(ctx, order.ID)
	if err != nil {
		return OrderDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toOrderDetailOutput(order, items), nil
}
