package usecase

import (
	"context"
	"testing"
	"time"

	"app/internal/domain/model"
	"app/internal/payment"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (model.Order, error) {
	args := m.Called(ctx, order)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByOrderNumber(ctx context.Context, orderNumber string) (model.Order, error) {
	args := m.Called(ctx, orderNumber)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByPaymentRef(ctx context.Context, paymentRef string) (model.Order, bool, error) {
	args := m.Called(ctx, paymentRef)
	o, _ := args.Get(0).(model.Order)
	return o, args.Bool(1), args.Error(2)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Delete(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) Create(ctx context.Context, item model.OrderLineItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderLineItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderLineItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderLineItem)
	return items, args.Error(1)
}

type EntitlementRepoMock struct{ mock.Mock }

func (m *EntitlementRepoMock) Grant(ctx context.Context, userID int64, moduleID int64) error {
	args := m.Called(ctx, userID, moduleID)
	return args.Error(0)
}

func (m *EntitlementRepoMock) HasByUserAndModule(ctx context.Context, userID int64, moduleID int64) (bool, error) {
	args := m.Called(ctx, userID, moduleID)
	return args.Bool(0), args.Error(1)
}

func (m *EntitlementRepoMock) HasByUserAndType(ctx context.Context, userID int64, moduleType model.ModuleType) (bool, error) {
	args := m.Called(ctx, userID, moduleType)
	return args.Bool(0), args.Error(1)
}

func (m *EntitlementRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.UserModule, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.UserModule)
	return items, args.Error(1)
}

type ModuleRepoMock struct{ mock.Mock }

func (m *ModuleRepoMock) ListPublic(ctx context.Context, q repo.ModuleListQuery) ([]model.Module, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Module)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ModuleRepoMock) FindByID(ctx context.Context, moduleID int64) (model.Module, error) {
	args := m.Called(ctx, moduleID)
	mod, _ := args.Get(0).(model.Module)
	return mod, args.Error(1)
}

func (m *ModuleRepoMock) Create(ctx context.Context, mod model.Module) (model.Module, error) {
	args := m.Called(ctx, mod)
	created, _ := args.Get(0).(model.Module)
	return created, args.Error(1)
}

func (m *ModuleRepoMock) Update(ctx context.Context, mod model.Module) error {
	args := m.Called(ctx, mod)
	return args.Error(0)
}

func (m *ModuleRepoMock) SoftDelete(ctx context.Context, moduleID int64) error {
	args := m.Called(ctx, moduleID)
	return args.Error(0)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetOrCreateActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error {
	args := m.Called(ctx, cartID, status)
	return args.Error(0)
}

func (m *CartRepoMock) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) AddIfAbsent(ctx context.Context, cartID int64, moduleID int64, priceSnapshot int64) error {
	args := m.Called(ctx, cartID, moduleID, priceSnapshot)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByCartAndModule(ctx context.Context, cartID int64, moduleID int64) error {
	args := m.Called(ctx, cartID, moduleID)
	return args.Error(0)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

type MailerMock struct{ mock.Mock }

func (m *MailerMock) SendOrderConfirmation(ctx context.Context, order model.Order, items []model.OrderLineItem) error {
	args := m.Called(ctx, order, items)
	return args.Error(0)
}

type IntentClientMock struct{ mock.Mock }

func (m *IntentClientMock) CreateIntent(ctx context.Context, in payment.CreateIntentInput) (payment.Intent, error) {
	args := m.Called(ctx, in)
	intent, _ := args.Get(0).(payment.Intent)
	return intent, args.Error(1)
}

// =====================
// Helpers
// =====================

func assertHTTPError(t *testing.T, err error, wantStatus int) {
	t.Helper()
	assert.Error(t, err)
	he, ok := AsHTTPError(err)
	if assert.True(t, ok, "expected *HTTPError, got %v", err) {
		assert.Equal(t, wantStatus, he.Status)
	}
}

func dateAt(y int, mo time.Month, d int) time.Time {
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}
