package repository

import (
	"context"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// インメモリSQLiteで一意制約まわりの変換を検証する
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Module{},
		&model.UserModule{},
		&model.Order{},
		&model.OrderLineItem{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// =====================
// payment_refの一意制約
// =====================

func TestOrderCreate_DuplicatePaymentRef(t *testing.T) {
	db := newTestDB(t)
	r := NewOrderGormRepository(db)
	ctx := context.Background()

	first, err := r.Create(ctx, model.Order{
		OrderNumber: "A1",
		FullName:    "Anna Svensson",
		Email:       "anna@example.com",
		Total:       999,
		PaymentRef:  "pi_abc",
	})
	assert.NoError(t, err)
	assert.NotZero(t, first.ID)

	//同じpayment_refで二重に作れない
	_, err = r.Create(ctx, model.Order{
		OrderNumber: "A2",
		FullName:    "Anna Svensson",
		Email:       "anna@example.com",
		Total:       999,
		PaymentRef:  "pi_abc",
	})
	assert.ErrorIs(t, err, repo.ErrConflict)

	//負けた側はpayment_refで取り直す
	found, ok, err := r.FindByPaymentRef(ctx, "pi_abc")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, first.ID, found.ID)
	assert.Equal(t, "A1", found.OrderNumber)
}

func TestOrderFindByPaymentRef_NotFound(t *testing.T) {
	r := NewOrderGormRepository(newTestDB(t))

	_, ok, err := r.FindByPaymentRef(context.Background(), "pi_nope")
	assert.NoError(t, err)
	assert.False(t, ok)
}

// 補償削除は明細ごと消す
func TestOrderDelete_RemovesLineItems(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderGormRepository(db)
	items := NewOrderItemGormRepository(db)
	ctx := context.Background()

	order, err := orders.Create(ctx, model.Order{
		OrderNumber: "A1",
		FullName:    "Anna Svensson",
		Email:       "anna@example.com",
		Total:       999,
		PaymentRef:  "pi_abc",
	})
	assert.NoError(t, err)

	err = items.Create(ctx, model.OrderLineItem{
		OrderID:            order.ID,
		ModuleID:           1,
		ModuleNameSnapshot: "Meal planner",
		Amount:             999,
	})
	assert.NoError(t, err)

	assert.NoError(t, orders.Delete(ctx, order.ID))

	_, _, err = orders.FindByPaymentRef(ctx, "pi_abc")
	assert.NoError(t, err)
	left, err := items.ListByOrderID(ctx, order.ID)
	assert.NoError(t, err)
	assert.Empty(t, left)

	//二度目はNotFound
	assert.ErrorIs(t, orders.Delete(ctx, order.ID), repo.ErrNotFound)
}

// =====================
// 利用権付与の冪等性
// =====================

func TestEntitlementGrant_Idempotent(t *testing.T) {
	db := newTestDB(t)
	r := NewEntitlementGormRepository(db)
	ctx := context.Background()

	assert.NoError(t, r.Grant(ctx, 1, 5))
	//再送・再付与はエラーにしない
	assert.NoError(t, r.Grant(ctx, 1, 5))

	list, err := r.ListByUserID(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, list, 1)

	has, err := r.HasByUserAndModule(ctx, 1, 5)
	assert.NoError(t, err)
	assert.True(t, has)

	has, err = r.HasByUserAndModule(ctx, 2, 5)
	assert.NoError(t, err)
	assert.False(t, has)
}

func TestEntitlementHasByUserAndType(t *testing.T) {
	db := newTestDB(t)
	r := NewEntitlementGormRepository(db)
	ctx := context.Background()

	m := model.Module{Name: "Meal planner", ModuleType: model.ModuleTypeMealPlanner, Price: 999, IsActive: true}
	assert.NoError(t, db.Create(&m).Error)
	assert.NoError(t, r.Grant(ctx, 1, m.ID))

	has, err := r.HasByUserAndType(ctx, 1, model.ModuleTypeMealPlanner)
	assert.NoError(t, err)
	assert.True(t, has)

	has, err = r.HasByUserAndType(ctx, 1, model.ModuleTypeHabitTracker)
	assert.NoError(t, err)
	assert.False(t, has)
}
