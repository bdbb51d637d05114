package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"app/internal/domain/model"
	"app/internal/payment"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newWebhookUsecaseForTest(
	orderRepo *OrderRepoMock,
	orderItemRepo *OrderItemRepoMock,
	entitlements *EntitlementRepoMock,
	moduleRepo *ModuleRepoMock,
	userRepo *UserRepoMock,
	mailer *MailerMock,
	retry RetryPolicy,
) *WebhookUsecase {
	uc := NewWebhookUsecase(orderRepo, orderItemRepo, entitlements, moduleRepo, userRepo, mailer, retry)
	uc.sleep = func(time.Duration) {}
	return uc
}

func succeededEvent() payment.Event {
	return payment.Event{
		Type:          payment.EventPaymentSucceeded,
		TransactionID: "pi_abc",
		Amount:        999,
		Currency:      "sek",
		Username:      "anna",
		CartItemIDs:   "5",
	}
}

// 同期フローが既に注文を作っていた → 受理して何も作らない
func TestWebhook_DuplicateAck(t *testing.T) {
	orderRepo := new(OrderRepoMock)
	orderItemRepo := new(OrderItemRepoMock)
	mailer := new(MailerMock)

	uc := newWebhookUsecaseForTest(
		orderRepo, orderItemRepo, new(EntitlementRepoMock),
		new(ModuleRepoMock), new(UserRepoMock), mailer,
		RetryPolicy{MaxAttempts: 1},
	)

	orderRepo.On("FindByPaymentRef", mock.Anything, "pi_abc").
		Return(model.Order{ID: 100, OrderNumber: "ABC123"}, true, nil)
	orderItemRepo.On("ListByOrderID", mock.Anything, int64(100)).Return([]model.OrderLineItem{}, nil)
	mailer.On("SendOrderConfirmation", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	out, err := uc.HandleEvent(context.Background(), succeededEvent())
	assert.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyExists, out.Outcome)
	assert.Equal(t, "ABC123", out.OrderNumber)
	orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// 同期フローの書き込みが見えるまで再試行する
func TestWebhook_RetryUntilFound(t *testing.T) {
	orderRepo := new(OrderRepoMock)
	orderItemRepo := new(OrderItemRepoMock)
	mailer := new(MailerMock)

	uc := newWebhookUsecaseForTest(
		orderRepo, orderItemRepo, new(EntitlementRepoMock),
		new(ModuleRepoMock), new(UserRepoMock), mailer,
		RetryPolicy{MaxAttempts: 5},
	)

	//2回は見つからず、3回目で見つかる
	orderRepo.On("FindByPaymentRef", mock.Anything, "pi_abc").
		Return(model.Order{}, false, nil).Twice()
	orderRepo.On("FindByPaymentRef", mock.Anything, "pi_abc").
		Return(model.Order{ID: 100, OrderNumber: "ABC123"}, true, nil).Once()
	orderItemRepo.On("ListByOrderID", mock.Anything, int64(100)).Return([]model.OrderLineItem{}, nil)
	mailer.On("SendOrderConfirmation", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	out, err := uc.HandleEvent(context.Background(), succeededEvent())
	assert.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyExists, out.Outcome)
	orderRepo.AssertNumberOfCalls(t, "FindByPaymentRef", 3)
}

// 同期フローが完走しなかった注文をmetadataからバックフィルする
func TestWebhook_BackfillCreatesOrder(t *testing.T) {
	orderRepo := new(OrderRepoMock)
	orderItemRepo := new(OrderItemRepoMock)
	entitlements := new(EntitlementRepoMock)
	moduleRepo := new(ModuleRepoMock)
	userRepo := new(UserRepoMock)
	mailer := new(MailerMock)

	uc := newWebhookUsecaseForTest(
		orderRepo, orderItemRepo, entitlements, moduleRepo, userRepo, mailer,
		RetryPolicy{MaxAttempts: 1},
	)

	orderRepo.On("FindByPaymentRef", mock.Anything, "pi_abc").Return(model.Order{}, false, nil)
	userRepo.On("FindByUsername", mock.Anything, "anna").
		Return(&model.User{ID: 1, Username: "anna", Email: "anna@example.com"}, nil)

	//金額はイベントの値がそのまま注文のTotalになる
	orderRepo.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.PaymentRef == "pi_abc" && o.Total == 999 && o.UserID != nil && *o.UserID == 1
	})).Return(model.Order{ID: 300, OrderNumber: "BACKFILL1", Total: 999}, nil)

	moduleRepo.On("FindByID", mock.Anything, int64(5)).
		Return(model.Module{ID: 5, Name: "Meal Planner", Price: 999}, nil)
	orderItemRepo.On("Create", mock.Anything, mock.MatchedBy(func(it model.OrderLineItem) bool {
		return it.OrderID == 300 && it.ModuleID == 5 && it.Amount == 999
	})).Return(nil)
	entitlements.On("Grant", mock.Anything, int64(1), int64(5)).Return(nil)
	orderItemRepo.On("ListByOrderID", mock.Anything, int64(300)).Return([]model.OrderLineItem{}, nil)
	mailer.On("SendOrderConfirmation", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	out, err := uc.HandleEvent(context.Background(), succeededEvent())
	assert.NoError(t, err)
	assert.Equal(t, OutcomeCreated, out.Outcome)
	assert.Equal(t, "BACKFILL1", out.OrderNumber)

	orderRepo.AssertExpectations(t)
	orderItemRepo.AssertExpectations(t)
	entitlements.AssertExpectations(t)
}

// metadataに利用者がいない（ゲスト決済）→ 注文は作らず受理
func TestWebhook_NoIdentity(t *testing.T) {
	orderRepo := new(OrderRepoMock)

	uc := newWebhookUsecaseForTest(
		orderRepo, new(OrderItemRepoMock), new(EntitlementRepoMock),
		new(ModuleRepoMock), new(UserRepoMock), new(MailerMock),
		RetryPolicy{MaxAttempts: 1},
	)

	orderRepo.On("FindByPaymentRef", mock.Anything, mock.Anything).Return(model.Order{}, false, nil)

	ev := succeededEvent()
	ev.Username = payment.AnonymousUser

	out, err := uc.HandleEvent(context.Background(), ev)
	assert.NoError(t, err)
	assert.Equal(t, OutcomeNoIdentity, out.Outcome)
	orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWebhook_UserNotFound(t *testing.T) {
	orderRepo := new(OrderRepoMock)
	userRepo := new(UserRepoMock)

	uc := newWebhookUsecaseForTest(
		orderRepo, new(OrderItemRepoMock), new(EntitlementRepoMock),
		new(ModuleRepoMock), userRepo, new(MailerMock),
		RetryPolicy{MaxAttempts: 1},
	)

	orderRepo.On("FindByPaymentRef", mock.Anything, mock.Anything).Return(model.Order{}, false, nil)
	userRepo.On("FindByUsername", mock.Anything, "anna").Return(nil, repo.ErrUserNotFound)

	out, err := uc.HandleEvent(context.Background(), succeededEvent())
	assert.NoError(t, err)
	assert.Equal(t, OutcomeUserNotFound, out.Outcome)
}

// 作成競合（同期フローに負けた）→ 既存注文を正とする
func TestWebhook_CreateConflictAcksExisting(t *testing.T) {
	orderRepo := new(OrderRepoMock)
	orderItemRepo := new(OrderItemRepoMock)
	userRepo := new(UserRepoMock)
	mailer := new(MailerMock)

	uc := newWebhookUsecaseForTest(
		orderRepo, orderItemRepo, new(EntitlementRepoMock),
		new(ModuleRepoMock), userRepo, mailer,
		RetryPolicy{MaxAttempts: 1},
	)

	orderRepo.On("FindByPaymentRef", mock.Anything, "pi_abc").
		Return(model.Order{}, false, nil).Once()
	userRepo.On("FindByUsername", mock.Anything, "anna").
		Return(&model.User{ID: 1, Username: "anna"}, nil)
	orderRepo.On("Create", mock.Anything, mock.Anything).Return(model.Order{}, repo.ErrConflict)
	orderRepo.On("FindByPaymentRef", mock.Anything, "pi_abc").
		Return(model.Order{ID: 100, OrderNumber: "SYNC1"}, true, nil).Once()
	orderItemRepo.On("ListByOrderID", mock.Anything, int64(100)).Return([]model.OrderLineItem{}, nil)
	mailer.On("SendOrderConfirmation", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	out, err := uc.HandleEvent(context.Background(), succeededEvent())
	assert.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyExists, out.Outcome)
	assert.Equal(t, "SYNC1", out.OrderNumber)
}

// 明細の書き込み失敗 → 注文を補償削除して5xx（プロバイダが再送する）
func TestWebhook_LineItemFailureDeletesOrder(t *testing.T) {
	orderRepo := new(OrderRepoMock)
	orderItemRepo := new(OrderItemRepoMock)
	moduleRepo := new(ModuleRepoMock)
	userRepo := new(UserRepoMock)

	uc := newWebhookUsecaseForTest(
		orderRepo, orderItemRepo, new(EntitlementRepoMock),
		moduleRepo, userRepo, new(MailerMock),
		RetryPolicy{MaxAttempts: 1},
	)

	orderRepo.On("FindByPaymentRef", mock.Anything, mock.Anything).Return(model.Order{}, false, nil)
	userRepo.On("FindByUsername", mock.Anything, "anna").Return(&model.User{ID: 1, Username: "anna"}, nil)
	orderRepo.On("Create", mock.Anything, mock.Anything).
		Return(model.Order{ID: 300, OrderNumber: "BACKFILL1"}, nil)
	moduleRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Module{ID: 5, Price: 999}, nil)
	orderItemRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))
	orderRepo.On("Delete", mock.Anything, int64(300)).Return(nil)

	_, err := uc.HandleEvent(context.Background(), succeededEvent())
	assertHTTPError(t, err, http.StatusInternalServerError)
	orderRepo.AssertCalled(t, "Delete", mock.Anything, int64(300))
}

// metadataの不正なモジュールIDは飛ばして続行する
func TestWebhook_BadModuleIDsSkipped(t *testing.T) {
	orderRepo := new(OrderRepoMock)
	orderItemRepo := new(OrderItemRepoMock)
	entitlements := new(EntitlementRepoMock)
	moduleRepo := new(ModuleRepoMock)
	userRepo := new(UserRepoMock)
	mailer := new(MailerMock)

	uc := newWebhookUsecaseForTest(
		orderRepo, orderItemRepo, entitlements, moduleRepo, userRepo, mailer,
		RetryPolicy{MaxAttempts: 1},
	)

	orderRepo.On("FindByPaymentRef", mock.Anything, mock.Anything).Return(model.Order{}, false, nil)
	userRepo.On("FindByUsername", mock.Anything, "anna").Return(&model.User{ID: 1, Username: "anna"}, nil)
	orderRepo.On("Create", mock.Anything, mock.Anything).
		Return(model.Order{ID: 300, OrderNumber: "BACKFILL1"}, nil)
	moduleRepo.On("FindByID", mock.Anything, int64(99)).Return(model.Module{}, repo.ErrNotFound)
	moduleRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Module{ID: 5, Price: 999}, nil)
	orderItemRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	entitlements.On("Grant", mock.Anything, int64(1), int64(5)).Return(nil)
	orderItemRepo.On("ListByOrderID", mock.Anything, int64(300)).Return([]model.OrderLineItem{}, nil)
	mailer.On("SendOrderConfirmation", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	ev := succeededEvent()
	ev.CartItemIDs = "not-a-number,99,5"

	out, err := uc.HandleEvent(context.Background(), ev)
	assert.NoError(t, err)
	assert.Equal(t, OutcomeCreated, out.Outcome)

	//有効な1件だけ明細になる
	orderItemRepo.AssertNumberOfCalls(t, "Create", 1)
}

// 成功以外のイベントは台帳に触らない
func TestWebhook_IgnoresOtherEventTypes(t *testing.T) {
	orderRepo := new(OrderRepoMock)

	uc := newWebhookUsecaseForTest(
		orderRepo, new(OrderItemRepoMock), new(EntitlementRepoMock),
		new(ModuleRepoMock), new(UserRepoMock), new(MailerMock),
		RetryPolicy{MaxAttempts: 1},
	)

	out, err := uc.HandleEvent(context.Background(), payment.Event{Type: payment.EventPaymentFailed, TransactionID: "pi_x"})
	assert.NoError(t, err)
	assert.Equal(t, OutcomeFailedPayment, out.Outcome)

	out, err = uc.HandleEvent(context.Background(), payment.Event{Type: payment.EventPaymentCreated, TransactionID: "pi_x"})
	assert.NoError(t, err)
	assert.Equal(t, OutcomeUnhandled, out.Outcome)

	orderRepo.AssertNotCalled(t, "FindByPaymentRef", mock.Anything, mock.Anything)
}
