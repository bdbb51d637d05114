package usecase

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"app/internal/domain/model"
	"app/internal/payment"
	repo "app/internal/repository"
)

// イベント1件の終端結果。多段の状態は持たない。
type WebhookOutcome string

const (
	// 対象外のイベント種別（payment_createdなど）
	OutcomeUnhandled WebhookOutcome = "unhandled"
	// 決済失敗の通知。台帳には何もしない。
	OutcomeFailedPayment WebhookOutcome = "payment_failed"
	// 同期フローが既に注文を作っていた（プロバイダ再送もここに落ちる）
	OutcomeAlreadyExists WebhookOutcome = "already_exists"
	// Webhookから注文をバックフィルした
	OutcomeCreated WebhookOutcome = "created"
	// metadataに利用者情報が無い。注文は作らないが受理はする。
	OutcomeNoIdentity WebhookOutcome = "no_identity"
	// metadataのusernameに該当ユーザーがいない
	OutcomeUserNotFound WebhookOutcome = "user_not_found"
)

type WebhookOutput struct {
	Outcome     WebhookOutcome
	OrderNumber string
}

// 同期フローの書き込みがまだ見えない場合に備えた再試行。
// テストではDelay=0にする。
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// WebhookUsecase は決済プロバイダのコールバックを台帳と突き合わせる。
// 何回同じイベントが来ても結果は1回処理したときと同じでなければならない。
type WebhookUsecase struct {
	orderRepo     repo.OrderRepository
	orderItemRepo repo.OrderItemRepository
	entitlements  repo.EntitlementRepository
	moduleRepo    repo.ModuleRepository
	userRepo      repo.UserRepository
	mailer        Mailer
	retry         RetryPolicy
	sleep         func(time.Duration)
}

func NewWebhookUsecase(
	orderRepo repo.OrderRepository,
	orderItemRepo repo.OrderItemRepository,
	entitlements repo.EntitlementRepository,
	moduleRepo repo.ModuleRepository,
	userRepo repo.UserRepository,
	mailer Mailer,
	retry RetryPolicy,
) *WebhookUsecase {
	if retry.MaxAttempts <= 0 {
		retry.MaxAttempts = 1
	}
	return &WebhookUsecase{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		entitlements:  entitlements,
		moduleRepo:    moduleRepo,
		userRepo:      userRepo,
		mailer:        mailer,
		retry:         retry,
		sleep:         time.Sleep,
	}
}

// HandleEvent は正規化済みイベント1件を処理する。
// 返り値がerrorなのはバックフィル中の書き込み失敗だけ（5xx→プロバイダが再送する）。
// それ以外はすべて受理（2xx）。
func (u *WebhookUsecase) HandleEvent(ctx context.Context, ev payment.Event) (WebhookOutput, error) {
	switch ev.Type {
	case payment.EventPaymentSucceeded:
		return u.reconcile(ctx, ev)
	case payment.EventPaymentFailed:
		log.Printf("webhook: payment failed for %s", ev.TransactionID)
		return WebhookOutput{Outcome: OutcomeFailedPayment}, nil
	default:
		log.Printf("webhook: unhandled event type %s", ev.Type)
		return WebhookOutput{Outcome: OutcomeUnhandled}, nil
	}
}

func (u *WebhookUsecase) reconcile(ctx context.Context, ev payment.Event) (WebhookOutput, error) {
	// まず既存注文を探す。同期フローが勝っていればここで終わり。
	if order, found, err := u.findWithRetry(ctx, ev.TransactionID); err != nil {
		return WebhookOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	} else if found {
		u.sendConfirmation(ctx, order)
		return WebhookOutput{Outcome: OutcomeAlreadyExists, OrderNumber: order.OrderNumber}, nil
	}

	// 同期フローが完走しなかった注文をイベントから復元する
	if ev.Username == "" || ev.Username == payment.AnonymousUser {
		log.Printf("webhook: no username in metadata for %s", ev.TransactionID)
		return WebhookOutput{Outcome: OutcomeNoIdentity}, nil
	}

	user, err := u.userRepo.FindByUsername(ctx, ev.Username)
	if err == repo.ErrUserNotFound {
		log.Printf("webhook: user not found: %s", ev.Username)
		return WebhookOutput{Outcome: OutcomeUserNotFound}, nil
	}
	if err != nil {
		return WebhookOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	fullName := ev.BillingName
	if fullName == "" {
		fullName = user.FullName
	}
	if fullName == "" {
		fullName = user.Username
	}
	email := ev.BillingEmail
	if email == "" {
		email = user.Email
	}

	order, err := u.orderRepo.Create(ctx, model.Order{
		OrderNumber: NewOrderNumber(),
		UserID:      &user.ID,
		FullName:    fullName,
		Email:       email,
		Total:       ev.Amount,
		PaymentRef:  ev.TransactionID,
	})
	if err == repo.ErrConflict {
		// 同期フローと競合して負けた。既存の方を正とする。
		existing, found, err2 := u.orderRepo.FindByPaymentRef(ctx, ev.TransactionID)
		if err2 != nil || !found {
			return WebhookOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		u.sendConfirmation(ctx, existing)
		return WebhookOutput{Outcome: OutcomeAlreadyExists, OrderNumber: existing.OrderNumber}, nil
	}
	if err != nil {
		return WebhookOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// 明細と利用権。モジュール単位の失敗はログに残して続行、
	// 書き込み自体の失敗は注文ごと補償削除して5xx（プロバイダに再送させる）。
	if err := u.populateLineItems(ctx, order, user.ID, ev.CartItemIDs); err != nil {
		if delErr := u.orderRepo.Delete(ctx, order.ID); delErr != nil {
			log.Printf("webhook: compensating delete failed for order %s: %v", order.OrderNumber, delErr)
		}
		return WebhookOutput{}, NewHTTPError(http.StatusInternalServerError, "order creation failed")
	}

	log.Printf("webhook: order created from webhook: %s", order.OrderNumber)
	u.sendConfirmation(ctx, order)
	return WebhookOutput{Outcome: OutcomeCreated, OrderNumber: order.OrderNumber}, nil
}

// 見つかるまでMaxAttempts回、Delayを挟んで探す。
func (u *WebhookUsecase) findWithRetry(ctx context.Context, paymentRef string) (model.Order, bool, error) {
	for attempt := 1; ; attempt++ {
		order, found, err := u.orderRepo.FindByPaymentRef(ctx, paymentRef)
		if err != nil {
			return model.Order{}, false, err
		}
		if found {
			return order, true, nil
		}
		if attempt >= u.retry.MaxAttempts {
			return model.Order{}, false, nil
		}
		u.sleep(u.retry.Delay)
	}
}

func (u *WebhookUsecase) populateLineItems(ctx context.Context, order model.Order, userID int64, cartItemIDs string) error {
	if cartItemIDs == "" {
		return nil
	}

	for _, rawID := range strings.Split(cartItemIDs, ",") {
		rawID = strings.TrimSpace(rawID)
		if rawID == "" {
			continue
		}

		moduleID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			log.Printf("webhook: bad module id %q in metadata: %v", rawID, err)
			continue
		}

		m, err := u.moduleRepo.FindByID(ctx, moduleID)
		if err == repo.ErrNotFound {
			log.Printf("webhook: module %d not found, skipped", moduleID)
			continue
		}
		if err != nil {
			return err
		}

		if err := u.orderItemRepo.Create(ctx, model.OrderLineItem{
			OrderID:            order.ID,
			ModuleID:           m.ID,
			ModuleNameSnapshot: m.Name,
			Amount:             m.Price,
		}); err != nil {
			return err
		}

		if err := u.entitlements.Grant(ctx, userID, m.ID); err != nil {
			log.Printf("webhook: grant failed user=%d module=%d: %v", userID, m.ID, err)
		}
	}
	return nil
}

func (u *WebhookUsecase) sendConfirmation(ctx context.Context, order model.Order) {
	items, err := u.orderItemRepo.ListByOrderID(ctx, order.ID)
	if err != nil {
		log.Printf("webhook: could not load items for confirmation mail: %v", err)
		items = nil
	}
	if err := u.mailer.SendOrderConfirmation(ctx, order, items); err != nil {
		log.Printf("webhook: confirmation mail failed for order %s: %v", order.OrderNumber, err)
	}
}
