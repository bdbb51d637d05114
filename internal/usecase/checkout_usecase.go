package usecase

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"app/internal/domain/model"
	"app/internal/payment"
	repo "app/internal/repository"

	"github.com/google/uuid"
)

// 確認メール送信。失敗してもチェックアウトは落とさない。
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, order model.Order, items []model.OrderLineItem) error
}

// CheckoutUsecase は同期側のチェックアウト。
// Webhook側（WebhookUsecase）とはordersのpayment_ref一意制約で合流する。
type CheckoutUsecase struct {
	orderRepo     repo.OrderRepository
	orderItemRepo repo.OrderItemRepository
	entitlements  repo.EntitlementRepository
	cartRepo      repo.CartRepository
	cartItemRepo  repo.CartItemRepository
	moduleRepo    repo.ModuleRepository
	userRepo      repo.UserRepository
	intents       payment.IntentClient
	mailer        Mailer
	currency      string
}

func NewCheckoutUsecase(
	orderRepo repo.OrderRepository,
	orderItemRepo repo.OrderItemRepository,
	entitlements repo.EntitlementRepository,
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	moduleRepo repo.ModuleRepository,
	userRepo repo.UserRepository,
	intents payment.IntentClient,
	mailer Mailer,
	currency string,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		entitlements:  entitlements,
		cartRepo:      cartRepo,
		cartItemRepo:  cartItemRepo,
		moduleRepo:    moduleRepo,
		userRepo:      userRepo,
		intents:       intents,
		mailer:        mailer,
		currency:      currency,
	}
}

type CheckoutItemOutput struct {
	ModuleID int64  `json:"module_id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
}

type StartCheckoutOutput struct {
	Items           []CheckoutItemOutput `json:"items"`
	Total           int64                `json:"total"`
	PaymentIntentID string               `json:"payment_intent_id"`
	ClientSecret    string               `json:"client_secret"`
}

// StartCheckout はカートを検証し、決済intentを作って返す。
// 価格はここで現在値を取り直す（カート追加時の値は使わない）。
func (u *CheckoutUsecase) StartCheckout(ctx context.Context, userID int64) (StartCheckoutOutput, error) {
	if userID <= 0 {
		return StartCheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	modules, err := u.resolveCartModules(ctx, userID)
	if err != nil {
		return StartCheckoutOutput{}, err
	}

	items := make([]CheckoutItemOutput, 0, len(modules))
	ids := make([]string, 0, len(modules))
	var total int64 = 0
	for _, m := range modules {
		items = append(items, CheckoutItemOutput{ModuleID: m.ID, Name: m.Name, Price: m.Price})
		ids = append(ids, strconv.FormatInt(m.ID, 10))
		total += m.Price
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return StartCheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// metadataはWebhook側のバックフィルで注文を復元するための唯一の手掛かり
	intent, err := u.intents.CreateIntent(ctx, payment.CreateIntentInput{
		Amount:   total,
		Currency: u.currency,
		Metadata: map[string]string{
			"username":   user.Username,
			"cart_items": strings.Join(ids, ","),
		},
	})
	if err != nil {
		return StartCheckoutOutput{}, NewHTTPError(http.StatusBadGateway, "payment system error")
	}

	return StartCheckoutOutput{
		Items:           items,
		Total:           total,
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
	}, nil
}

type SubmitCheckoutInput struct {
	FullName        string
	Email           string
	PhoneNumber     string
	PaymentIntentID string
	ClientSecret    string
}

type SubmitCheckoutOutput struct {
	OrderNumber string `json:"order_number"`
	Total       int64  `json:"total"`
}

// SubmitCheckout はチェックアウト確定。
// 処理順序が重要：注文 → 明細 → 利用権の順に書く。明細書き込みで失敗したら
// 注文を補償削除する（トランザクションではなく明示的なロールバック）。
func (u *CheckoutUsecase) SubmitCheckout(ctx context.Context, userID int64, in SubmitCheckoutInput) (SubmitCheckoutOutput, error) {
	if userID <= 0 {
		return SubmitCheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.FullName) == "" {
		return SubmitCheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "full_name required")
	}
	if !isValidEmail(in.Email) {
		return SubmitCheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid email")
	}

	modules, err := u.resolveCartModules(ctx, userID)
	if err != nil {
		return SubmitCheckoutOutput{}, err
	}

	cart, err := u.cartRepo.FindActiveByUserID(ctx, userID)
	if err != nil {
		return SubmitCheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	lineItems := make([]model.OrderLineItem, 0, len(modules))
	var total int64 = 0
	for _, m := range modules {
		lineItems = append(lineItems, model.OrderLineItem{
			ModuleID:           m.ID,
			ModuleNameSnapshot: m.Name,
			Amount:             m.Price,
		})
		total += m.Price
	}

	paymentRef := resolvePaymentRef(in.PaymentIntentID, in.ClientSecret)

	order, err := u.orderRepo.Create(ctx, model.Order{
		OrderNumber: NewOrderNumber(),
		UserID:      &userID,
		FullName:    strings.TrimSpace(in.FullName),
		Email:       strings.TrimSpace(in.Email),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		Total:       total,
		PaymentRef:  paymentRef,
	})
	if err == repo.ErrConflict {
		// Webhookのバックフィルが先に同じ決済の注文を作っていた。
		// 取り直して勝った側の結果に乗る。
		existing, found, err2 := u.orderRepo.FindByPaymentRef(ctx, paymentRef)
		if err2 != nil || !found {
			return SubmitCheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		u.grantAll(ctx, userID, modules)
		u.finishCart(ctx, cart.ID)
		return SubmitCheckoutOutput{OrderNumber: existing.OrderNumber, Total: existing.Total}, nil
	}
	if err != nil {
		return SubmitCheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.orderItemRepo.CreateBulk(ctx, order.ID, lineItems); err != nil {
		// 明細なしの注文を残さない
		if delErr := u.orderRepo.Delete(ctx, order.ID); delErr != nil {
			log.Printf("checkout: compensating delete failed for order %s: %v", order.OrderNumber, delErr)
		}
		return SubmitCheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.grantAll(ctx, userID, modules)
	u.finishCart(ctx, cart.ID)

	//確認メールはベストエフォート
	if err := u.mailer.SendOrderConfirmation(ctx, order, lineItems); err != nil {
		log.Printf("checkout: confirmation mail failed for order %s: %v", order.OrderNumber, err)
	}

	return SubmitCheckoutOutput{OrderNumber: order.OrderNumber, Total: order.Total}, nil
}

type OrderDetailOutput struct {
	OrderNumber string            `json:"order_number"`
	FullName    string            `json:"full_name"`
	Email       string            `json:"email"`
	Total       int64             `json:"total"`
	CreatedAt   time.Time         `json:"created_at"`
	Items       []OrderItemOutput `json:"items"`
}

type OrderItemOutput struct {
	ModuleID int64  `json:"module_id"`
	Name     string `json:"name"`
	Amount   int64  `json:"amount"`
}

// GetSuccess は注文完了ページ用。本人の注文以外は「存在しない扱い」。
func (u *CheckoutUsecase) GetSuccess(ctx context.Context, userID int64, orderNumber string) (OrderDetailOutput, error) {
	if userID <= 0 {
		return OrderDetailOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderNumber == "" {
		return OrderDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid order number")
	}

	o, err := u.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err == repo.ErrNotFound {
		return OrderDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.UserID == nil || *o.UserID != userID {
		return OrderDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	items, err := u.orderItemRepo.ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toOrderDetailOutput(o, items), nil
}

// カートを読み、全モジュールを解決して返す。空なら400、不正な明細も400。
func (u *CheckoutUsecase) resolveCartModules(ctx context.Context, userID int64) ([]model.Module, error) {
	cart, err := u.cartRepo.FindActiveByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return nil, NewHTTPError(http.StatusBadRequest, "cart empty")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	cartItems, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(cartItems) == 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "cart empty")
	}

	modules := make([]model.Module, 0, len(cartItems))
	for _, ci := range cartItems {
		m, err := u.moduleRepo.FindByID(ctx, ci.ModuleID)
		if err == repo.ErrNotFound {
			return nil, NewHTTPError(http.StatusBadRequest, "invalid item in cart")
		}
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !m.IsActive {
			return nil, NewHTTPError(http.StatusBadRequest, "invalid item in cart")
		}
		modules = append(modules, m)
	}
	return modules, nil
}

// 利用権付与。冪等なので失敗だけログに残して続行する。
func (u *CheckoutUsecase) grantAll(ctx context.Context, userID int64, modules []model.Module) {
	for _, m := range modules {
		if err := u.entitlements.Grant(ctx, userID, m.ID); err != nil {
			log.Printf("checkout: grant failed user=%d module=%d: %v", userID, m.ID, err)
		}
	}
}

func (u *CheckoutUsecase) finishCart(ctx context.Context, cartID int64) {
	if err := u.cartRepo.UpdateStatus(ctx, cartID, model.CartStatusCheckedOut); err != nil {
		log.Printf("checkout: cart status update failed cart=%d: %v", cartID, err)
	}
	if err := u.cartRepo.Clear(ctx, cartID); err != nil {
		log.Printf("checkout: cart clear failed cart=%d: %v", cartID, err)
	}
}

// 決済参照の解決。intent ID → client_secret → プレースホルダの順。
// プレースホルダで作られた注文は後続のWebhookと絶対に照合できないため、
// 運用で追えるよう必ず警告を残す。
func resolvePaymentRef(paymentIntentID string, clientSecret string) string {
	if paymentIntentID != "" {
		return paymentIntentID
	}
	if pid := payment.IntentIDFromClientSecret(clientSecret); pid != "" {
		return pid
	}
	ref := fmt.Sprintf("temp_%d", time.Now().UnixNano())
	log.Printf("checkout: no client payment reference, using placeholder %s (webhook reconciliation impossible)", ref)
	return ref
}

// 注文番号はUUIDの16進を大文字化したもの
func NewOrderNumber() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

func isValidEmail(email string) bool {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return false
	}
	_, err := mail.ParseAddress(trimmed)
	return err == nil
}

func toOrderDetailOutput(o model.Order, items []model.OrderLineItem) OrderDetailOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ModuleID: it.ModuleID,
			Name:     it.ModuleNameSnapshot,
			Amount:   it.Amount,
		})
	}
	return OrderDetailOutput{
		OrderNumber: o.OrderNumber,
		FullName:    o.FullName,
		Email:       o.Email,
		Total:       o.Total,
		CreatedAt:   o.CreatedAt,
		Items:       outItems,
	}
}
