package payment

import (
	"encoding/json"
	"errors"
)

const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentCreated   = "payment_intent.created"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// メタデータでゲストを表すマーカー
const AnonymousUser = "AnonymousUser"

var ErrMalformedEvent = errors.New("malformed event payload")

// 正規化済みのWebhookイベント。
// プロバイダのペイロード形式はここで吸収し、業務ロジックには二度と見せない。
type Event struct {
	Type          string
	TransactionID string
	Amount        int64
	Currency      string
	Username      string
	CartItemIDs   string // カンマ区切りのモジュールID
	BillingName   string
	BillingEmail  string
}

type rawEvent struct {
	Type string `json:"type"`
	Data struct {
		Object rawIntent `json:"object"`
	} `json:"data"`
}

type rawIntent struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata"`
	Charges  struct {
		Data []struct {
			BillingDetails struct {
				Name  string `json:"name"`
				Email string `json:"email"`
			} `json:"billing_details"`
		} `json:"data"`
	} `json:"charges"`
}

// ParseEvent は検証済みのボディを正規化イベントへ変換する。
func ParseEvent(payload []byte) (Event, error) {
	var raw rawEvent
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Event{}, ErrMalformedEvent
	}
	if raw.Type == "" || raw.Data.Object.ID == "" {
		return Event{}, ErrMalformedEvent
	}

	ev := Event{
		Type:          raw.Type,
		TransactionID: raw.Data.Object.ID,
		Amount:        raw.Data.Object.Amount,
		Currency:      raw.Data.Object.Currency,
	}
	if md := raw.Data.Object.Metadata; md != nil {
		ev.Username = md["username"]
		ev.CartItemIDs = md["cart_items"]
	}
	if len(raw.Data.Object.Charges.Data) > 0 {
		bd := raw.Data.Object.Charges.Data[0].BillingDetails
		ev.BillingName = bd.Name
		ev.BillingEmail = bd.Email
	}
	return ev, nil
}
