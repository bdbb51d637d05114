package payment

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// 決済プロバイダ側のPaymentIntent。
type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
	Metadata     map[string]string
}

type CreateIntentInput struct {
	Amount   int64
	Currency string
	Metadata map[string]string
}

// プロバイダのintent作成API。実クライアントはこのリポジトリの範囲外。
type IntentClient interface {
	CreateIntent(ctx context.Context, in CreateIntentInput) (Intent, error)
}

// 外部APIを呼ばない開発用クライアント。形式だけ本物に合わせる。
type StaticIntentClient struct{}

func NewStaticIntentClient() *StaticIntentClient {
	return &StaticIntentClient{}
}

func (c *StaticIntentClient) CreateIntent(ctx context.Context, in CreateIntentInput) (Intent, error) {
	id := "pi_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	return Intent{
		ID:           id,
		ClientSecret: id + "_secret_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Amount:       in.Amount,
		Currency:     in.Currency,
		Metadata:     in.Metadata,
	}, nil
}

// client_secretからトランザクションIDを取り出す（"pi_x_secret_y" → "pi_x"）。
func IntentIDFromClientSecret(clientSecret string) string {
	idx := strings.Index(clientSecret, "_secret")
	if idx <= 0 {
		return ""
	}
	return clientSecret[:idx]
}
