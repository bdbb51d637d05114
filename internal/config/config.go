package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	JWTSecret string // JWT署名シークレット

	PaymentWebhookSecret string // Webhook署名の共有シークレット
	PaymentCurrency      string // 決済通貨（sek/usd等）

	// Webhook処理が注文を探すときの再試行ポリシー。
	// 同期フローの書き込みが見えるまでの遅延を吸収する。
	WebhookLookupAttempts int
	WebhookLookupDelay    time.Duration

	MailFrom string // 確認メールの送信元

	GoEnv string // dev/prod
}

// Loadは環境変数から設定を組み立てる。
func Load() (Config, error) {
	cfg := Config{
		Port:                 getenv("PORT", "8080"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		PaymentWebhookSecret: os.Getenv("PAYMENT_WEBHOOK_SECRET"),
		PaymentCurrency:      getenv("PAYMENT_CURRENCY", "sek"),
		MailFrom:             getenv("MAIL_FROM", "noreply@example.com"),
		GoEnv:                getenv("GO_ENV", "dev"),
	}

	attempts, err := getenvInt("WEBHOOK_LOOKUP_ATTEMPTS", 5)
	if err != nil {
		return Config{}, err
	}
	cfg.WebhookLookupAttempts = attempts

	delayMS, err := getenvInt("WEBHOOK_LOOKUP_DELAY_MS", 1000)
	if err != nil {
		return Config{}, err
	}
	cfg.WebhookLookupDelay = time.Duration(delayMS) * time.Millisecond

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.PaymentWebhookSecret == "" {
		return Config{}, fmt.Errorf("PAYMENT_WEBHOOK_SECRET is required")
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}
