package mail

import (
	"context"
	"fmt"
	"log"

	"app/internal/domain/model"
)

// 実際には送らずログに書くだけの実装。
// 送信失敗でチェックアウトを落とさないのは呼び出し側の責務。
// メール基盤はこのリポジトリの範囲外なので、本番ではこのinterfaceを差し替える。
type LogMailer struct {
	From string
}

func NewLogMailer(from string) *LogMailer {
	return &LogMailer{From: from}
}

func (m *LogMailer) SendOrderConfirmation(ctx context.Context, order model.Order, items []model.OrderLineItem) error {
	subject := fmt.Sprintf("Order confirmation %s", order.OrderNumber)
	log.Printf("mail: to=%s from=%s subject=%q items=%d total=%d", order.Email, m.From, subject, len(items), order.Total)
	return nil
}
