package handler

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"app/internal/payment"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 決済プロバイダからのコールバック。
// 認証はJWTではなく署名ヘッダで行う。
type WebhookHandler struct {
	uc            *usecase.WebhookUsecase
	webhookSecret string
}

// DI
func NewWebhookHandler(uc *usecase.WebhookUsecase, webhookSecret string) *WebhookHandler {
	return &WebhookHandler{uc: uc, webhookSecret: webhookSecret}
}

func (h *WebhookHandler) RegisterRoutes(e *echo.Echo) {
	// POST以外はechoが405を返す
	e.POST("/webhooks/payment", h.handle)
}

func (h *WebhookHandler) handle(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	// 署名検証はペイロード解釈より先
	sig := c.Request().Header.Get(payment.SignatureHeader)
	if err := payment.VerifySignature(h.webhookSecret, sig, body, time.Now()); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid signature"})
	}

	ev, err := payment.ParseEvent(body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "malformed event"})
	}

	out, err := h.uc.HandleEvent(c.Request().Context(), ev)
	if err != nil {
		return writeError(c, err)
	}

	msg := fmt.Sprintf("Webhook received: %s | %s", ev.Type, out.Outcome)
	if out.OrderNumber != "" {
		msg = fmt.Sprintf("%s | order %s", msg, out.OrderNumber)
	}
	return c.String(http.StatusOK, msg)
}
