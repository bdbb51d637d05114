package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"app/internal/payment"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

const testWebhookSecret = "whsec_test"

func postWebhook(t *testing.T, body string, header string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	uc := usecase.NewWebhookUsecase(nil, nil, nil, nil, nil, nil, usecase.RetryPolicy{})
	NewWebhookHandler(uc, testWebhookSecret).RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", strings.NewReader(body))
	if header != "" {
		req.Header.Set(payment.SignatureHeader, header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// 署名が無い・壊れている・改ざんされているリクエストは本文を読まずに拒否
func TestWebhook_RejectsBadSignature(t *testing.T) {
	body := `{"type":"payment_intent.payment_failed","data":{"object":{"id":"pi_x"}}}`

	//ヘッダなし
	rec := postWebhook(t, body, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid signature")

	//別の本文に対する署名
	header := payment.Sign(testWebhookSecret, time.Now(), []byte(`{"other":true}`))
	rec = postWebhook(t, body, header)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid signature")
}

func TestWebhook_SignedButMalformedEvent(t *testing.T) {
	body := `{"type":""}`
	header := payment.Sign(testWebhookSecret, time.Now(), []byte(body))

	rec := postWebhook(t, body, header)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "malformed event")
}

// 正しく署名された失敗通知は200で受理
func TestWebhook_AcceptsSignedEvent(t *testing.T) {
	body := `{"type":"payment_intent.payment_failed","data":{"object":{"id":"pi_x"}}}`
	header := payment.Sign(testWebhookSecret, time.Now(), []byte(body))

	rec := postWebhook(t, body, header)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Webhook received: payment_intent.payment_failed | payment_failed", rec.Body.String())
}

// 対象外のイベント種別も200で受理（再送を止めるため）
func TestWebhook_AcksUnhandledType(t *testing.T) {
	body := `{"type":"charge.refunded","data":{"object":{"id":"ch_1"}}}`
	header := payment.Sign(testWebhookSecret, time.Now(), []byte(body))

	rec := postWebhook(t, body, header)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Webhook received: charge.refunded | unhandled", rec.Body.String())
}
