package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmabill/backend/internal/domain/billing"
	"github.com/farmabill/backend/internal/infrastructure/config"
)

func newTestAdapter(t *testing.T, baseURL string) *MercadoPagoAdapter {
	t.Helper()
	adapter, err := NewMercadoPagoAdapter(config.MercadoPagoConfig{
		BaseURL:       baseURL,
		AccessToken:   "TEST-token",
		WebhookSecret: "whsec",
		Timeout:       5 * time.Second,
	})
	require.NoError(t, err)
	return adapter
}

func TestNewAdapterRequiresAccessToken(t *testing.T) {
	_, err := NewMercadoPagoAdapter(config.MercadoPagoConfig{})
	assert.ErrorIs(t, err, billing.ErrGatewayNotConfigured)
}

func TestCreatePreference(t *testing.T) {
	var gotAuth string
	var gotBody createPreferenceBody

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/checkout/preferences", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `{"id":"pref-123","init_point":"https://mp.test/checkout/pref-123"}`)
	}))
	defer server.Close()

	adapter := newTestAdapter(t, server.URL)
	pref, err := adapter.CreatePreference(context.Background(), &billing.CreatePreferenceRequest{
		TenantID:          uuid.New(),
		TransactionID:     uuid.New(),
		TransactionNumber: "INV-20260315-0001",
		Amount:            decimal.RequireFromString("1500.50"),
		Currency:          "ARS",
		Title:             "Factura INV-20260315-0001",
		PayerPhone:        "+5491122334455",
	})
	require.NoError(t, err)

	assert.Equal(t, "pref-123", pref.PreferenceID)
	assert.Equal(t, "https://mp.test/checkout/pref-123", pref.PaymentLink)
	assert.Equal(t, "Bearer TEST-token", gotAuth)
	require.Len(t, gotBody.Items, 1)
	assert.Equal(t, "ARS", gotBody.Items[0].CurrencyID)
	assert.True(t, gotBody.Items[0].UnitPrice.Equal(decimal.RequireFromString("1500.50")))
	assert.Equal(t, "INV-20260315-0001", gotBody.ExternalReference)
	assert.Equal(t, "+5491122334455", gotBody.Payer.Phone.Number)
}

func TestGetPayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/payments/99001122", r.URL.Path)
		fmt.Fprint(w, `{
			"id": 99001122,
			"status": "approved",
			"transaction_amount": 1500.50,
			"currency_id": "ARS",
			"payment_method_id": "account_money",
			"date_approved": "2026-03-15T10:30:00Z",
			"external_reference": "INV-20260315-0001",
			"preference_id": "pref-123"
		}`)
	}))
	defer server.Close()

	adapter := newTestAdapter(t, server.URL)
	payment, err := adapter.GetPayment(context.Background(), "99001122")
	require.NoError(t, err)

	assert.Equal(t, "99001122", payment.PaymentID)
	assert.Equal(t, billing.GatewayPaymentApproved, payment.Status)
	assert.Equal(t, "INV-20260315-0001", payment.TransactionNumber)
	assert.Equal(t, "account_money", payment.PaymentMethod)
	require.NotNil(t, payment.PaidAt)
	assert.Equal(t, 2026, payment.PaidAt.Year())
}

func TestGetPaymentNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	adapter := newTestAdapter(t, server.URL)
	_, err := adapter.GetPayment(context.Background(), "missing")
	assert.ErrorIs(t, err, billing.ErrGatewayPaymentNotFound)
}

func signWebhook(secret, dataID, requestID, ts string) string {
	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", dataID, requestID, ts)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(manifest))
	return fmt.Sprintf("ts=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifyWebhook(t *testing.T) {
	adapter := newTestAdapter(t, "http://unused")
	payload := []byte(`{"id":777,"type":"payment","action":"payment.updated","data":{"id":"99001122"}}`)
	signature := signWebhook("whsec", "99001122", "req-abc", "1765800000")

	notif, err := adapter.VerifyWebhook(payload, signature, "req-abc")
	require.NoError(t, err)
	assert.Equal(t, "777", notif.EventID)
	assert.Equal(t, "payment.updated", notif.EventType)
	assert.Equal(t, "99001122", notif.PaymentID)
}

func TestVerifyWebhookRejectsBadSignature(t *testing.T) {
	adapter := newTestAdapter(t, "http://unused")
	payload := []byte(`{"id":777,"type":"payment","data":{"id":"99001122"}}`)

	cases := map[string]struct {
		signature string
		requestID string
	}{
		"tampered hmac":     {signature: "ts=1765800000,v1=deadbeef", requestID: "req-abc"},
		"wrong request id":  {signature: signWebhook("whsec", "99001122", "req-abc", "1765800000"), requestID: "req-other"},
		"missing ts":        {signature: "v1=deadbeef", requestID: "req-abc"},
		"empty header":      {signature: "", requestID: "req-abc"},
		"secret mismatch":   {signature: signWebhook("other-secret", "99001122", "req-abc", "1765800000"), requestID: "req-abc"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := adapter.VerifyWebhook(payload, tc.signature, tc.requestID)
			assert.ErrorIs(t, err, billing.ErrGatewayInvalidCallback)
		})
	}
}

func TestMapPaymentStatus(t *testing.T) {
	assert.Equal(t, billing.GatewayPaymentApproved, mapPaymentStatus("approved"))
	assert.Equal(t, billing.GatewayPaymentRejected, mapPaymentStatus("rejected"))
	assert.Equal(t, billing.GatewayPaymentRefunded, mapPaymentStatus("charged_back"))
	assert.Equal(t, billing.GatewayPaymentPending, mapPaymentStatus("in_process"))
	assert.Equal(t, billing.GatewayPaymentPending, mapPaymentStatus("something_new"))
}
