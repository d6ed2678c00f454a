package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmabill/backend/internal/domain/billing"
	"github.com/farmabill/backend/internal/infrastructure/config"
)

const (
	preferencesPath = "/checkout/preferences"
	paymentsPath    = "/v1/payments/%s"
)

// MercadoPagoAdapter implements billing.PaymentGateway against the
// MercadoPago REST API.
type MercadoPagoAdapter struct {
	cfg        config.MercadoPagoConfig
	httpClient *http.Client
	now        func() time.Time
}

// NewMercadoPagoAdapter creates the adapter from configuration
func NewMercadoPagoAdapter(cfg config.MercadoPagoConfig) (*MercadoPagoAdapter, error) {
	if cfg.AccessToken == "" {
		return nil, billing.ErrGatewayNotConfigured
	}
	return &MercadoPagoAdapter{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		now:        time.Now,
	}, nil
}

type preferenceItem struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	CurrencyID  string          `json:"currency_id"`
}

type preferencePayer struct {
	Phone struct {
		Number string `json:"number,omitempty"`
	} `json:"phone"`
}

type createPreferenceBody struct {
	Items               []preferenceItem `json:"items"`
	ExternalReference   string           `json:"external_reference"`
	NotificationURL     string           `json:"notification_url,omitempty"`
	Payer               *preferencePayer `json:"payer,omitempty"`
	Expires             bool             `json:"expires,omitempty"`
	ExpirationDateTo    string           `json:"expiration_date_to,omitempty"`
	StatementDescriptor string           `json:"statement_descriptor,omitempty"`
}

type preferenceResponse struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

type paymentResponse struct {
	ID                json.Number     `json:"id"`
	Status            string          `json:"status"`
	TransactionAmount decimal.Decimal `json:"transaction_amount"`
	CurrencyID        string          `json:"currency_id"`
	PaymentMethodID   string          `json:"payment_method_id"`
	DateApproved      *time.Time      `json:"date_approved"`
	ExternalReference string          `json:"external_reference"`
	PreferenceID      string          `json:"preference_id"`
}

// CreatePreference creates a hosted checkout preference
func (a *MercadoPagoAdapter) CreatePreference(ctx context.Context, req *billing.CreatePreferenceRequest) (*billing.PaymentPreference, error) {
	body := createPreferenceBody{
		Items: []preferenceItem{{
			Title:       req.Title,
			Description: req.Description,
			Quantity:    1,
			UnitPrice:   req.Amount,
			CurrencyID:  req.Currency,
		}},
		ExternalReference:   req.TransactionNumber,
		NotificationURL:     a.cfg.NotificationURL,
		StatementDescriptor: "FARMACIA",
	}
	if req.PayerPhone != "" {
		payer := &preferencePayer{}
		payer.Phone.Number = req.PayerPhone
		body.Payer = payer
	}
	if !req.ExpiresAt.IsZero() {
		body.Expires = true
		body.ExpirationDateTo = req.ExpiresAt.Format(time.RFC3339)
	}

	respBody, err := a.doRequest(ctx, http.MethodPost, preferencesPath, body)
	if err != nil {
		return nil, err
	}

	var resp preferenceResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", billing.ErrGatewayInvalidResponse, err)
	}
	if resp.ID == "" || resp.InitPoint == "" {
		return nil, billing.ErrGatewayInvalidResponse
	}

	return &billing.PaymentPreference{
		PreferenceID: resp.ID,
		PaymentLink:  resp.InitPoint,
		ExpiresAt:    req.ExpiresAt,
	}, nil
}

// GetPayment fetches a payment's current state
func (a *MercadoPagoAdapter) GetPayment(ctx context.Context, paymentID string) (*billing.GatewayPayment, error) {
	respBody, err := a.doRequest(ctx, http.MethodGet, fmt.Sprintf(paymentsPath, paymentID), nil)
	if err != nil {
		return nil, err
	}

	var resp paymentResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", billing.ErrGatewayInvalidResponse, err)
	}

	return &billing.GatewayPayment{
		PaymentID:         resp.ID.String(),
		PreferenceID:      resp.PreferenceID,
		TransactionNumber: resp.ExternalReference,
		Status:            mapPaymentStatus(resp.Status),
		Amount:            resp.TransactionAmount,
		Currency:          resp.CurrencyID,
		PaymentMethod:     resp.PaymentMethodID,
		PaidAt:            resp.DateApproved,
	}, nil
}

type webhookBody struct {
	ID     json.Number `json:"id"`
	Type   string      `json:"type"`
	Action string      `json:"action"`
	Data   struct {
		ID json.Number `json:"id"`
	} `json:"data"`
}

// VerifyWebhook validates the x-signature header and parses the notification.
// The header carries "ts=<unix>,v1=<hmac>"; the HMAC-SHA256 is computed over
// "id:<data.id>;request-id:<x-request-id>;ts:<ts>;" with the webhook secret.
func (a *MercadoPagoAdapter) VerifyWebhook(payload []byte, signature, requestID string) (*billing.WebhookNotification, error) {
	if a.cfg.WebhookSecret == "" {
		return nil, billing.ErrGatewayNotConfigured
	}

	ts, v1, err := parseSignatureHeader(signature)
	if err != nil {
		return nil, err
	}

	var body webhookBody
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("%w: %v", billing.ErrGatewayInvalidCallback, err)
	}
	dataID := strings.ToLower(body.Data.ID.String())
	if dataID == "" {
		return nil, billing.ErrGatewayInvalidCallback
	}

	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", dataID, requestID, ts)
	mac := hmac.New(sha256.New, []byte(a.cfg.WebhookSecret))
	mac.Write([]byte(manifest))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(v1)) {
		return nil, billing.ErrGatewayInvalidCallback
	}

	eventType := body.Action
	if eventType == "" {
		eventType = body.Type
	}

	return &billing.WebhookNotification{
		EventID:   body.ID.String(),
		EventType: eventType,
		PaymentID: body.Data.ID.String(),
		Received:  a.now(),
	}, nil
}

func parseSignatureHeader(signature string) (ts, v1 string, err error) {
	for _, part := range strings.Split(signature, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "ts":
			ts = value
		case "v1":
			v1 = value
		}
	}
	if ts == "" || v1 == "" {
		return "", "", billing.ErrGatewayInvalidCallback
	}
	return ts, v1, nil
}

func (a *MercadoPagoAdapter) doRequest(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("mercadopago: marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", billing.ErrGatewayRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", billing.ErrGatewayInvalidResponse, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, billing.ErrGatewayPaymentNotFound
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: status %d: %s", billing.ErrGatewayRequestFailed, resp.StatusCode, respBody)
	}

	return respBody, nil
}

func mapPaymentStatus(status string) billing.GatewayPaymentStatus {
	switch status {
	case "approved":
		return billing.GatewayPaymentApproved
	case "rejected":
		return billing.GatewayPaymentRejected
	case "cancelled":
		return billing.GatewayPaymentCancelled
	case "refunded", "charged_back":
		return billing.GatewayPaymentRefunded
	default:
		// pending, in_process, authorized and anything unknown stay pending
		return billing.GatewayPaymentPending
	}
}

var _ billing.PaymentGateway = (*MercadoPagoAdapter)(nil)
