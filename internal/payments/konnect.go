package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// KonnectConfig is fixed at startup.
type KonnectConfig struct {
	BaseURL                string
	APIKey                 string
	WalletID               string
	CallbackURL            string
	Currency               string
	AcceptedPaymentMethods []string
	Lifespan               int // minutes
	CheckoutForm           bool
	AddPaymentFeesToAmount bool
	Theme                  string
	Timeout                time.Duration
}

type KonnectAdapter struct {
	cfg    KonnectConfig
	client *resty.Client
}

func NewKonnectAdapter(cfg KonnectConfig) *KonnectAdapter {
	if cfg.Currency == "" {
		cfg.Currency = "TND"
	}
	if len(cfg.AcceptedPaymentMethods) == 0 {
		cfg.AcceptedPaymentMethods = []string{"wallet", "bank_card", "e-DINAR"}
	}
	if cfg.Lifespan <= 0 {
		cfg.Lifespan = 10
	}
	if cfg.Theme == "" {
		cfg.Theme = "dark"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("x-api-key", cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &KonnectAdapter{cfg: cfg, client: client}
}

type konnectInitPayload struct {
	ReceiverWalletID       string   `json:"receiverWalletId"`
	Token                  string   `json:"token"`
	Amount                 int64    `json:"amount"`
	Type                   string   `json:"type"`
	Description            string   `json:"description"`
	AcceptedPaymentMethods []string `json:"acceptedPaymentMethods"`
	Lifespan               int      `json:"lifespan"`
	CheckoutForm           bool     `json:"checkoutForm"`
	AddPaymentFeesToAmount bool     `json:"addPaymentFeesToAmount"`
	FirstName              string   `json:"firstName,omitempty"`
	LastName               string   `json:"lastName,omitempty"`
	PhoneNumber            string   `json:"phoneNumber,omitempty"`
	Email                  string   `json:"email,omitempty"`
	OrderID                string   `json:"orderId"`
	Webhook                string   `json:"webhook"`
	Theme                  string   `json:"theme"`
}

func (k *KonnectAdapter) InitiatePayment(ctx context.Context, req PaymentRequest) (PaymentResponse, error) {
	payload := konnectInitPayload{
		ReceiverWalletID:       k.cfg.WalletID,
		Token:                  k.cfg.Currency,
		Amount:                 req.Amount,
		Type:                   "immediate",
		Description:            req.Description,
		AcceptedPaymentMethods: k.cfg.AcceptedPaymentMethods,
		Lifespan:               k.cfg.Lifespan,
		CheckoutForm:           k.cfg.CheckoutForm,
		AddPaymentFeesToAmount: k.cfg.AddPaymentFeesToAmount,
		FirstName:              req.FirstName,
		LastName:               req.LastName,
		PhoneNumber:            req.PhoneNumber,
		Email:                  req.Email,
		OrderID:                req.OrderID,
		Webhook:                k.cfg.CallbackURL,
		Theme:                  k.cfg.Theme,
	}

	resp, err := k.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/init-payment")
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("%w: konnect init-payment request: %v", ErrGateway, err)
	}

	raw := resp.Body()
	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return PaymentResponse{}, fmt.Errorf("%w: konnect init-payment failed: http=%d body=%s", ErrGateway, resp.StatusCode(), string(raw))
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return PaymentResponse{}, fmt.Errorf("%w: konnect init-payment decode: %v body=%s", ErrGateway, err, string(raw))
	}

	payURL, _ := body["payUrl"].(string)

	return PaymentResponse{
		PaymentRef: ExtractPaymentRef(body),
		PayURL:     payURL,
		Raw:        json.RawMessage(raw),
	}, nil
}

type konnectPaymentEnvelope struct {
	Payment *struct {
		Status       string `json:"status"`
		Transactions []struct {
			Status string `json:"status"`
		} `json:"transactions"`
		PaymentDetails *struct {
			Email string `json:"email"`
		} `json:"paymentDetails"`
	} `json:"payment"`
}

func (k *KonnectAdapter) GetPayment(ctx context.Context, paymentRef string) (PaymentStatus, error) {
	ref := strings.TrimSpace(paymentRef)
	if ref == "" {
		return PaymentStatus{}, fmt.Errorf("%w: konnect lookup requires a payment reference", ErrGateway)
	}

	resp, err := k.client.R().
		SetContext(ctx).
		Get("/" + url.PathEscape(ref))
	if err != nil {
		return PaymentStatus{}, fmt.Errorf("%w: konnect lookup request: %v", ErrGateway, err)
	}

	raw := resp.Body()
	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return PaymentStatus{}, fmt.Errorf("%w: konnect lookup failed: http=%d body=%s", ErrGateway, resp.StatusCode(), string(raw))
	}

	var env konnectPaymentEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return PaymentStatus{}, fmt.Errorf("%w: konnect lookup decode: %v body=%s", ErrGateway, err, string(raw))
	}
	if env.Payment == nil {
		return PaymentStatus{}, fmt.Errorf("%w: konnect lookup: response has no payment object", ErrGateway)
	}

	st := PaymentStatus{
		Status: strings.TrimSpace(env.Payment.Status),
		Raw:    json.RawMessage(raw),
	}
	if len(env.Payment.Transactions) > 0 {
		st.TransactionStatus = strings.TrimSpace(env.Payment.Transactions[0].Status)
	}
	if env.Payment.PaymentDetails != nil {
		st.Email = strings.TrimSpace(env.Payment.PaymentDetails.Email)
	}
	return st, nil
}
