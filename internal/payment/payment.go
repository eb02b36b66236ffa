// Package payment normalizes external payment triggers into outcomes the
// reconciliation service can apply. Two sources exist: the simulated
// in-app "pay" action and the gateway webhook. Swapping the simulation
// for a real gateway only requires a new Source implementation.
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrVerificationFailed = errors.New("webhook signature verification failed")
	ErrMissingOrderID     = errors.New("orderId is required")
	ErrMalformedPayload   = errors.New("malformed payment payload")
)

// Outcome is a normalized payment result for one order.
type Outcome struct {
	OrderID   int32
	Succeeded bool
	Reference string
	Note      string
}

// Source turns a raw request payload into an Outcome. Verification of
// payload authenticity happens here, before any order state is touched.
type Source interface {
	Parse(raw []byte) (Outcome, error)
}

// CheckoutURL formats the reference handed back to the client after
// checkout to continue the payment flow. The amount is rounded to whole
// currency units, which is what the simulation page expects.
func CheckoutURL(origin string, orderID int32, total decimal.Decimal, code uuid.UUID) string {
	return fmt.Sprintf("%s/payment-simulation?orderId=%d&amount=%s&code=%s",
		origin, orderID, total.Round(0).String(), code)
}

// --- Webhook source ---

// WebhookData is the verified payload of a gateway webhook.
type WebhookData struct {
	OrderCode int32  `json:"orderCode"`
	Amount    int64  `json:"amount"`
	Reference string `json:"reference"`
}

type webhookEnvelope struct {
	Data      WebhookData `json:"data"`
	Signature string      `json:"signature"`
}

// WebhookSource verifies gateway webhooks with an HMAC-SHA256 checksum
// over the data fields, sorted by key, before producing an outcome.
type WebhookSource struct {
	checksumKey string
}

func NewWebhookSource(checksumKey string) *WebhookSource {
	return &WebhookSource{checksumKey: checksumKey}
}

// Parse verifies the payload signature and returns a success outcome.
// A gateway only delivers webhooks for settled payments; failures and
// cancellations arrive through the simulation/cancel path.
func (s *WebhookSource) Parse(raw []byte) (Outcome, error) {
	var env webhookEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if env.Data.OrderCode == 0 {
		return Outcome{}, ErrMissingOrderID
	}

	expected := s.Sign(env.Data)
	if !hmac.Equal([]byte(expected), []byte(env.Signature)) {
		return Outcome{}, ErrVerificationFailed
	}

	return Outcome{
		OrderID:   env.Data.OrderCode,
		Succeeded: true,
		Reference: env.Data.Reference,
	}, nil
}

// Sign computes the checksum the gateway attaches to a webhook payload:
// hex(HMAC-SHA256(key, "amount={}&orderCode={}&reference={}")).
func (s *WebhookSource) Sign(data WebhookData) string {
	msg := fmt.Sprintf("amount=%d&orderCode=%d&reference=%s", data.Amount, data.OrderCode, data.Reference)
	mac := hmac.New(sha256.New, []byte(s.checksumKey))
	mac.Write([]byte(msg))
	return hex.EncodeToString(mac.Sum(nil))
}

// --- Simulation source ---

// SimulationSource accepts the in-app simulated pay/cancel action. No
// cryptographic verification: the simulation endpoint is as trusted as
// the rest of the session-scoped API.
type SimulationSource struct{}

func NewSimulationSource() *SimulationSource {
	return &SimulationSource{}
}

type simulationPayload struct {
	OrderID int32  `json:"orderId"`
	Success bool   `json:"success"`
	Note    string `json:"note"`
}

func (s *SimulationSource) Parse(raw []byte) (Outcome, error) {
	var p simulationPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if p.OrderID == 0 {
		return Outcome{}, ErrMissingOrderID
	}
	return Outcome{
		OrderID:   p.OrderID,
		Succeeded: p.Success,
		Reference: "SIMULATION",
		Note:      p.Note,
	}, nil
}
