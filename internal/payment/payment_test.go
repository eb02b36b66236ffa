package payment_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/forkful/api/internal/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestCheckoutURL(t *testing.T) {
	code := uuid.MustParse("a3bb189e-8bf9-3888-9912-ace4e6543002")
	total := decimal.RequireFromString("69.95")

	got := payment.CheckoutURL("http://localhost:3001", 42, total, code)
	want := "http://localhost:3001/payment-simulation?orderId=42&amount=70&code=a3bb189e-8bf9-3888-9912-ace4e6543002"
	if got != want {
		t.Errorf("CheckoutURL = %q, want %q", got, want)
	}
}

func TestWebhookSourceParse(t *testing.T) {
	src := payment.NewWebhookSource("test-key")
	data := payment.WebhookData{OrderCode: 7, Amount: 70, Reference: "FT-001"}

	body, err := json.Marshal(map[string]interface{}{
		"data":      data,
		"signature": src.Sign(data),
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	out, err := src.Parse(body)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if out.OrderID != 7 || !out.Succeeded || out.Reference != "FT-001" {
		t.Errorf("outcome = %+v, want order 7 succeeded with reference FT-001", out)
	}
}

func TestWebhookSourceParseBadSignature(t *testing.T) {
	src := payment.NewWebhookSource("test-key")
	body := []byte(`{"data":{"orderCode":7,"amount":70,"reference":"FT-001"},"signature":"deadbeef"}`)

	_, err := src.Parse(body)
	if !errors.Is(err, payment.ErrVerificationFailed) {
		t.Errorf("Parse error = %v, want ErrVerificationFailed", err)
	}
}

func TestWebhookSourceParseWrongKey(t *testing.T) {
	signer := payment.NewWebhookSource("gateway-key")
	data := payment.WebhookData{OrderCode: 7, Amount: 70, Reference: "FT-001"}
	body, _ := json.Marshal(map[string]interface{}{
		"data":      data,
		"signature": signer.Sign(data),
	})

	src := payment.NewWebhookSource("other-key")
	if _, err := src.Parse(body); !errors.Is(err, payment.ErrVerificationFailed) {
		t.Errorf("Parse error = %v, want ErrVerificationFailed", err)
	}
}

func TestWebhookSourceParseMalformed(t *testing.T) {
	src := payment.NewWebhookSource("test-key")

	if _, err := src.Parse([]byte("{not json")); !errors.Is(err, payment.ErrMalformedPayload) {
		t.Errorf("Parse error = %v, want ErrMalformedPayload", err)
	}
	if _, err := src.Parse([]byte(`{"data":{},"signature":""}`)); !errors.Is(err, payment.ErrMissingOrderID) {
		t.Errorf("Parse error = %v, want ErrMissingOrderID", err)
	}
}

func TestSimulationSourceParse(t *testing.T) {
	src := payment.NewSimulationSource()

	out, err := src.Parse([]byte(`{"orderId":12,"success":true}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if out.OrderID != 12 || !out.Succeeded || out.Reference != "SIMULATION" {
		t.Errorf("outcome = %+v, want order 12 succeeded via SIMULATION", out)
	}

	out, err = src.Parse([]byte(`{"orderId":12,"success":false,"note":"changed my mind"}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if out.Succeeded || out.Note != "changed my mind" {
		t.Errorf("outcome = %+v, want failed with note", out)
	}

	if _, err := src.Parse([]byte(`{"success":true}`)); !errors.Is(err, payment.ErrMissingOrderID) {
		t.Errorf("Parse error = %v, want ErrMissingOrderID", err)
	}
}
