package handler

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	mw "github.com/forkful/api/internal/middleware"
	"github.com/forkful/api/internal/payment"
	"github.com/forkful/api/internal/service"
	"github.com/go-chi/chi/v5"
)

// PaymentServicer defines the reconciliation operation needed by payment
// handlers. Satisfied by *service.PaymentService.
type PaymentServicer interface {
	Reconcile(ctx context.Context, out payment.Outcome) (*service.ReconcileResult, error)
}

// PaymentHandler handles the simulated pay action and gateway webhooks.
// Both feed the same reconciliation gate; only the payload parsing and
// verification differ.
type PaymentHandler struct {
	service    PaymentServicer
	simulation payment.Source
	webhook    payment.Source
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service PaymentServicer, simulation, webhook payment.Source) *PaymentHandler {
	return &PaymentHandler{service: service, simulation: simulation, webhook: webhook}
}

// RegisterRoutes registers payment endpoints on the given Chi router.
// Expected to be mounted at /api/payment.
func (h *PaymentHandler) RegisterRoutes(r chi.Router) {
	r.Post("/simulate", h.Simulate)
	r.Post("/webhook", h.Webhook)
}

type reconcileResponse struct {
	OrderID int32  `json:"orderId"`
	Status  string `json:"status"`
	Result  string `json:"result"`
}

func (h *PaymentHandler) reconcile(w http.ResponseWriter, r *http.Request, src payment.Source) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}

	out, err := src.Parse(raw)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrVerificationFailed):
			writeErr(w, http.StatusBadRequest, "signature verification failed")
		case errors.Is(err, payment.ErrMissingOrderID),
			errors.Is(err, payment.ErrMalformedPayload):
			writeErr(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("ERROR: parse payment payload: %v", err)
			writeInternalError(w)
		}
		return
	}

	result, err := h.service.Reconcile(r.Context(), out)
	if err != nil {
		mw.RecordOrderOperation("reconcile_payment", false)
		if errors.Is(err, service.ErrOrderNotFound) {
			writeErr(w, http.StatusNotFound, "Order not found")
			return
		}
		log.Printf("ERROR: reconcile payment: %v", err)
		writeInternalError(w)
		return
	}
	mw.RecordOrderOperation("reconcile_payment", true)

	resultText := "processed"
	if !result.Applied {
		resultText = "already_processed"
	}
	writeData(w, http.StatusOK, reconcileResponse{
		OrderID: result.OrderID,
		Status:  result.Status,
		Result:  resultText,
	})
}

// Simulate handles POST /api/payment/simulate: the in-app pay or cancel
// action on the payment simulation page.
func (h *PaymentHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	h.reconcile(w, r, h.simulation)
}

// Webhook handles POST /api/payment/webhook: signed gateway
// confirmations. Redeliveries are acknowledged without reapplying.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	h.reconcile(w, r, h.webhook)
}
