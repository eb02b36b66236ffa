// Package handler exposes the HTTP surface: menu and category reads,
// session-scoped cart operations, checkout, order tracking, and payment
// reconciliation. Handlers stay thin; transactional logic lives in
// internal/service.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// dataResponse is the success envelope shared by all endpoints.
type dataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// messageResponse is the success envelope for operations with no payload.
type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, dataResponse{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Success: true, Message: msg})
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Success: false, Error: msg})
}

func writeInternalError(w http.ResponseWriter) {
	writeErr(w, http.StatusInternalServerError, "internal server error")
}

func numericToString(n pgtype.Numeric) string {
	if !n.Valid {
		return "0.00"
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return "0.00"
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}

func textToPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	return &t.String
}
