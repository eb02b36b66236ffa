package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/forkful/api/internal/database"
	"github.com/forkful/api/internal/enum"
	mw "github.com/forkful/api/internal/middleware"
	"github.com/forkful/api/internal/pagination"
	"github.com/forkful/api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OrderServicer defines the transactional order operations needed by
// order handlers. Satisfied by *service.OrderService.
type OrderServicer interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*service.CreateOrderResult, error)
	UpdateStatus(ctx context.Context, orderUuid uuid.UUID, status, notes string) (*database.Order, error)
}

// OrderReadStore defines the plain read queries used by order handlers.
// Satisfied by *database.Queries.
type OrderReadStore interface {
	GetOrderByUuid(ctx context.Context, u uuid.UUID) (database.Order, error)
	ListOrdersBySession(ctx context.Context, arg database.ListOrdersBySessionParams) ([]database.Order, error)
	CountOrdersBySession(ctx context.Context, sessionID string) (int64, error)
	ListOrderItemsByOrder(ctx context.Context, orderID int32) ([]database.OrderItem, error)
	ListOrderStatusEvents(ctx context.Context, orderID int32) ([]database.OrderStatusEvent, error)
}

// OrderHandler handles checkout, order reads, and status updates.
type OrderHandler struct {
	service OrderServicer
	store   OrderReadStore
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service OrderServicer, store OrderReadStore) *OrderHandler {
	return &OrderHandler{service: service, store: store}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted at /api/orders.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/session/{sessionId}", h.ListBySession)
	r.Get("/{uuid}", h.Get)
	r.Get("/{uuid}/status", h.GetStatus)
	r.Put("/{uuid}/status", h.UpdateStatus)
}

type orderItemResponse struct {
	ID         int32     `json:"id"`
	MenuItemID int32     `json:"menuItemId"`
	ItemName   string    `json:"itemName"`
	UnitPrice  string    `json:"unitPrice"`
	Quantity   int32     `json:"quantity"`
	Subtotal   string    `json:"subtotal"`
	CreatedAt  time.Time `json:"createdAt"`
}

type statusEventResponse struct {
	ID        int32     `json:"id"`
	Status    string    `json:"status"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
}

type orderResponse struct {
	ID               uuid.UUID             `json:"id"`
	SessionID        string                `json:"sessionId"`
	Status           string                `json:"status"`
	StatusText       string                `json:"statusText"`
	Subtotal         string                `json:"subtotal"`
	DeliveryFee      string                `json:"deliveryFee"`
	TotalAmount      string                `json:"totalAmount"`
	CustomerName     string                `json:"customerName"`
	CustomerPhone    string                `json:"customerPhone"`
	DeliveryAddress  string                `json:"deliveryAddress"`
	Notes            *string               `json:"notes"`
	EstimatedMinutes *int32                `json:"estimatedMinutes"`
	Items            []orderItemResponse   `json:"items,omitempty"`
	StatusHistory    []statusEventResponse `json:"statusHistory,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt"`
}

func toOrderItemResponses(items []database.OrderItem) []orderItemResponse {
	resp := make([]orderItemResponse, len(items))
	for i, it := range items {
		resp[i] = orderItemResponse{
			ID:         it.ID,
			MenuItemID: it.MenuItemID,
			ItemName:   it.ItemName,
			UnitPrice:  numericToString(it.UnitPrice),
			Quantity:   it.Quantity,
			Subtotal:   numericToString(it.Subtotal),
			CreatedAt:  it.CreatedAt,
		}
	}
	return resp
}

func toStatusEventResponses(events []database.OrderStatusEvent) []statusEventResponse {
	resp := make([]statusEventResponse, len(events))
	for i, e := range events {
		resp[i] = statusEventResponse{
			ID:        e.ID,
			Status:    e.Status,
			Notes:     textToPtr(e.Notes),
			CreatedAt: e.CreatedAt,
		}
	}
	return resp
}

func toOrderResponse(o database.Order, items []database.OrderItem, history []database.OrderStatusEvent) orderResponse {
	return orderResponse{
		ID:               o.Uuid,
		SessionID:        o.SessionID,
		Status:           o.Status,
		StatusText:       enum.StatusText(o.Status),
		Subtotal:         numericToString(o.Subtotal),
		DeliveryFee:      numericToString(o.DeliveryFee),
		TotalAmount:      numericToString(o.TotalAmount),
		CustomerName:     o.CustomerName,
		CustomerPhone:    o.CustomerPhone,
		DeliveryAddress:  o.DeliveryAddress,
		Notes:            textToPtr(o.Notes),
		EstimatedMinutes: enum.EstimatedMinutes(o.Status),
		Items:            toOrderItemResponses(items),
		StatusHistory:    toStatusEventResponses(history),
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

type createOrderRequest struct {
	SessionID       string `json:"sessionId"`
	CustomerName    string `json:"customerName"`
	CustomerPhone   string `json:"customerPhone"`
	DeliveryAddress string `json:"deliveryAddress"`
	Notes           string `json:"notes"`
}

type createOrderResponse struct {
	Success     bool          `json:"success"`
	Data        orderResponse `json:"data"`
	CheckoutUrl string        `json:"checkoutUrl"`
}

// Create handles POST /api/orders. The cart snapshot, totals, initial
// history event, and cart clear happen atomically in the service.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		writeErr(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	result, err := h.service.CreateOrder(r.Context(), service.CreateOrderRequest{
		SessionID:       req.SessionID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
	})
	if err != nil {
		mw.RecordOrderOperation("create", false)
		switch {
		case errors.Is(err, service.ErrMissingCustomerName),
			errors.Is(err, service.ErrMissingCustomerPhone),
			errors.Is(err, service.ErrMissingDeliveryAddress),
			errors.Is(err, service.ErrEmptyCart):
			writeErr(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("ERROR: create order: %v", err)
			writeInternalError(w)
		}
		return
	}
	mw.RecordOrderOperation("create", true)

	writeJSON(w, http.StatusCreated, createOrderResponse{
		Success:     true,
		Data:        toOrderResponse(result.Order, result.Items, result.History),
		CheckoutUrl: result.CheckoutURL,
	})
}

// Get handles GET /api/orders/{uuid}, returning the full order with its
// items and status history.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderUuid, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	order, err := h.store.GetOrderByUuid(r.Context(), orderUuid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeErr(w, http.StatusNotFound, "Order not found")
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeInternalError(w)
		return
	}

	items, err := h.store.ListOrderItemsByOrder(r.Context(), order.ID)
	if err != nil {
		log.Printf("ERROR: list order items: %v", err)
		writeInternalError(w)
		return
	}
	history, err := h.store.ListOrderStatusEvents(r.Context(), order.ID)
	if err != nil {
		log.Printf("ERROR: list order history: %v", err)
		writeInternalError(w)
		return
	}

	writeData(w, http.StatusOK, toOrderResponse(order, items, history))
}

type orderListResponse struct {
	Success bool            `json:"success"`
	Data    []orderResponse `json:"data"`
	Meta    pagination.Meta `json:"meta"`
}

// ListBySession handles GET /api/orders/session/{sessionId} with
// page/limit pagination, newest order first. Each order carries its
// items and history.
func (h *OrderHandler) ListBySession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	p := pagination.Parse(r.URL.Query())

	total, err := h.store.CountOrdersBySession(r.Context(), sessionID)
	if err != nil {
		log.Printf("ERROR: count orders: %v", err)
		writeInternalError(w)
		return
	}

	orders, err := h.store.ListOrdersBySession(r.Context(), database.ListOrdersBySessionParams{
		SessionID: sessionID,
		Limit:     int32(p.Limit),
		Offset:    int32(p.Offset),
	})
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeInternalError(w)
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		items, err := h.store.ListOrderItemsByOrder(r.Context(), o.ID)
		if err != nil {
			log.Printf("ERROR: list order items: %v", err)
			writeInternalError(w)
			return
		}
		history, err := h.store.ListOrderStatusEvents(r.Context(), o.ID)
		if err != nil {
			log.Printf("ERROR: list order history: %v", err)
			writeInternalError(w)
			return
		}
		resp = append(resp, toOrderResponse(o, items, history))
	}

	writeJSON(w, http.StatusOK, orderListResponse{
		Success: true,
		Data:    resp,
		Meta:    pagination.NewMeta(p.Page, p.Limit, total),
	})
}

type orderStatusResponse struct {
	Status           string                `json:"status"`
	StatusText       string                `json:"statusText"`
	EstimatedMinutes *int32                `json:"estimatedMinutes"`
	History          []statusEventResponse `json:"history"`
}

// GetStatus handles GET /api/orders/{uuid}/status: the tracking view
// with the human-readable label, remaining-time estimate, and the full
// audit trail, most recent first.
func (h *OrderHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	orderUuid, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	order, err := h.store.GetOrderByUuid(r.Context(), orderUuid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeErr(w, http.StatusNotFound, "Order not found")
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeInternalError(w)
		return
	}

	history, err := h.store.ListOrderStatusEvents(r.Context(), order.ID)
	if err != nil {
		log.Printf("ERROR: list order history: %v", err)
		writeInternalError(w)
		return
	}

	writeData(w, http.StatusOK, orderStatusResponse{
		Status:           order.Status,
		StatusText:       enum.StatusText(order.Status),
		EstimatedMinutes: enum.EstimatedMinutes(order.Status),
		History:          toStatusEventResponses(history),
	})
}

type updateStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// UpdateStatus handles PUT /api/orders/{uuid}/status. Any valid status
// is accepted from any current status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderUuid, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), orderUuid, req.Status, req.Notes)
	if err != nil {
		mw.RecordOrderOperation("update_status", false)
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			writeErr(w, http.StatusBadRequest,
				"Invalid status. Must be one of: "+strings.Join(enum.OrderStatuses, ", "))
		case errors.Is(err, service.ErrOrderNotFound):
			writeErr(w, http.StatusNotFound, "Order not found")
		default:
			log.Printf("ERROR: update order status: %v", err)
			writeInternalError(w)
		}
		return
	}
	mw.RecordOrderOperation("update_status", true)

	writeData(w, http.StatusOK, toOrderResponse(*order, nil, nil))
}
