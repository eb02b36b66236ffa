package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/forkful/api/internal/service"
	"github.com/go-chi/chi/v5"
)

// CartServicer defines the cart operations needed by cart handlers.
// Satisfied by *service.CartService.
type CartServicer interface {
	AddItem(ctx context.Context, sessionID string, menuItemID, quantity int32) (*service.CartLine, bool, error)
	GetCart(ctx context.Context, sessionID string) (*service.Cart, error)
	UpdateItem(ctx context.Context, sessionID string, itemID, quantity int32) (*service.CartLine, error)
	RemoveItem(ctx context.Context, sessionID string, itemID int32) error
	ClearCart(ctx context.Context, sessionID string) error
}

// CartHandler handles session-scoped cart endpoints.
type CartHandler struct {
	service CartServicer
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service CartServicer) *CartHandler {
	return &CartHandler{service: service}
}

// RegisterRoutes registers cart endpoints on the given Chi router.
// Expected to be mounted at /api/cart.
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Add)
	r.Get("/{sessionId}", h.Get)
	r.Put("/{sessionId}/{itemId}", h.UpdateItem)
	r.Delete("/{sessionId}/{itemId}", h.RemoveItem)
	r.Delete("/{sessionId}", h.Clear)
}

type cartLineMenuItem struct {
	ID          int32   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       string  `json:"price"`
	ImageUrl    *string `json:"imageUrl"`
	IsAvailable bool    `json:"isAvailable"`
}

type cartLineResponse struct {
	ID         int32            `json:"id"`
	SessionID  string           `json:"sessionId"`
	MenuItemID int32            `json:"menuItemId"`
	Quantity   int32            `json:"quantity"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
	MenuItem   cartLineMenuItem `json:"menuItem"`
}

type cartResponse struct {
	Items    []cartLineResponse `json:"items"`
	Subtotal string             `json:"subtotal"`
}

func toCartLineResponse(line *service.CartLine) cartLineResponse {
	return cartLineResponse{
		ID:         line.Item.ID,
		SessionID:  line.Item.SessionID,
		MenuItemID: line.Item.MenuItemID,
		Quantity:   line.Item.Quantity,
		CreatedAt:  line.Item.CreatedAt,
		UpdatedAt:  line.Item.UpdatedAt,
		MenuItem: cartLineMenuItem{
			ID:          line.MenuItem.ID,
			Name:        line.MenuItem.Name,
			Description: textToPtr(line.MenuItem.Description),
			Price:       numericToString(line.MenuItem.Price),
			ImageUrl:    textToPtr(line.MenuItem.ImageUrl),
			IsAvailable: line.MenuItem.IsAvailable,
		},
	}
}

type addToCartRequest struct {
	SessionID  string `json:"sessionId"`
	MenuItemID int32  `json:"menuItemId"`
	Quantity   int32  `json:"quantity"`
}

// Add handles POST /api/cart. Adding an item already in the cart
// merges quantities and responds 200; a brand new line responds 201.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		writeErr(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	line, isNew, err := h.service.AddItem(r.Context(), req.SessionID, req.MenuItemID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidQuantity),
			errors.Is(err, service.ErrMenuItemNotFound),
			errors.Is(err, service.ErrMenuItemUnavailable):
			writeErr(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("ERROR: add cart item: %v", err)
			writeInternalError(w)
		}
		return
	}

	status := http.StatusOK
	if isNew {
		status = http.StatusCreated
	}
	writeData(w, status, toCartLineResponse(line))
}

// Get handles GET /api/cart/{sessionId}. An unknown session returns an
// empty cart, not an error.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	cart, err := h.service.GetCart(r.Context(), sessionID)
	if err != nil {
		log.Printf("ERROR: get cart: %v", err)
		writeInternalError(w)
		return
	}

	resp := cartResponse{
		Items:    make([]cartLineResponse, len(cart.Lines)),
		Subtotal: cart.Subtotal.StringFixed(2),
	}
	for i := range cart.Lines {
		resp.Items[i] = toCartLineResponse(&cart.Lines[i])
	}
	writeData(w, http.StatusOK, resp)
}

type updateCartItemRequest struct {
	Quantity int32 `json:"quantity"`
}

// UpdateItem handles PUT /api/cart/{sessionId}/{itemId}.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemId"), 10, 32)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid cart item ID")
		return
	}

	var req updateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}

	line, err := h.service.UpdateItem(r.Context(), sessionID, int32(itemID), req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidQuantity):
			writeErr(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrCartItemNotFound):
			writeErr(w, http.StatusNotFound, "Cart item not found")
		default:
			log.Printf("ERROR: update cart item: %v", err)
			writeInternalError(w)
		}
		return
	}

	writeData(w, http.StatusOK, toCartLineResponse(line))
}

// RemoveItem handles DELETE /api/cart/{sessionId}/{itemId}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemId"), 10, 32)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid cart item ID")
		return
	}

	if err := h.service.RemoveItem(r.Context(), sessionID, int32(itemID)); err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			writeErr(w, http.StatusNotFound, "Cart item not found")
			return
		}
		log.Printf("ERROR: remove cart item: %v", err)
		writeInternalError(w)
		return
	}

	writeMessage(w, http.StatusOK, "Item removed from cart")
}

// Clear handles DELETE /api/cart/{sessionId}. Clearing an already empty
// cart still succeeds.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	if err := h.service.ClearCart(r.Context(), sessionID); err != nil {
		log.Printf("ERROR: clear cart: %v", err)
		writeInternalError(w)
		return
	}

	writeMessage(w, http.StatusOK, "Cart cleared")
}
