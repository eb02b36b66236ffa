package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/forkful/api/internal/database"
	"github.com/forkful/api/internal/handler"
	"github.com/forkful/api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type mockCartService struct {
	addFn    func(ctx context.Context, sessionID string, menuItemID, quantity int32) (*service.CartLine, bool, error)
	getFn    func(ctx context.Context, sessionID string) (*service.Cart, error)
	updateFn func(ctx context.Context, sessionID string, itemID, quantity int32) (*service.CartLine, error)
	removeFn func(ctx context.Context, sessionID string, itemID int32) error
	clearFn  func(ctx context.Context, sessionID string) error
}

func (m *mockCartService) AddItem(ctx context.Context, sessionID string, menuItemID, quantity int32) (*service.CartLine, bool, error) {
	return m.addFn(ctx, sessionID, menuItemID, quantity)
}

func (m *mockCartService) GetCart(ctx context.Context, sessionID string) (*service.Cart, error) {
	if m.getFn != nil {
		return m.getFn(ctx, sessionID)
	}
	return &service.Cart{Subtotal: decimal.Zero}, nil
}

func (m *mockCartService) UpdateItem(ctx context.Context, sessionID string, itemID, quantity int32) (*service.CartLine, error) {
	return m.updateFn(ctx, sessionID, itemID, quantity)
}

func (m *mockCartService) RemoveItem(ctx context.Context, sessionID string, itemID int32) error {
	if m.removeFn != nil {
		return m.removeFn(ctx, sessionID, itemID)
	}
	return nil
}

func (m *mockCartService) ClearCart(ctx context.Context, sessionID string) error {
	if m.clearFn != nil {
		return m.clearFn(ctx, sessionID)
	}
	return nil
}

func setupCartRouter(svc *mockCartService) *chi.Mux {
	h := handler.NewCartHandler(svc)
	r := chi.NewRouter()
	r.Route("/api/cart", h.RegisterRoutes)
	return r
}

func testCartLine(t *testing.T, id, menuItemID, quantity int32, price string) *service.CartLine {
	t.Helper()
	now := time.Now()
	return &service.CartLine{
		Item: database.CartItem{
			ID:         id,
			SessionID:  "sess-1",
			MenuItemID: menuItemID,
			Quantity:   quantity,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		MenuItem: database.MenuItem{
			ID:          menuItemID,
			CategoryID:  1,
			Name:        "Classic Burger",
			Price:       testNumeric(t, price),
			IsAvailable: true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

func TestCartAdd_NewLine(t *testing.T) {
	svc := &mockCartService{
		addFn: func(ctx context.Context, sessionID string, menuItemID, quantity int32) (*service.CartLine, bool, error) {
			if sessionID != "sess-1" {
				t.Errorf("sessionID: got %q, want sess-1", sessionID)
			}
			if menuItemID != 3 || quantity != 2 {
				t.Errorf("args: got (%d, %d), want (3, 2)", menuItemID, quantity)
			}
			return testCartLine(t, 1, 3, 2, "12.99"), true, nil
		},
	}

	rr := doRequest(t, setupCartRouter(svc), "POST", "/api/cart", map[string]interface{}{
		"sessionId":  "sess-1",
		"menuItemId": 3,
		"quantity":   2,
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	d := data(t, rr)
	if d["quantity"] != float64(2) {
		t.Errorf("quantity: got %v, want 2", d["quantity"])
	}
	menuItem := d["menuItem"].(map[string]interface{})
	if menuItem["price"] != "12.99" {
		t.Errorf("price: got %v, want 12.99", menuItem["price"])
	}
}

func TestCartAdd_MergedLine(t *testing.T) {
	svc := &mockCartService{
		addFn: func(ctx context.Context, sessionID string, menuItemID, quantity int32) (*service.CartLine, bool, error) {
			return testCartLine(t, 1, 3, 5, "12.99"), false, nil
		},
	}

	rr := doRequest(t, setupCartRouter(svc), "POST", "/api/cart", map[string]interface{}{
		"sessionId":  "sess-1",
		"menuItemId": 3,
		"quantity":   3,
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	d := data(t, rr)
	if d["quantity"] != float64(5) {
		t.Errorf("quantity: got %v, want 5", d["quantity"])
	}
}

func TestCartAdd_ServiceErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"invalid quantity", service.ErrInvalidQuantity},
		{"menu item not found", service.ErrMenuItemNotFound},
		{"menu item unavailable", service.ErrMenuItemUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockCartService{
				addFn: func(ctx context.Context, sessionID string, menuItemID, quantity int32) (*service.CartLine, bool, error) {
					return nil, false, tt.err
				},
			}
			rr := doRequest(t, setupCartRouter(svc), "POST", "/api/cart", map[string]interface{}{
				"sessionId":  "sess-1",
				"menuItemId": 3,
				"quantity":   1,
			})
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestCartAdd_MissingSession(t *testing.T) {
	rr := doRequest(t, setupCartRouter(&mockCartService{}), "POST", "/api/cart", map[string]interface{}{
		"menuItemId": 3,
		"quantity":   1,
	})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestCartGet(t *testing.T) {
	svc := &mockCartService{
		getFn: func(ctx context.Context, sessionID string) (*service.Cart, error) {
			line := testCartLine(t, 1, 3, 5, "12.99")
			return &service.Cart{
				Lines:    []service.CartLine{*line},
				Subtotal: decimal.RequireFromString("64.95"),
			}, nil
		},
	}

	rr := doRequest(t, setupCartRouter(svc), "GET", "/api/cart/sess-1", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	d := data(t, rr)
	if d["subtotal"] != "64.95" {
		t.Errorf("subtotal: got %v, want 64.95", d["subtotal"])
	}
	items := d["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("items: got %d, want 1", len(items))
	}
}

func TestCartGet_EmptySession(t *testing.T) {
	rr := doRequest(t, setupCartRouter(&mockCartService{}), "GET", "/api/cart/unknown-session", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	d := data(t, rr)
	if d["subtotal"] != "0.00" {
		t.Errorf("subtotal: got %v, want 0.00", d["subtotal"])
	}
	items := d["items"].([]interface{})
	if len(items) != 0 {
		t.Errorf("items: got %d, want 0", len(items))
	}
}

func TestCartUpdateItem(t *testing.T) {
	svc := &mockCartService{
		updateFn: func(ctx context.Context, sessionID string, itemID, quantity int32) (*service.CartLine, error) {
			if itemID != 4 || quantity != 7 {
				t.Errorf("args: got (%d, %d), want (4, 7)", itemID, quantity)
			}
			return testCartLine(t, 4, 3, 7, "12.99"), nil
		},
	}

	rr := doRequest(t, setupCartRouter(svc), "PUT", "/api/cart/sess-1/4", map[string]interface{}{
		"quantity": 7,
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	d := data(t, rr)
	if d["quantity"] != float64(7) {
		t.Errorf("quantity: got %v, want 7", d["quantity"])
	}
}

func TestCartUpdateItem_NotFound(t *testing.T) {
	svc := &mockCartService{
		updateFn: func(ctx context.Context, sessionID string, itemID, quantity int32) (*service.CartLine, error) {
			return nil, service.ErrCartItemNotFound
		},
	}

	rr := doRequest(t, setupCartRouter(svc), "PUT", "/api/cart/sess-1/99", map[string]interface{}{
		"quantity": 2,
	})

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestCartRemoveItem(t *testing.T) {
	rr := doRequest(t, setupCartRouter(&mockCartService{}), "DELETE", "/api/cart/sess-1/4", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeBody(t, rr)
	if resp["message"] != "Item removed from cart" {
		t.Errorf("message: got %v", resp["message"])
	}
}

func TestCartRemoveItem_NotFound(t *testing.T) {
	svc := &mockCartService{
		removeFn: func(ctx context.Context, sessionID string, itemID int32) error {
			return service.ErrCartItemNotFound
		},
	}

	rr := doRequest(t, setupCartRouter(svc), "DELETE", "/api/cart/sess-1/99", nil)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestCartClear(t *testing.T) {
	cleared := false
	svc := &mockCartService{
		clearFn: func(ctx context.Context, sessionID string) error {
			if sessionID != "sess-1" {
				t.Errorf("sessionID: got %q, want sess-1", sessionID)
			}
			cleared = true
			return nil
		},
	}

	rr := doRequest(t, setupCartRouter(svc), "DELETE", "/api/cart/sess-1", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	if !cleared {
		t.Error("expected ClearCart to be called")
	}
	resp := decodeBody(t, rr)
	if resp["message"] != "Cart cleared" {
		t.Errorf("message: got %v", resp["message"])
	}
}
