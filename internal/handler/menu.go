package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/forkful/api/internal/database"
	"github.com/forkful/api/internal/pagination"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
)

// MenuStore defines the database methods needed by menu handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type MenuStore interface {
	ListAvailableMenuItems(ctx context.Context, arg database.ListAvailableMenuItemsParams) ([]database.GetMenuItemWithCategoryRow, error)
	CountAvailableMenuItems(ctx context.Context) (int64, error)
	GetMenuItemWithCategory(ctx context.Context, id int32) (database.GetMenuItemWithCategoryRow, error)
}

// MenuHandler handles menu read endpoints.
type MenuHandler struct {
	store MenuStore
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(store MenuStore) *MenuHandler {
	return &MenuHandler{store: store}
}

// RegisterRoutes registers menu endpoints on the given Chi router.
// Expected to be mounted at /api/menu.
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

type menuItemCategory struct {
	ID          int32   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type menuItemResponse struct {
	ID          int32            `json:"id"`
	CategoryID  int32            `json:"categoryId"`
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Price       string           `json:"price"`
	ImageUrl    *string          `json:"imageUrl"`
	IsAvailable bool             `json:"isAvailable"`
	SortOrder   int32            `json:"sortOrder"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	Category    menuItemCategory `json:"category"`
}

// menuListResponse wraps paginated menu items the way the client expects:
// data plus a meta block.
type menuListResponse struct {
	Success bool               `json:"success"`
	Data    []menuItemResponse `json:"data"`
	Meta    pagination.Meta    `json:"meta"`
}

func toMenuItemResponse(r database.GetMenuItemWithCategoryRow) menuItemResponse {
	m := r.MenuItem
	return menuItemResponse{
		ID:          m.ID,
		CategoryID:  m.CategoryID,
		Name:        m.Name,
		Description: textToPtr(m.Description),
		Price:       numericToString(m.Price),
		ImageUrl:    textToPtr(m.ImageUrl),
		IsAvailable: m.IsAvailable,
		SortOrder:   m.SortOrder,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		Category: menuItemCategory{
			ID:          m.CategoryID,
			Name:        r.CategoryName,
			Description: textToPtr(r.CategoryDescription),
		},
	}
}

// List handles GET /api/menu with page/limit pagination. Only available
// items are listed.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	p := pagination.Parse(r.URL.Query())

	total, err := h.store.CountAvailableMenuItems(r.Context())
	if err != nil {
		log.Printf("ERROR: count menu items: %v", err)
		writeInternalError(w)
		return
	}

	rows, err := h.store.ListAvailableMenuItems(r.Context(), database.ListAvailableMenuItemsParams{
		Limit:  int32(p.Limit),
		Offset: int32(p.Offset),
	})
	if err != nil {
		log.Printf("ERROR: list menu items: %v", err)
		writeInternalError(w)
		return
	}

	resp := make([]menuItemResponse, len(rows))
	for i, row := range rows {
		resp[i] = toMenuItemResponse(row)
	}

	writeJSON(w, http.StatusOK, menuListResponse{
		Success: true,
		Data:    resp,
		Meta:    pagination.NewMeta(p.Page, p.Limit, total),
	})
}

// Get handles GET /api/menu/{id}.
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid menu item ID")
		return
	}

	row, err := h.store.GetMenuItemWithCategory(r.Context(), int32(id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeErr(w, http.StatusNotFound, "Menu item not found")
			return
		}
		log.Printf("ERROR: get menu item: %v", err)
		writeInternalError(w)
		return
	}

	writeData(w, http.StatusOK, toMenuItemResponse(row))
}
