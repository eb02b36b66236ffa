package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/forkful/api/internal/database"
	"github.com/go-chi/chi/v5"
)

// CategoryStore defines the database methods needed by category handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type CategoryStore interface {
	ListActiveCategories(ctx context.Context) ([]database.Category, error)
}

// CategoryHandler handles category read endpoints.
type CategoryHandler struct {
	store CategoryStore
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(store CategoryStore) *CategoryHandler {
	return &CategoryHandler{store: store}
}

// RegisterRoutes registers category endpoints on the given Chi router.
// Expected to be mounted at /api/categories.
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
}

type categoryResponse struct {
	ID          int32     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	ImageUrl    *string   `json:"imageUrl"`
	SortOrder   int32     `json:"sortOrder"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toCategoryResponse(c database.Category) categoryResponse {
	return categoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: textToPtr(c.Description),
		ImageUrl:    textToPtr(c.ImageUrl),
		SortOrder:   c.SortOrder,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
	}
}

// List returns all active categories in display order.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListActiveCategories(r.Context())
	if err != nil {
		log.Printf("ERROR: list categories: %v", err)
		writeInternalError(w)
		return
	}

	resp := make([]categoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = toCategoryResponse(c)
	}

	writeData(w, http.StatusOK, resp)
}
