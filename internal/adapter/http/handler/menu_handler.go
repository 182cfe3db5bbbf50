package handler

import (
	"context"
	"net/http"

	"github.com/iho/restoledger/internal/adapter/http/dto"
	"github.com/iho/restoledger/internal/domain"
	"github.com/iho/restoledger/internal/usecase"
)

// MenuService defines the behavior needed by MenuHandler.
type MenuService interface {
	List(ctx context.Context) ([]*domain.MenuItem, error)
	Get(ctx context.Context, id int64) (*domain.MenuItem, error)
	Create(ctx context.Context, input usecase.MenuItemInput) (*domain.MenuItem, error)
	Update(ctx context.Context, id int64, input usecase.MenuItemInput) (*domain.MenuItem, error)
	Delete(ctx context.Context, id int64) error
}

// MenuHandler handles menu HTTP requests.
type MenuHandler struct {
	menuUC MenuService
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(menuUC MenuService) *MenuHandler {
	return &MenuHandler{menuUC: menuUC}
}

// List returns the menu.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.menuUC.List(r.Context())
	if err != nil {
		writeDomainError(w, "failed to list menu", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewListResponse(dto.MenuItemsFromDomain(items)))
}

// Get returns one dish.
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid menu item ID", err.Error())
		return
	}

	item, err := h.menuUC.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get menu item", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MenuItemFromDomain(item))
}

// Create adds a dish.
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.MenuItemRequest
	if err := decodeJSON(r, w, &req); err != nil {
		writeDomainError(w, "invalid request body", err)
		return
	}

	item, err := h.menuUC.Create(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create menu item", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.MenuItemFromDomain(item))
}

// Update replaces a dish.
func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid menu item ID", err.Error())
		return
	}

	var req dto.MenuItemRequest
	if err := decodeJSON(r, w, &req); err != nil {
		writeDomainError(w, "invalid request body", err)
		return
	}

	item, err := h.menuUC.Update(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to update menu item", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MenuItemFromDomain(item))
}

// Delete removes a dish.
func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid menu item ID", err.Error())
		return
	}

	if err := h.menuUC.Delete(r.Context(), id); err != nil {
		writeDomainError(w, "failed to delete menu item", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
