package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/restoledger/internal/adapter/http/dto"
	"github.com/iho/restoledger/internal/domain"
	"github.com/iho/restoledger/internal/usecase"
)

type menuServiceStub struct {
	listFn   func(ctx context.Context) ([]*domain.MenuItem, error)
	getFn    func(ctx context.Context, id int64) (*domain.MenuItem, error)
	createFn func(ctx context.Context, input usecase.MenuItemInput) (*domain.MenuItem, error)
	updateFn func(ctx context.Context, id int64, input usecase.MenuItemInput) (*domain.MenuItem, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (s *menuServiceStub) List(ctx context.Context) ([]*domain.MenuItem, error) {
	return s.listFn(ctx)
}

func (s *menuServiceStub) Get(ctx context.Context, id int64) (*domain.MenuItem, error) {
	return s.getFn(ctx, id)
}

func (s *menuServiceStub) Create(ctx context.Context, input usecase.MenuItemInput) (*domain.MenuItem, error) {
	return s.createFn(ctx, input)
}

func (s *menuServiceStub) Update(ctx context.Context, id int64, input usecase.MenuItemInput) (*domain.MenuItem, error) {
	return s.updateFn(ctx, id, input)
}

func (s *menuServiceStub) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func TestMenuHandler_Create_Success(t *testing.T) {
	var captured usecase.MenuItemInput
	handler := NewMenuHandler(&menuServiceStub{
		createFn: func(ctx context.Context, input usecase.MenuItemInput) (*domain.MenuItem, error) {
			captured = input
			return &domain.MenuItem{ID: 9, Name: input.Name, Price: input.Price, Category: input.Category}, nil
		},
	})

	body := `{"name":"Lomo saltado","price":"32.50","category":"fondos"}`
	req := httptest.NewRequest(http.MethodPost, "/menu", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Name != "Lomo saltado" || !captured.Price.Equal(decimal.RequireFromString("32.5")) {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.MenuItemResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != 9 {
		t.Fatalf("expected ID 9, got %d", resp.ID)
	}
}

func TestMenuHandler_Create_ValidationError(t *testing.T) {
	handler := NewMenuHandler(&menuServiceStub{
		createFn: func(ctx context.Context, input usecase.MenuItemInput) (*domain.MenuItem, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/menu", bytes.NewBufferString(`{"price":3}`))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Fields["name"] != "required" {
		t.Fatalf("expected name field error, got %+v", resp)
	}
}

func TestMenuHandler_Create_MalformedBody(t *testing.T) {
	handler := NewMenuHandler(&menuServiceStub{})

	req := httptest.NewRequest(http.MethodPost, "/menu", bytes.NewBufferString(`{`))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestMenuHandler_Get(t *testing.T) {
	handler := NewMenuHandler(&menuServiceStub{
		getFn: func(ctx context.Context, id int64) (*domain.MenuItem, error) {
			if id == 1 {
				return &domain.MenuItem{ID: 1, Name: "Ceviche", Price: decimal.NewFromInt(25)}, nil
			}
			return nil, fmt.Errorf("menu item %d: %w", id, domain.ErrMenuItemNotFound)
		},
	})

	tests := []struct {
		id     string
		status int
	}{
		{"1", http.StatusOK},
		{"2", http.StatusNotFound},
		{"abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/menu/"+tt.id, nil), "id", tt.id)
		rec := httptest.NewRecorder()
		handler.Get(rec, req)

		if rec.Code != tt.status {
			t.Errorf("id %s: expected %d, got %d", tt.id, tt.status, rec.Code)
		}
	}
}

func TestMenuHandler_List_BackendDown(t *testing.T) {
	handler := NewMenuHandler(&menuServiceStub{
		listFn: func(ctx context.Context) ([]*domain.MenuItem, error) {
			return nil, fmt.Errorf("GET /menu: %w", domain.ErrBackendUnavailable)
		},
	})

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/menu", nil))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestMenuHandler_UpdateAndDelete(t *testing.T) {
	var deleted int64
	handler := NewMenuHandler(&menuServiceStub{
		updateFn: func(ctx context.Context, id int64, input usecase.MenuItemInput) (*domain.MenuItem, error) {
			return &domain.MenuItem{ID: id, Name: input.Name, Price: input.Price}, nil
		},
		deleteFn: func(ctx context.Context, id int64) error {
			deleted = id
			return nil
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodPut, "/menu/5", bytes.NewBufferString(`{"name":"Causa","price":12}`)), "id", "5")
	rec := httptest.NewRecorder()
	handler.Update(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	req = withURLParam(httptest.NewRequest(http.MethodDelete, "/menu/5", nil), "id", "5")
	rec = httptest.NewRecorder()
	handler.Delete(rec, req)
	if rec.Code != http.StatusNoContent || deleted != 5 {
		t.Fatalf("expected 204 deleting 5, got %d deleting %d", rec.Code, deleted)
	}
}
