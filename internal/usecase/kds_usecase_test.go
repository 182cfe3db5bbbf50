package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/restoledger/internal/aggregate"
	"github.com/iho/restoledger/internal/domain"
	"github.com/iho/restoledger/internal/usecase/mocks"
)

func newKDS(t *testing.T) (*KDSUseCase, *mocks.MockMenuRepository, *mocks.MockOrderRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	menuRepo := mocks.NewMockMenuRepository(ctrl)
	orderRepo := mocks.NewMockOrderRepository(ctrl)
	return NewKDSUseCase(menuRepo, orderRepo, aggregate.NewCalendar(time.UTC)), menuRepo, orderRepo
}

func TestKDSUseCase_Board(t *testing.T) {
	uc, menuRepo, orderRepo := newKDS(t)

	menuRepo.EXPECT().List(gomock.Any()).Return([]*domain.MenuItem{{ID: 1, Price: decimal.NewFromInt(8)}}, nil)
	orderRepo.EXPECT().ListLive(gomock.Any()).Return([]*domain.Order{
		{ID: 10, TableID: 2, Status: "listo", PlacedAt: "2024-03-01T12:00:00"},
		{ID: 11, TableID: 3, Status: "PREPARANDO", PlacedAt: "2024-03-01T12:05:00", Comment: "sin cebolla", Items: []domain.OrderItem{{DishID: 1, Quantity: 2}}},
		{ID: 12, TableID: 4, Status: "raro", PlacedAt: "2024-03-01T11:00:00"},
		{ID: 13, TableID: 5, Status: "pendiente", PlacedAt: "2024-03-01T12:30:00"},
	}, nil)

	columns, err := uc.Board(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(columns) != len(domain.OrderStatuses) {
		t.Fatalf("expected %d columns, got %d", len(domain.OrderStatuses), len(columns))
	}
	for i, s := range domain.OrderStatuses {
		if columns[i].Status != s {
			t.Fatalf("column %d: expected %s, got %s", i, s, columns[i].Status)
		}
		if columns[i].Tickets == nil {
			t.Fatalf("column %s: expected empty slice, got nil", s)
		}
	}

	pending := columns[0].Tickets
	if len(pending) != 2 || pending[0].ID != 13 || pending[1].ID != 12 {
		t.Fatalf("expected pending column newest first [13 12], got %+v", pending)
	}
	if pending[0].NextStatus != domain.StatusPreparing {
		t.Fatalf("expected next status preparando, got %q", pending[0].NextStatus)
	}

	preparing := columns[1].Tickets
	if len(preparing) != 1 || preparing[0].ItemCount != 2 || !preparing[0].Total.Equal(decimal.NewFromInt(16)) || preparing[0].Comment != "sin cebolla" {
		t.Fatalf("unexpected preparing ticket: %+v", preparing)
	}

	if len(columns[3].Tickets) != 0 || len(columns[4].Tickets) != 0 {
		t.Fatalf("expected delivered and cancelled columns empty")
	}
}

func TestKDSUseCase_Move(t *testing.T) {
	uc, _, orderRepo := newKDS(t)

	if err := uc.Move(context.Background(), 4, "servido"); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	orderRepo.EXPECT().UpdateStatus(gomock.Any(), int64(4), domain.StatusReady).Return(nil)
	if err := uc.Move(context.Background(), 4, " Listo "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	orderRepo.EXPECT().UpdateStatus(gomock.Any(), int64(5), domain.StatusCancelled).Return(domain.ErrOrderNotFound)
	if err := uc.Move(context.Background(), 5, "cancelado"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestKDSUseCase_Advance(t *testing.T) {
	uc, _, orderRepo := newKDS(t)

	orderRepo.EXPECT().UpdateStatus(gomock.Any(), int64(7), domain.StatusDelivered).Return(nil)
	next, err := uc.Advance(context.Background(), 7, "listo")
	if err != nil || next != domain.StatusDelivered {
		t.Fatalf("expected entregado, got %q (%v)", next, err)
	}

	if _, err := uc.Advance(context.Background(), 7, "entregado"); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected terminal status to be rejected, got %v", err)
	}
}

func TestKDSUseCase_History(t *testing.T) {
	uc, menuRepo, orderRepo := newKDS(t)
	uc.now = func() time.Time { return time.Date(2024, time.March, 31, 12, 0, 0, 0, time.UTC) }

	menuRepo.EXPECT().List(gomock.Any()).Return(nil, nil)
	orderRepo.EXPECT().ListHistory(gomock.Any(), HistoryFetchLimit).Return([]*domain.Order{
		{ID: 1, Status: domain.StatusDelivered, PlacedAt: "2024-02-28T10:00:00"},
		{ID: 2, Status: domain.StatusDelivered, PlacedAt: "2024-03-05T10:00:00"},
		{ID: 3, Status: domain.StatusCancelled, PlacedAt: "2024-03-30 21:00:00"},
		{ID: 4, Status: domain.StatusDelivered, PlacedAt: ""},
	}, nil)

	tickets, err := uc.History(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tickets) != 2 || tickets[0].ID != 3 || tickets[1].ID != 2 {
		t.Fatalf("expected [3 2], got %+v", tickets)
	}
}
