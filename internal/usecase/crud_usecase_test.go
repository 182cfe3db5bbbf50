package usecase_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/restoledger/internal/domain"
	"github.com/iho/restoledger/internal/usecase"
	"github.com/iho/restoledger/internal/usecase/mocks"
)

func TestMenuUseCase_Create(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.MenuItemInput
		setupMocks  func(*mocks.MockMenuRepository)
		expectedErr error
	}{
		{
			name:  "valid dish",
			input: usecase.MenuItemInput{Name: "  Ceviche ", Price: decimal.NewFromInt(18), Category: "Fondos"},
			setupMocks: func(repo *mocks.MockMenuRepository) {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, item *domain.MenuItem) (*domain.MenuItem, error) {
					if item.Name != "Ceviche" {
						t.Fatalf("expected trimmed name, got %q", item.Name)
					}
					item.ID = 31
					return item, nil
				})
			},
		},
		{
			name:        "empty name",
			input:       usecase.MenuItemInput{Name: " ", Price: decimal.NewFromInt(1)},
			setupMocks:  func(*mocks.MockMenuRepository) {},
			expectedErr: domain.ErrInvalidName,
		},
		{
			name:        "negative price",
			input:       usecase.MenuItemInput{Name: "Agua", Price: decimal.NewFromInt(-1)},
			setupMocks:  func(*mocks.MockMenuRepository) {},
			expectedErr: domain.ErrInvalidPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockMenuRepository(ctrl)
			tt.setupMocks(repo)

			item, err := usecase.NewMenuUseCase(repo).Create(context.Background(), tt.input)
			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("expected %v, got %v", tt.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if item.ID != 31 {
				t.Fatalf("expected backend ID, got %d", item.ID)
			}
		})
	}
}

func TestMenuUseCase_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockMenuRepository(ctrl)
	repo.EXPECT().List(gomock.Any()).Return(testMenu(), nil).Times(2)

	uc := usecase.NewMenuUseCase(repo)

	item, err := uc.Get(context.Background(), 2)
	if err != nil || item.Name != "Chicha" {
		t.Fatalf("expected Chicha, got %+v (%v)", item, err)
	}

	if _, err := uc.Get(context.Background(), 99); !errors.Is(err, domain.ErrMenuItemNotFound) {
		t.Fatalf("expected ErrMenuItemNotFound, got %v", err)
	}
}

func TestMenuUseCase_UpdateAndDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockMenuRepository(ctrl)

	repo.EXPECT().Update(gomock.Any(), &domain.MenuItem{ID: 2, Name: "Chicha morada", Price: decimal.NewFromInt(3)}).
		DoAndReturn(func(_ context.Context, item *domain.MenuItem) (*domain.MenuItem, error) { return item, nil })
	repo.EXPECT().Delete(gomock.Any(), int64(2)).Return(domain.ErrMenuItemNotFound)

	uc := usecase.NewMenuUseCase(repo)

	if _, err := uc.Update(context.Background(), 2, usecase.MenuItemInput{Name: "Chicha morada", Price: decimal.NewFromInt(3)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := uc.Delete(context.Background(), 2); !errors.Is(err, domain.ErrMenuItemNotFound) {
		t.Fatalf("expected ErrMenuItemNotFound, got %v", err)
	}
}

func TestExpenseUseCase_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockExpenseRepository(ctrl)

	repo.EXPECT().List(gomock.Any(), domain.ExpenseFilter{
		From:     "2024-01-01",
		To:       "2024-01-31",
		Category: "INSUMOS",
		Limit:    usecase.AccountingFetchLimit,
	}).Return([]*domain.Expense{{ID: 1}}, nil)

	uc := usecase.NewExpenseUseCase(repo)

	expenses, err := uc.List(context.Background(), domain.ExpenseFilter{From: "2024-01-31", To: "2024-01-01", Category: " insumos"})
	if err != nil || len(expenses) != 1 {
		t.Fatalf("expected one expense, got %v (%v)", expenses, err)
	}

	if _, err := uc.List(context.Background(), domain.ExpenseFilter{From: "yesterday"}); !errors.Is(err, domain.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestExpenseUseCase_CreateAndUpdate(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockExpenseRepository(ctrl)

	repo.EXPECT().Create(gomock.Any(), &domain.Expense{Concept: "Gas", Amount: decimal.NewFromInt(30), Category: "OTROS"}).
		Return(&domain.Expense{ID: 9, Concept: "Gas", Amount: decimal.NewFromInt(30), Category: "OTROS"}, nil)
	repo.EXPECT().Update(gomock.Any(), &domain.Expense{ID: 9, Date: "2024-05-01", Concept: "Gas", Amount: decimal.NewFromInt(35), Category: "SERVICIOS"}).
		Return(&domain.Expense{ID: 9}, nil)

	uc := usecase.NewExpenseUseCase(repo)

	created, err := uc.Create(context.Background(), usecase.ExpenseInput{Concept: " Gas ", Amount: decimal.NewFromInt(30)})
	if err != nil || created.ID != 9 {
		t.Fatalf("expected created expense, got %+v (%v)", created, err)
	}

	if _, err := uc.Update(context.Background(), 9, usecase.ExpenseInput{Date: "2024-05-01", Concept: "Gas", Amount: decimal.NewFromInt(35), Category: "servicios"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := uc.Create(context.Background(), usecase.ExpenseInput{Concept: "", Amount: decimal.NewFromInt(1)}); !errors.Is(err, domain.ErrEmptyConcept) {
		t.Fatalf("expected ErrEmptyConcept, got %v", err)
	}
}

func TestExpenseUseCase_Categories(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockExpenseRepository(ctrl)
	repo.EXPECT().List(gomock.Any(), gomock.Any()).Return([]*domain.Expense{
		{Category: "marketing"},
		{Category: "INSUMOS"},
		{Category: ""},
		{Category: "Limpieza"},
		{Category: "MARKETING"},
	}, nil)

	categories, err := usecase.NewExpenseUseCase(repo).Categories(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := append(append([]string{}, domain.DefaultExpenseCategories...), "LIMPIEZA", "MARKETING")
	if !reflect.DeepEqual(categories, want) {
		t.Fatalf("expected %v, got %v", want, categories)
	}
}

func TestMovementUseCase(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockMovementRepository(ctrl)

	repo.EXPECT().List(gomock.Any(), usecase.AccountingFetchLimit).Return(nil, nil)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m *domain.Movement) (*domain.Movement, error) {
		if m.Category != "INGRESOS" || m.Type != domain.MovementIncome {
			t.Fatalf("expected normalized income movement, got %+v", m)
		}
		m.ID = 3
		return m, nil
	})

	uc := usecase.NewMovementUseCase(repo)

	if _, err := uc.List(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m, err := uc.Create(context.Background(), usecase.MovementInput{Type: "ingreso", Concept: "Aporte", Amount: decimal.NewFromInt(100)})
	if err != nil || m.ID != 3 {
		t.Fatalf("expected created movement, got %+v (%v)", m, err)
	}

	if _, err := uc.Create(context.Background(), usecase.MovementInput{Type: "OTRO", Concept: "x"}); !errors.Is(err, domain.ErrInvalidMovement) {
		t.Fatalf("expected ErrInvalidMovement, got %v", err)
	}
}
