package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "cafebudget/internal/errors"
	"cafebudget/internal/models"
	"cafebudget/internal/pagination"
	"cafebudget/internal/services"
)

// --- mock category budget service ---

type mockCategoryBudgetService struct {
	createFn  func(ctx context.Context, in services.CategoryBudgetInput) (*models.CategoryBudget, error)
	listFn    func(ctx context.Context, page pagination.PageRequest, filter services.BudgetFilter) (*pagination.PageResponse[models.CategoryBudget], error)
	getByIDFn func(ctx context.Context, id string) (*models.CategoryBudget, error)
	updateFn  func(ctx context.Context, id string, in services.CategoryBudgetInput) (*models.CategoryBudget, error)
	deleteFn  func(ctx context.Context, id string) error
}

func (m *mockCategoryBudgetService) CreateCategoryBudget(ctx context.Context, in services.CategoryBudgetInput) (*models.CategoryBudget, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	return &models.CategoryBudget{Base: models.Base{ID: testID}, Month: in.Month, Category: in.Category, Subcategory: in.Subcategory, Amount: in.Amount}, nil
}

func (m *mockCategoryBudgetService) GetCategoryBudgets(ctx context.Context, page pagination.PageRequest, filter services.BudgetFilter) (*pagination.PageResponse[models.CategoryBudget], error) {
	if m.listFn != nil {
		return m.listFn(ctx, page, filter)
	}
	resp := pagination.NewPageResponse([]models.CategoryBudget{}, pagination.PageRequest{Page: 1, PageSize: 20}, 0)
	return &resp, nil
}

func (m *mockCategoryBudgetService) GetCategoryBudgetByID(ctx context.Context, id string) (*models.CategoryBudget, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &models.CategoryBudget{Base: models.Base{ID: id}}, nil
}

func (m *mockCategoryBudgetService) UpdateCategoryBudget(ctx context.Context, id string, in services.CategoryBudgetInput) (*models.CategoryBudget, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, in)
	}
	return &models.CategoryBudget{Base: models.Base{ID: id}, Month: in.Month, Category: in.Category, Amount: in.Amount}, nil
}

func (m *mockCategoryBudgetService) DeleteCategoryBudget(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

var _ services.CategoryBudgetServicer = (*mockCategoryBudgetService)(nil)

func setupCategoryRouter(handler *CategoryBudgetHandler) *gin.Engine {
	r := gin.New()
	r.POST("/budgets", handler.CreateCategoryBudget)
	r.GET("/budgets", handler.GetCategoryBudgets)
	r.GET("/budgets/:id", handler.GetCategoryBudget)
	r.PUT("/budgets/:id", handler.UpdateCategoryBudget)
	r.DELETE("/budgets/:id", handler.DeleteCategoryBudget)
	return r
}

func TestCategoryBudgetHandler_Create(t *testing.T) {
	t.Run("returns 201 for a sub-row", func(t *testing.T) {
		var got services.CategoryBudgetInput
		svc := &mockCategoryBudgetService{
			createFn: func(_ context.Context, in services.CategoryBudgetInput) (*models.CategoryBudget, error) {
				got = in
				return &models.CategoryBudget{Base: models.Base{ID: testID}, Month: in.Month, Category: "COGS", Subcategory: in.Subcategory, Amount: in.Amount}, nil
			},
		}
		auditSvc := &mockAuditService{}
		r := setupCategoryRouter(NewCategoryBudgetHandler(svc, auditSvc))

		rec := doRequest(r, "POST", "/budgets?role=barista",
			`{"month":"2025-06","category":"cost of goods sold","subcategory":"Beans","amount":120.5}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Category != "cost of goods sold" || got.Subcategory != "Beans" {
			t.Errorf("expected raw names forwarded to the service, got %+v", got)
		}
		row := parseJSON(t, rec)["budget"].(map[string]any)
		if row["subcategory"] != "Beans" {
			t.Errorf("expected subcategory Beans, got %v", row["subcategory"])
		}
		if entry := auditSvc.last(t); entry.Action != "CREATE_BUDGET" || entry.Actor != "barista" {
			t.Errorf("unexpected audit entry %+v", entry)
		}
	})

	t.Run("returns 400 on unknown category", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryBudgetHandler(&mockCategoryBudgetService{}, &mockAuditService{}))
		rec := doRequest(r, "POST", "/budgets", `{"month":"2025-06","category":"Marketing","amount":"10"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 422 when the overall budget is missing", func(t *testing.T) {
		svc := &mockCategoryBudgetService{
			createFn: func(context.Context, services.CategoryBudgetInput) (*models.CategoryBudget, error) {
				return nil, apperrors.WithDetails(apperrors.ErrPrecondition, "create an overall budget first",
					map[string]any{"missing": "overall_budget"})
			},
		}
		r := setupCategoryRouter(NewCategoryBudgetHandler(svc, &mockAuditService{}))
		rec := doRequest(r, "POST", "/budgets", `{"month":"2025-06","category":"COGS","amount":"10"}`)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		details := assertErrorCode(t, parseJSON(t, rec), "PRECONDITION_FAILED")
		if details["missing"] != "overall_budget" {
			t.Errorf("expected missing overall_budget, got %v", details)
		}
	})

	t.Run("returns 409 on duplicate", func(t *testing.T) {
		svc := &mockCategoryBudgetService{
			createFn: func(context.Context, services.CategoryBudgetInput) (*models.CategoryBudget, error) {
				return nil, apperrors.ErrDuplicateBudget
			},
		}
		r := setupCategoryRouter(NewCategoryBudgetHandler(svc, &mockAuditService{}))
		rec := doRequest(r, "POST", "/budgets", `{"month":"2025-06","category":"COGS","amount":"10"}`)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})
}

func TestCategoryBudgetHandler_ListAndDelete(t *testing.T) {
	t.Run("forwards category filter", func(t *testing.T) {
		var got services.BudgetFilter
		svc := &mockCategoryBudgetService{
			listFn: func(_ context.Context, page pagination.PageRequest, filter services.BudgetFilter) (*pagination.PageResponse[models.CategoryBudget], error) {
				got = filter
				resp := pagination.NewPageResponse([]models.CategoryBudget{}, page, 0)
				return &resp, nil
			},
		}
		r := setupCategoryRouter(NewCategoryBudgetHandler(svc, &mockAuditService{}))
		rec := doRequest(r, "GET", "/budgets?month=2025-06&category=opex", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got.Month != "2025-06" || got.Category != "opex" {
			t.Errorf("unexpected filter %+v", got)
		}
	})

	t.Run("delete returns 422 when sub-rows remain", func(t *testing.T) {
		svc := &mockCategoryBudgetService{
			deleteFn: func(context.Context, string) error { return apperrors.ErrConstraintViolation },
		}
		auditSvc := &mockAuditService{}
		r := setupCategoryRouter(NewCategoryBudgetHandler(svc, auditSvc))
		rec := doRequest(r, "DELETE", "/budgets/"+testID, "")
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		if len(auditSvc.entries) != 0 {
			t.Error("a rejected delete must not be audited")
		}
	})

	t.Run("unexpected errors are hidden", func(t *testing.T) {
		svc := &mockCategoryBudgetService{
			getByIDFn: func(context.Context, string) (*models.CategoryBudget, error) {
				return nil, context.DeadlineExceeded
			},
		}
		r := setupCategoryRouter(NewCategoryBudgetHandler(svc, &mockAuditService{}))
		rec := doRequest(r, "GET", "/budgets/"+testID, "")
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INTERNAL_ERROR")
	})
}
