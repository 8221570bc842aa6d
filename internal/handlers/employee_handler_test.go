package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"cafebudget/internal/models"
	"cafebudget/internal/pagination"
	"cafebudget/internal/services"
)

type mockEmployeeService struct {
	activeOnly bool
}

func (m *mockEmployeeService) GetEmployees(_ context.Context, page pagination.PageRequest, activeOnly bool) (*pagination.PageResponse[models.Employee], error) {
	m.activeOnly = activeOnly
	resp := pagination.NewPageResponse([]models.Employee{{Name: "Ana", Active: true}}, page, 1)
	return &resp, nil
}

func (m *mockEmployeeService) GetEmployeeBaseline(context.Context) (*services.EmployeeBaseline, error) {
	return &services.EmployeeBaseline{BasePay: decimal.RequireFromString("920.25"), ActiveEmployees: 2}, nil
}

var _ services.EmployeeServicer = (*mockEmployeeService)(nil)

func setupEmployeeRouter(handler *EmployeeHandler) *gin.Engine {
	r := gin.New()
	r.GET("/employees", handler.GetEmployees)
	r.GET("/employees/baseline", handler.GetEmployeeBaseline)
	return r
}

func TestEmployeeHandler(t *testing.T) {
	t.Run("baseline", func(t *testing.T) {
		r := setupEmployeeRouter(NewEmployeeHandler(&mockEmployeeService{}))
		rec := doRequest(r, "GET", "/employees/baseline", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["base_pay"] != "920.25" || result["active_employees"].(float64) != 2 {
			t.Errorf("unexpected baseline %v", result)
		}
	})

	t.Run("active filter", func(t *testing.T) {
		svc := &mockEmployeeService{}
		r := setupEmployeeRouter(NewEmployeeHandler(svc))
		rec := doRequest(r, "GET", "/employees?active=true", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !svc.activeOnly {
			t.Error("expected activeOnly to be forwarded")
		}
	})

	t.Run("bad active value", func(t *testing.T) {
		r := setupEmployeeRouter(NewEmployeeHandler(&mockEmployeeService{}))
		rec := doRequest(r, "GET", "/employees?active=maybe", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
