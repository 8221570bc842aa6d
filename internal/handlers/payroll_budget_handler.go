package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cafebudget/internal/services"
)

// PayrollBudgetHandler handles the Payroll main budget of each month.
type PayrollBudgetHandler struct {
	payrollService services.PayrollBudgetServicer
	auditService   services.AuditServicer
}

// NewPayrollBudgetHandler creates a new PayrollBudgetHandler.
func NewPayrollBudgetHandler(payrollService services.PayrollBudgetServicer, auditService services.AuditServicer) *PayrollBudgetHandler {
	return &PayrollBudgetHandler{payrollService: payrollService, auditService: auditService}
}

// CreatePayrollBudget handles the creation of a month's payroll budget.
// @Summary     Create a payroll budget
// @Description Create the Payroll main budget; it must cover the active employees' base pay
// @Tags        payroll-budgets
// @Accept      json
// @Produce     json
// @Param       role    query string               false "Acting role, recorded in the audit log"
// @Param       request body  MonthlyBudgetRequest true  "Payroll budget"
// @Success     201 {object} models.PayrollBudget "Payroll budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate month"
// @Failure     422 {object} ErrorResponse "Missing overall budget, constraint violation or payroll floor"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /payroll-budgets [post]
func (h *PayrollBudgetHandler) CreatePayrollBudget(c *gin.Context) {
	var req MonthlyBudgetRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	ctx, actor := actorContext(c)
	row, err := h.payrollService.CreatePayrollBudget(ctx, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	audit(c, h.auditService, actor, "CREATE_PAYROLL_BUDGET", services.ResourcePayrollBudget, row.ID, row.Month, req.changes())
	c.JSON(http.StatusCreated, gin.H{"payroll_budget": row})
}

// GetPayrollBudgets handles listing payroll budgets.
// @Summary     List payroll budgets
// @Description Paginated payroll budgets, newest month first
// @Tags        payroll-budgets
// @Produce     json
// @Param       month     query string false "Filter by month (YYYY-MM)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.PayrollBudget] "Paginated payroll budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /payroll-budgets [get]
func (h *PayrollBudgetHandler) GetPayrollBudgets(c *gin.Context) {
	page, filter, err := bindListQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.payrollService.GetPayrollBudgets(c.Request.Context(), page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPayrollBudget handles retrieving one payroll budget.
// @Summary     Get payroll budget by ID
// @Tags        payroll-budgets
// @Produce     json
// @Param       id path string true "Payroll budget ID"
// @Success     200 {object} models.PayrollBudget "Payroll budget"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Payroll budget not found"
// @Router      /payroll-budgets/{id} [get]
func (h *PayrollBudgetHandler) GetPayrollBudget(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	row, err := h.payrollService.GetPayrollBudgetByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payroll_budget": row})
}

// UpdatePayrollBudget handles replacing a payroll budget.
// @Summary     Update payroll budget
// @Description Replace a payroll budget; the month's allocations are re-validated
// @Tags        payroll-budgets
// @Accept      json
// @Produce     json
// @Param       id      path  string               true  "Payroll budget ID"
// @Param       role    query string               false "Acting role, recorded in the audit log"
// @Param       request body  MonthlyBudgetRequest true  "Payroll budget"
// @Success     200 {object} models.PayrollBudget "Updated payroll budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Payroll budget not found"
// @Failure     409 {object} ErrorResponse "Duplicate month or ongoing month"
// @Failure     422 {object} ErrorResponse "Missing overall budget, constraint violation or payroll floor"
// @Router      /payroll-budgets/{id} [put]
func (h *PayrollBudgetHandler) UpdatePayrollBudget(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req MonthlyBudgetRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	ctx, actor := actorContext(c)
	row, err := h.payrollService.UpdatePayrollBudget(ctx, id, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	audit(c, h.auditService, actor, "UPDATE_PAYROLL_BUDGET", services.ResourcePayrollBudget, row.ID, row.Month, req.changes())
	c.JSON(http.StatusOK, gin.H{"payroll_budget": row})
}

// DeletePayrollBudget handles removing a payroll budget.
// @Summary     Delete payroll budget
// @Description The current month's payroll budget, or one with payroll sub-categories, can not be deleted
// @Tags        payroll-budgets
// @Produce     json
// @Param       id   path  string true  "Payroll budget ID"
// @Param       role query string false "Acting role, recorded in the audit log"
// @Success     200 {object} map[string]string "Payroll budget deleted"
// @Failure     404 {object} ErrorResponse "Payroll budget not found"
// @Failure     409 {object} ErrorResponse "Ongoing month"
// @Router      /payroll-budgets/{id} [delete]
func (h *PayrollBudgetHandler) DeletePayrollBudget(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	ctx, actor := actorContext(c)
	if err := h.payrollService.DeletePayrollBudget(ctx, id); err != nil {
		respondWithError(c, err)
		return
	}

	audit(c, h.auditService, actor, "DELETE_PAYROLL_BUDGET", services.ResourcePayrollBudget, id, "", nil)
	c.JSON(http.StatusOK, gin.H{"message": "Payroll budget deleted successfully"})
}
