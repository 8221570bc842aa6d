package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cafebudget/internal/services"
)

// OverallBudgetHandler handles the monthly spending ceilings.
type OverallBudgetHandler struct {
	overallService services.OverallBudgetServicer
	auditService   services.AuditServicer
}

// NewOverallBudgetHandler creates a new OverallBudgetHandler.
func NewOverallBudgetHandler(overallService services.OverallBudgetServicer, auditService services.AuditServicer) *OverallBudgetHandler {
	return &OverallBudgetHandler{overallService: overallService, auditService: auditService}
}

// CreateOverallBudget handles the creation of a month's overall budget.
// @Summary     Create an overall budget
// @Description Create the spending ceiling of a month inside the creation window
// @Tags        overall-budgets
// @Accept      json
// @Produce     json
// @Param       role    query string               false "Acting role, recorded in the audit log"
// @Param       request body  MonthlyBudgetRequest true  "Overall budget"
// @Success     201 {object} models.OverallBudget "Overall budget created"
// @Failure     400 {object} ErrorResponse "Invalid input or month outside the window"
// @Failure     409 {object} ErrorResponse "Duplicate month"
// @Failure     422 {object} ErrorResponse "Constraint violation"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /overall-budgets [post]
func (h *OverallBudgetHandler) CreateOverallBudget(c *gin.Context) {
	var req MonthlyBudgetRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	ctx, actor := actorContext(c)
	row, err := h.overallService.CreateOverallBudget(ctx, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	audit(c, h.auditService, actor, "CREATE_OVERALL_BUDGET", services.ResourceOverallBudget, row.ID, row.Month, req.changes())
	c.JSON(http.StatusCreated, gin.H{"overall_budget": row})
}

// GetOverallBudgets handles listing overall budgets.
// @Summary     List overall budgets
// @Description Paginated overall budgets, newest month first
// @Tags        overall-budgets
// @Produce     json
// @Param       month     query string false "Filter by month (YYYY-MM)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.OverallBudget] "Paginated overall budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /overall-budgets [get]
func (h *OverallBudgetHandler) GetOverallBudgets(c *gin.Context) {
	page, filter, err := bindListQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.overallService.GetOverallBudgets(c.Request.Context(), page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetOverallBudget handles retrieving one overall budget.
// @Summary     Get overall budget by ID
// @Tags        overall-budgets
// @Produce     json
// @Param       id path string true "Overall budget ID"
// @Success     200 {object} models.OverallBudget "Overall budget"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Overall budget not found"
// @Router      /overall-budgets/{id} [get]
func (h *OverallBudgetHandler) GetOverallBudget(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	row, err := h.overallService.GetOverallBudgetByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"overall_budget": row})
}

// UpdateOverallBudget handles replacing an overall budget.
// @Summary     Update overall budget
// @Description Replace an overall budget; the month's allocations are re-validated
// @Tags        overall-budgets
// @Accept      json
// @Produce     json
// @Param       id      path  string               true  "Overall budget ID"
// @Param       role    query string               false "Acting role, recorded in the audit log"
// @Param       request body  MonthlyBudgetRequest true  "Overall budget"
// @Success     200 {object} models.OverallBudget "Updated overall budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Overall budget not found"
// @Failure     409 {object} ErrorResponse "Duplicate month or ongoing month"
// @Failure     422 {object} ErrorResponse "Constraint violation"
// @Router      /overall-budgets/{id} [put]
func (h *OverallBudgetHandler) UpdateOverallBudget(c *gin.Context) {
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
	row, err := h.overallService.UpdateOverallBudget(ctx, id, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	audit(c, h.auditService, actor, "UPDATE_OVERALL_BUDGET", services.ResourceOverallBudget, row.ID, row.Month, req.changes())
	c.JSON(http.StatusOK, gin.H{"overall_budget": row})
}

// DeleteOverallBudget handles removing an overall budget.
// @Summary     Delete overall budget
// @Description The current month's overall budget can not be deleted
// @Tags        overall-budgets
// @Produce     json
// @Param       id   path  string true  "Overall budget ID"
// @Param       role query string false "Acting role, recorded in the audit log"
// @Success     200 {object} map[string]string "Overall budget deleted"
// @Failure     404 {object} ErrorResponse "Overall budget not found"
// @Failure     409 {object} ErrorResponse "Ongoing month"
// @Router      /overall-budgets/{id} [delete]
func (h *OverallBudgetHandler) DeleteOverallBudget(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	ctx, actor := actorContext(c)
	if err := h.overallService.DeleteOverallBudget(ctx, id); err != nil {
		respondWithError(c, err)
		return
	}

	audit(c, h.auditService, actor, "DELETE_OVERALL_BUDGET", services.ResourceOverallBudget, id, "", nil)
	c.JSON(http.StatusOK, gin.H{"message": "Overall budget deleted successfully"})
}
