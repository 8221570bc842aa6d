package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cafebudget/internal/services"
)

// CompanyBudgetHandler handles company budgets. They are informational and
// not cross-checked against the café's budgets.
type CompanyBudgetHandler struct {
	companyService services.CompanyBudgetServicer
	auditService   services.AuditServicer
}

// NewCompanyBudgetHandler creates a new CompanyBudgetHandler.
func NewCompanyBudgetHandler(companyService services.CompanyBudgetServicer, auditService services.AuditServicer) *CompanyBudgetHandler {
	return &CompanyBudgetHandler{companyService: companyService, auditService: auditService}
}

// CreateCompanyBudget handles the creation of a month's company budget.
// @Summary     Create a company budget
// @Description Create the company budget of a month
// @Tags        company-budgets
// @Accept      json
// @Produce     json
// @Param       role    query string               false "Acting role, recorded in the audit log"
// @Param       request body  MonthlyBudgetRequest true  "Company budget"
// @Success     201 {object} models.CompanyBudget "Company budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate month"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /company-budgets [post]
func (h *CompanyBudgetHandler) CreateCompanyBudget(c *gin.Context) {
	var req MonthlyBudgetRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	ctx, actor := actorContext(c)
	row, err := h.companyService.CreateCompanyBudget(ctx, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	audit(c, h.auditService, actor, "CREATE_COMPANY_BUDGET", services.ResourceCompanyBudget, row.ID, row.Month, req.changes())
	c.JSON(http.StatusCreated, gin.H{"company_budget": row})
}

// GetCompanyBudgets handles listing company budgets.
// @Summary     List company budgets
// @Description Paginated company budgets, newest month first
// @Tags        company-budgets
// @Produce     json
// @Param       month     query string false "Filter by month (YYYY-MM)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.CompanyBudget] "Paginated company budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /company-budgets [get]
func (h *CompanyBudgetHandler) GetCompanyBudgets(c *gin.Context) {
	page, filter, err := bindListQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.companyService.GetCompanyBudgets(c.Request.Context(), page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCompanyBudget handles retrieving one company budget.
// @Summary     Get company budget by ID
// @Tags        company-budgets
// @Produce     json
// @Param       id path string true "Company budget ID"
// @Success     200 {object} models.CompanyBudget "Company budget"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Company budget not found"
// @Router      /company-budgets/{id} [get]
func (h *CompanyBudgetHandler) GetCompanyBudget(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	row, err := h.companyService.GetCompanyBudgetByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"company_budget": row})
}

// UpdateCompanyBudget handles replacing a company budget.
// @Summary     Update company budget
// @Description Replace a company budget
// @Tags        company-budgets
// @Accept      json
// @Produce     json
// @Param       id      path  string               true  "Company budget ID"
// @Param       role    query string               false "Acting role, recorded in the audit log"
// @Param       request body  MonthlyBudgetRequest true  "Company budget"
// @Success     200 {object} models.CompanyBudget "Updated company budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Company budget not found"
// @Failure     409 {object} ErrorResponse "Duplicate month"
// @Router      /company-budgets/{id} [put]
func (h *CompanyBudgetHandler) UpdateCompanyBudget(c *gin.Context) {
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
	row, err := h.companyService.UpdateCompanyBudget(ctx, id, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	audit(c, h.auditService, actor, "UPDATE_COMPANY_BUDGET", services.ResourceCompanyBudget, row.ID, row.Month, req.changes())
	c.JSON(http.StatusOK, gin.H{"company_budget": row})
}

// DeleteCompanyBudget handles removing a company budget.
// @Summary     Delete company budget
// @Tags        company-budgets
// @Produce     json
// @Param       id   path  string true  "Company budget ID"
// @Param       role query string false "Acting role, recorded in the audit log"
// @Success     200 {object} map[string]string "Company budget deleted"
// @Failure     404 {object} ErrorResponse "Company budget not found"
// @Router      /company-budgets/{id} [delete]
func (h *CompanyBudgetHandler) DeleteCompanyBudget(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	ctx, actor := actorContext(c)
	if err := h.companyService.DeleteCompanyBudget(ctx, id); err != nil {
		respondWithError(c, err)
		return
	}

	audit(c, h.auditService, actor, "DELETE_COMPANY_BUDGET", services.ResourceCompanyBudget, id, "", nil)
	c.JSON(http.StatusOK, gin.H{"message": "Company budget deleted successfully"})
}
