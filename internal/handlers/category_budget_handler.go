package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"cafebudget/internal/services"
)

// CategoryBudgetHandler handles main-category rows and their sub-rows.
type CategoryBudgetHandler struct {
	categoryService services.CategoryBudgetServicer
	auditService    services.AuditServicer
}

// NewCategoryBudgetHandler creates a new CategoryBudgetHandler.
func NewCategoryBudgetHandler(categoryService services.CategoryBudgetServicer, auditService services.AuditServicer) *CategoryBudgetHandler {
	return &CategoryBudgetHandler{categoryService: categoryService, auditService: auditService}
}

// CategoryBudgetRequest is the full-replace payload of a category row. Leave
// subcategory empty to address the main row.
type CategoryBudgetRequest struct {
	Month       string           `json:"month" binding:"required,budget_month" example:"2025-06"`
	Category    string           `json:"category" binding:"required,main_category" example:"COGS"`
	Subcategory string           `json:"subcategory" binding:"max=100" example:"Coffee beans"`
	Amount      *decimal.Decimal `json:"amount" binding:"required" swaggertype:"string" example:"250.00"`
	Description string           `json:"description" binding:"max=255"`
}

func (r CategoryBudgetRequest) input() services.CategoryBudgetInput {
	return services.CategoryBudgetInput{
		Month:       r.Month,
		Category:    r.Category,
		Subcategory: r.Subcategory,
		Amount:      *r.Amount,
		Description: r.Description,
	}
}

func (r CategoryBudgetRequest) changes() map[string]any {
	return map[string]any{
		"month":       r.Month,
		"category":    r.Category,
		"subcategory": r.Subcategory,
		"amount":      r.Amount.String(),
	}
}

// CreateCategoryBudget handles the creation of a main row or sub-row.
// @Summary     Create a category budget
// @Description Create a COGS or Operating expense main row, or a sub-category row under any main category
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       role    query string                false "Acting role, recorded in the audit log"
// @Param       request body  CategoryBudgetRequest true  "Category budget"
// @Success     201 {object} models.CategoryBudget "Category budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate budget"
// @Failure     422 {object} ErrorResponse "Missing parent budget or constraint violation"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [post]
func (h *CategoryBudgetHandler) CreateCategoryBudget(c *gin.Context) {
	var req CategoryBudgetRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	ctx, actor := actorContext(c)
	row, err := h.categoryService.CreateCategoryBudget(ctx, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	audit(c, h.auditService, actor, "CREATE_BUDGET", services.ResourceCategoryBudget, row.ID, row.Month, req.changes())
	c.JSON(http.StatusCreated, gin.H{"budget": row})
}

// GetCategoryBudgets handles listing category rows.
// @Summary     List category budgets
// @Description Paginated category budgets, newest month first, main rows before their sub-rows
// @Tags        budgets
// @Produce     json
// @Param       month     query string false "Filter by month (YYYY-MM)"
// @Param       category  query string false "Filter by main category (synonyms accepted)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.CategoryBudget] "Paginated category budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [get]
func (h *CategoryBudgetHandler) GetCategoryBudgets(c *gin.Context) {
	page, filter, err := bindListQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.categoryService.GetCategoryBudgets(c.Request.Context(), page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCategoryBudget handles retrieving one category row.
// @Summary     Get category budget by ID
// @Tags        budgets
// @Produce     json
// @Param       id path string true "Category budget ID"
// @Success     200 {object} models.CategoryBudget "Category budget"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id} [get]
func (h *CategoryBudgetHandler) GetCategoryBudget(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	row, err := h.categoryService.GetCategoryBudgetByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": row})
}

// UpdateCategoryBudget handles replacing a category row.
// @Summary     Update category budget
// @Description Replace a category row; the month it ends up in is re-validated without the row itself
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       id      path  string                true  "Category budget ID"
// @Param       role    query string                false "Acting role, recorded in the audit log"
// @Param       request body  CategoryBudgetRequest true  "Category budget"
// @Success     200 {object} models.CategoryBudget "Updated category budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Duplicate budget or ongoing month"
// @Failure     422 {object} ErrorResponse "Missing parent budget or constraint violation"
// @Router      /budgets/{id} [put]
func (h *CategoryBudgetHandler) UpdateCategoryBudget(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CategoryBudgetRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	ctx, actor := actorContext(c)
	row, err := h.categoryService.UpdateCategoryBudget(ctx, id, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	audit(c, h.auditService, actor, "UPDATE_BUDGET", services.ResourceCategoryBudget, row.ID, row.Month, req.changes())
	c.JSON(http.StatusOK, gin.H{"budget": row})
}

// DeleteCategoryBudget handles removing a category row.
// @Summary     Delete category budget
// @Description Main rows of the current month, and main rows with sub-categories, can not be deleted
// @Tags        budgets
// @Produce     json
// @Param       id   path  string true  "Category budget ID"
// @Param       role query string false "Acting role, recorded in the audit log"
// @Success     200 {object} map[string]string "Budget deleted"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Ongoing month"
// @Failure     422 {object} ErrorResponse "Main row still has sub-categories"
// @Router      /budgets/{id} [delete]
func (h *CategoryBudgetHandler) DeleteCategoryBudget(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	ctx, actor := actorContext(c)
	if err := h.categoryService.DeleteCategoryBudget(ctx, id); err != nil {
		respondWithError(c, err)
		return
	}

	audit(c, h.auditService, actor, "DELETE_BUDGET", services.ResourceCategoryBudget, id, "", nil)
	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
}
