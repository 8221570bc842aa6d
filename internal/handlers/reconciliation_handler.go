package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "cafebudget/internal/errors"
	"cafebudget/internal/services"
)

// ReconciliationHandler handles finalize and the month summary.
type ReconciliationHandler struct {
	reconciliationService services.ReconciliationServicer
	auditService          services.AuditServicer
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconciliationService services.ReconciliationServicer, auditService services.AuditServicer) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationService: reconciliationService, auditService: auditService}
}

// FinalizeRequest asks for a month to be scaled back under its overall
// budget. The pending pair, when given, is an unsaved allocation to include.
type FinalizeRequest struct {
	Month           string           `json:"month" binding:"required,budget_month" example:"2025-06"`
	PendingCategory string           `json:"pending_category" binding:"omitempty,main_category" example:"Operating expense"`
	PendingAmount   *decimal.Decimal `json:"pending_amount" swaggertype:"string" example:"700.00"`
	DryRun          bool             `json:"dry_run"`
}

// FinalizeBudgets handles proportional scaling of a month.
// @Summary     Finalize a month
// @Description Scale COGS and Operating expense (and their sub-categories) so that, with payroll, they fit the overall budget
// @Tags        reconciliation
// @Accept      json
// @Produce     json
// @Param       role    query string          false "Acting role, recorded in the audit log"
// @Param       request body  FinalizeRequest true  "Month to finalize"
// @Success     200 {object} services.FinalizeResult "Applied (or planned) writes"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Concurrent change, retry"
// @Failure     422 {object} ErrorResponse "Missing overall budget or nothing to scale"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/finalize [post]
func (h *ReconciliationHandler) FinalizeBudgets(c *gin.Context) {
	var req FinalizeRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	ctx, actor := actorContext(c)
	result, err := h.reconciliationService.FinalizeBudgets(ctx, services.FinalizeInput{
		Month:           req.Month,
		PendingCategory: req.PendingCategory,
		PendingAmount:   req.PendingAmount,
		DryRun:          req.DryRun,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	if !result.DryRun {
		audit(c, h.auditService, actor, "FINALIZE_BUDGETS", services.ResourceMonth, "", result.Month,
			map[string]any{"factor": result.Factor.String(), "updates": len(result.Updates)})
	}
	c.JSON(http.StatusOK, result)
}

// GetBudgetSummary handles the read-only month diagnostic.
// @Summary     Month summary
// @Description Overall budget, main-category sum and whether the month is overrun
// @Tags        reconciliation
// @Produce     json
// @Param       month query string true "Month (YYYY-MM)"
// @Success     200 {object} services.BudgetSummary "Month summary"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/summary [get]
func (h *ReconciliationHandler) GetBudgetSummary(c *gin.Context) {
	month := c.Query("month")
	if month == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "month is required"))
		return
	}

	summary, err := h.reconciliationService.GetBudgetSummary(c.Request.Context(), month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
