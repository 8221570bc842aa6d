package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"cafebudget/internal/budget"
	apperrors "cafebudget/internal/errors"
	"cafebudget/internal/events"
	"cafebudget/internal/logger"
	"cafebudget/internal/pagination"
	"cafebudget/internal/services"
	"cafebudget/internal/uuid"
)

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// MonthlyBudgetRequest is the full-replace payload of overall, payroll and
// company budgets. Amount accepts a JSON number or string.
type MonthlyBudgetRequest struct {
	Month       string           `json:"month" binding:"required,budget_month" example:"2025-06"`
	Amount      *decimal.Decimal `json:"amount" binding:"required" swaggertype:"string" example:"1000.00"`
	Description string           `json:"description" binding:"max=255"`
}

func (r MonthlyBudgetRequest) input() services.MonthlyBudgetInput {
	return services.MonthlyBudgetInput{Month: r.Month, Amount: *r.Amount, Description: r.Description}
}

func (r MonthlyBudgetRequest) changes() map[string]any {
	return map[string]any{"month": r.Month, "amount": r.Amount.String()}
}

// actorContext returns the request context carrying the caller's role. The
// role is trusted as given; authentication happens upstream.
func actorContext(c *gin.Context) (context.Context, string) {
	actor := c.Query("role")
	return events.WithActor(c.Request.Context(), actor), actor
}

// parsePathID reads a UUID path parameter.
//
//nolint:unparam // param is generic for reuse across handlers with different path params
func parsePathID(c *gin.Context, param string) (string, error) {
	id := c.Param(param)
	if !uuid.IsValid(id) {
		return "", apperrors.WithDetails(apperrors.ErrInvalidInput, "Invalid "+param, map[string]any{param: id})
	}
	return id, nil
}

// bindListQuery parses the paging parameters and the optional month filter.
func bindListQuery(c *gin.Context) (pagination.PageRequest, services.BudgetFilter, error) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		return page, services.BudgetFilter{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	filter := services.BudgetFilter{Month: c.Query("month"), Category: c.Query("category")}
	if filter.Month != "" && !budget.ValidMonth(filter.Month) {
		return page, filter, apperrors.WithDetails(apperrors.ErrInvalidInput,
			"month must be formatted as YYYY-MM", map[string]any{"month": filter.Month})
	}
	return page, filter, nil
}

func bindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	return nil
}

// audit records a successful mutation.
func audit(c *gin.Context, svc services.AuditServicer, actor, action, resource, id, month string, changes map[string]any) {
	svc.Log(c.Request.Context(), services.AuditEntry{
		Actor:        actor,
		Action:       action,
		ResourceType: resource,
		ResourceID:   id,
		Month:        month,
		IPAddress:    c.ClientIP(),
		Changes:      changes,
	})
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, message and details.
// Otherwise it logs the unexpected error and returns a generic internal
// server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, ErrorResponse{Error: ErrorDetail{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		}})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, ErrorResponse{Error: ErrorDetail{
		Code:    apperrors.ErrInternalServer.Code,
		Message: apperrors.ErrInternalServer.Message,
	}})
}
