// Package errors provides custom error types for the cafebudget API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, optional structured details
// and optional internal error.
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	StatusCode int            `json:"-"`
	Internal   error          `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		Details:    sentinel.Details,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		Details:    sentinel.Details,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// WithDetails creates a new AppError with a custom message and the numeric or
// textual context a client needs to render the rejection.
func WithDetails(sentinel *AppError, message string, details map[string]any) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		Details:    details,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Is reports whether target carries the same code. This lets callers write
// errors.Is(err, apperrors.ErrConstraintViolation) against derived errors.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
	ErrConflictRetry  = &AppError{Code: "TRANSACTION_CONFLICT", Message: "The budget changed concurrently, please retry", StatusCode: http.StatusConflict}
)

// Budget validation errors.
var (
	ErrWindow              = &AppError{Code: "WINDOW_ERROR", Message: "Month is outside the allowed budgeting window", StatusCode: http.StatusBadRequest}
	ErrDuplicateBudget     = &AppError{Code: "DUPLICATE_BUDGET", Message: "A budget already exists for this key", StatusCode: http.StatusConflict}
	ErrPrecondition        = &AppError{Code: "PRECONDITION_FAILED", Message: "A required parent budget is missing", StatusCode: http.StatusUnprocessableEntity}
	ErrConstraintViolation = &AppError{Code: "CONSTRAINT_VIOLATION", Message: "The budget would violate the budget hierarchy", StatusCode: http.StatusUnprocessableEntity}
	ErrPayrollFloor        = &AppError{Code: "PAYROLL_FLOOR", Message: "Payroll budget is below the employees' base pay", StatusCode: http.StatusUnprocessableEntity}
	ErrTemporalProtection  = &AppError{Code: "TEMPORAL_PROTECTION", Message: "Ongoing budget can not be deleted", StatusCode: http.StatusConflict}
	ErrNothingToScale      = &AppError{Code: "NOTHING_TO_SCALE", Message: "There are no allocations to scale for this month", StatusCode: http.StatusUnprocessableEntity}
)

// Not-found errors per entity.
var (
	ErrOverallBudgetNotFound  = &AppError{Code: "OVERALL_BUDGET_NOT_FOUND", Message: "Overall budget not found", StatusCode: http.StatusNotFound}
	ErrCategoryBudgetNotFound = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrPayrollBudgetNotFound  = &AppError{Code: "PAYROLL_BUDGET_NOT_FOUND", Message: "Payroll budget not found", StatusCode: http.StatusNotFound}
	ErrCompanyBudgetNotFound  = &AppError{Code: "COMPANY_BUDGET_NOT_FOUND", Message: "Company budget not found", StatusCode: http.StatusNotFound}
)
