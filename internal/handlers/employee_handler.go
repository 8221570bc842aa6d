package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "cafebudget/internal/errors"
	"cafebudget/internal/pagination"
	"cafebudget/internal/services"
)

// EmployeeHandler exposes the read-only roster.
type EmployeeHandler struct {
	employeeService services.EmployeeServicer
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(employeeService services.EmployeeServicer) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// GetEmployees handles listing the roster.
// @Summary     List employees
// @Tags        employees
// @Produce     json
// @Param       active    query bool false "Only active employees"
// @Param       page      query int  false "Page number (default 1)"
// @Param       page_size query int  false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Employee] "Paginated employees"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /employees [get]
func (h *EmployeeHandler) GetEmployees(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	activeOnly := false
	if v := c.Query("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "active must be 'true' or 'false'"))
			return
		}
		activeOnly = b
	}

	result, err := h.employeeService.GetEmployees(c.Request.Context(), page, activeOnly)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetEmployeeBaseline handles the payroll floor lookup.
// @Summary     Payroll baseline
// @Description Summed base pay of active employees; payroll budgets can not go below it
// @Tags        employees
// @Produce     json
// @Success     200 {object} services.EmployeeBaseline "Payroll baseline"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /employees/baseline [get]
func (h *EmployeeHandler) GetEmployeeBaseline(c *gin.Context) {
	baseline, err := h.employeeService.GetEmployeeBaseline(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, baseline)
}
