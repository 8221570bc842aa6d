package handlers

import "github.com/gin-gonic/gin"

// Handlers bundles every HTTP handler served under /api/v1.
type Handlers struct {
	Overall        *OverallBudgetHandler
	Category       *CategoryBudgetHandler
	Payroll        *PayrollBudgetHandler
	Company        *CompanyBudgetHandler
	Reconciliation *ReconciliationHandler
	Employee       *EmployeeHandler
}

// RegisterRoutes mounts the budget API on rg.
func RegisterRoutes(rg *gin.RouterGroup, h *Handlers) {
	overall := rg.Group("/overall-budgets")
	overall.POST("", h.Overall.CreateOverallBudget)
	overall.GET("", h.Overall.GetOverallBudgets)
	overall.GET("/:id", h.Overall.GetOverallBudget)
	overall.PUT("/:id", h.Overall.UpdateOverallBudget)
	overall.DELETE("/:id", h.Overall.DeleteOverallBudget)

	// Static segments are registered before /:id.
	budgets := rg.Group("/budgets")
	budgets.POST("/finalize", h.Reconciliation.FinalizeBudgets)
	budgets.GET("/summary", h.Reconciliation.GetBudgetSummary)
	budgets.POST("", h.Category.CreateCategoryBudget)
	budgets.GET("", h.Category.GetCategoryBudgets)
	budgets.GET("/:id", h.Category.GetCategoryBudget)
	budgets.PUT("/:id", h.Category.UpdateCategoryBudget)
	budgets.DELETE("/:id", h.Category.DeleteCategoryBudget)

	payroll := rg.Group("/payroll-budgets")
	payroll.POST("", h.Payroll.CreatePayrollBudget)
	payroll.GET("", h.Payroll.GetPayrollBudgets)
	payroll.GET("/:id", h.Payroll.GetPayrollBudget)
	payroll.PUT("/:id", h.Payroll.UpdatePayrollBudget)
	payroll.DELETE("/:id", h.Payroll.DeletePayrollBudget)

	company := rg.Group("/company-budgets")
	company.POST("", h.Company.CreateCompanyBudget)
	company.GET("", h.Company.GetCompanyBudgets)
	company.GET("/:id", h.Company.GetCompanyBudget)
	company.PUT("/:id", h.Company.UpdateCompanyBudget)
	company.DELETE("/:id", h.Company.DeleteCompanyBudget)

	employees := rg.Group("/employees")
	employees.GET("", h.Employee.GetEmployees)
	employees.GET("/baseline", h.Employee.GetEmployeeBaseline)
}
