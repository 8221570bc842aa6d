package services

import (
	"context"

	"github.com/shopspring/decimal"

	"cafebudget/internal/models"
	"cafebudget/internal/pagination"
)

// MonthlyBudgetInput is the full-replace payload of the month-keyed budgets
// (overall, payroll and company).
type MonthlyBudgetInput struct {
	Month       string
	Amount      decimal.Decimal
	Description string
}

// CategoryBudgetInput is the full-replace payload of a category budget row.
// An empty Subcategory addresses the main row.
type CategoryBudgetInput struct {
	Month       string
	Category    string
	Subcategory string
	Amount      decimal.Decimal
	Description string
}

// BudgetFilter holds optional list filters.
type BudgetFilter struct {
	Month    string
	Category string
}

// OverallBudgetServicer defines the contract for monthly spending ceilings.
type OverallBudgetServicer interface {
	CreateOverallBudget(ctx context.Context, in MonthlyBudgetInput) (*models.OverallBudget, error)
	GetOverallBudgets(ctx context.Context, page pagination.PageRequest, filter BudgetFilter) (*pagination.PageResponse[models.OverallBudget], error)
	GetOverallBudgetByID(ctx context.Context, id string) (*models.OverallBudget, error)
	UpdateOverallBudget(ctx context.Context, id string, in MonthlyBudgetInput) (*models.OverallBudget, error)
	DeleteOverallBudget(ctx context.Context, id string) error
}

// CategoryBudgetServicer defines the contract for main and sub-category rows.
type CategoryBudgetServicer interface {
	CreateCategoryBudget(ctx context.Context, in CategoryBudgetInput) (*models.CategoryBudget, error)
	GetCategoryBudgets(ctx context.Context, page pagination.PageRequest, filter BudgetFilter) (*pagination.PageResponse[models.CategoryBudget], error)
	GetCategoryBudgetByID(ctx context.Context, id string) (*models.CategoryBudget, error)
	UpdateCategoryBudget(ctx context.Context, id string, in CategoryBudgetInput) (*models.CategoryBudget, error)
	DeleteCategoryBudget(ctx context.Context, id string) error
}

// PayrollBudgetServicer defines the contract for payroll budgets.
type PayrollBudgetServicer interface {
	CreatePayrollBudget(ctx context.Context, in MonthlyBudgetInput) (*models.PayrollBudget, error)
	GetPayrollBudgets(ctx context.Context, page pagination.PageRequest, filter BudgetFilter) (*pagination.PageResponse[models.PayrollBudget], error)
	GetPayrollBudgetByID(ctx context.Context, id string) (*models.PayrollBudget, error)
	UpdatePayrollBudget(ctx context.Context, id string, in MonthlyBudgetInput) (*models.PayrollBudget, error)
	DeletePayrollBudget(ctx context.Context, id string) error
}

// CompanyBudgetServicer defines the contract for company budgets.
type CompanyBudgetServicer interface {
	CreateCompanyBudget(ctx context.Context, in MonthlyBudgetInput) (*models.CompanyBudget, error)
	GetCompanyBudgets(ctx context.Context, page pagination.PageRequest, filter BudgetFilter) (*pagination.PageResponse[models.CompanyBudget], error)
	GetCompanyBudgetByID(ctx context.Context, id string) (*models.CompanyBudget, error)
	UpdateCompanyBudget(ctx context.Context, id string, in MonthlyBudgetInput) (*models.CompanyBudget, error)
	DeleteCompanyBudget(ctx context.Context, id string) error
}

// FinalizeInput asks for a month to be scaled back under its overall budget,
// optionally including an unsaved pending allocation.
type FinalizeInput struct {
	Month           string
	PendingCategory string
	PendingAmount   *decimal.Decimal
	DryRun          bool
}

// BudgetUpdate is one category row written by finalize.
type BudgetUpdate struct {
	ID          string          `json:"id"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory,omitempty"`
	Old         decimal.Decimal `json:"old" swaggertype:"string"`
	New         decimal.Decimal `json:"new" swaggertype:"string"`
	Operation   string          `json:"operation"`
}

// PayrollUpdate is the payroll budget before and after finalize.
type PayrollUpdate struct {
	ID        string          `json:"id,omitempty"`
	Before    decimal.Decimal `json:"before" swaggertype:"string"`
	After     decimal.Decimal `json:"after" swaggertype:"string"`
	Operation string          `json:"operation,omitempty"`
}

// FinalizeResult reports what finalize changed.
type FinalizeResult struct {
	Month   string          `json:"month"`
	Factor  decimal.Decimal `json:"factor" swaggertype:"string"`
	Updates []BudgetUpdate  `json:"updates"`
	Payroll PayrollUpdate   `json:"payroll"`
	Warning string          `json:"warning,omitempty"`
	DryRun  bool            `json:"dry_run,omitempty"`
}

// CategoryTotals are the main-category amounts of a month.
type CategoryTotals struct {
	COGS             decimal.Decimal `json:"cogs" swaggertype:"string"`
	OperatingExpense decimal.Decimal `json:"operating_expense" swaggertype:"string"`
	Payroll          decimal.Decimal `json:"payroll" swaggertype:"string"`
}

// BudgetSummary is the read-only diagnostic view of a month.
type BudgetSummary struct {
	Month         string           `json:"month"`
	Overall       *decimal.Decimal `json:"overall" swaggertype:"string"`
	MainSum       decimal.Decimal  `json:"main_sum" swaggertype:"string"`
	Overrun       bool             `json:"overrun"`
	Remaining     *decimal.Decimal `json:"remaining,omitempty" swaggertype:"string"`
	Categories    CategoryTotals   `json:"categories"`
	PayrollBase   decimal.Decimal  `json:"payroll_base" swaggertype:"string"`
	CeilingPolicy string           `json:"ceiling_policy"`
}

// ReconciliationServicer defines finalize and the month summary.
type ReconciliationServicer interface {
	FinalizeBudgets(ctx context.Context, in FinalizeInput) (*FinalizeResult, error)
	GetBudgetSummary(ctx context.Context, month string) (*BudgetSummary, error)
}

// EmployeeBaseline is the payroll floor derived from the roster.
type EmployeeBaseline struct {
	BasePay         decimal.Decimal `json:"base_pay" swaggertype:"string"`
	ActiveEmployees int             `json:"active_employees"`
}

// EmployeeServicer defines read access to the employee roster.
type EmployeeServicer interface {
	GetEmployees(ctx context.Context, page pagination.PageRequest, activeOnly bool) (*pagination.PageResponse[models.Employee], error)
	GetEmployeeBaseline(ctx context.Context) (*EmployeeBaseline, error)
}

// AuditEntry describes one audited mutation.
type AuditEntry struct {
	Actor        string
	Action       string
	ResourceType string
	ResourceID   string
	Month        string
	IPAddress    string
	Changes      map[string]any
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, entry AuditEntry)
}
