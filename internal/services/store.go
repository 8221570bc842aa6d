package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"cafebudget/internal/budget"
	apperrors "cafebudget/internal/errors"
	"cafebudget/internal/events"
	"cafebudget/internal/logger"
	"cafebudget/internal/models"
	"cafebudget/internal/uuid"
)

// Resource names used in events and audit entries.
const (
	ResourceOverallBudget  = "overall_budget"
	ResourceCategoryBudget = "category_budget"
	ResourcePayrollBudget  = "payroll_budget"
	ResourceCompanyBudget  = "company_budget"
	ResourceMonth          = "month"
)

// Postgres SQLSTATEs that mean "retry the whole transaction".
const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
)

// store is the budget store shared by the mutation services. Every mutation
// loads a fresh snapshot, validates and writes inside one transaction; no
// aggregate is cached between requests.
type store struct {
	db        *gorm.DB
	engine    *budget.Engine
	publisher events.Publisher
}

func newStore(db *gorm.DB, engine *budget.Engine, publisher events.Publisher) store {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return store{db: db, engine: engine, publisher: publisher}
}

// transaction runs fn atomically. On Postgres the transaction is serializable
// so two concurrent writers cannot both pass the ceiling check.
func (s *store) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var opts []*sql.TxOptions
	if s.db.Dialector.Name() == "postgres" {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelSerializable})
	}
	return translateError(s.db.WithContext(ctx).Transaction(fn, opts...))
}

// translateError maps storage errors onto AppErrors. AppErrors pass through.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.Wrap(apperrors.ErrDuplicateBudget, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateSerializationFailure, sqlStateDeadlockDetected:
			return apperrors.Wrap(apperrors.ErrConflictRetry, err)
		}
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// loadSnapshot reads everything the constraint engine needs for month.
func loadSnapshot(tx *gorm.DB, month string) (*budget.Snapshot, error) {
	snap := &budget.Snapshot{Month: month}

	var overall []models.OverallBudget
	if err := tx.Where("month = ?", month).Limit(1).Find(&overall).Error; err != nil {
		return nil, err
	}
	if len(overall) == 1 {
		amount := overall[0].Amount
		snap.Overall = &amount
	}

	var rows []models.CategoryBudget
	if err := tx.Where("month = ?", month).Order("category, subcategory").Find(&rows).Error; err != nil {
		return nil, err
	}
	snap.Categories = make([]budget.Allocation, 0, len(rows))
	for _, r := range rows {
		snap.Categories = append(snap.Categories, budget.Allocation{
			ID:          r.ID,
			Category:    r.Category,
			Subcategory: r.Subcategory,
			Amount:      r.Amount,
		})
	}

	var payroll []models.PayrollBudget
	if err := tx.Where("month = ?", month).Limit(1).Find(&payroll).Error; err != nil {
		return nil, err
	}
	if len(payroll) == 1 {
		snap.Payroll = &budget.Allocation{
			ID:       payroll[0].ID,
			Category: budget.CategoryPayroll,
			Amount:   payroll[0].Amount,
		}
	}

	base, _, err := payrollBase(tx)
	if err != nil {
		return nil, err
	}
	snap.PayrollBase = base
	return snap, nil
}

// payrollBase sums the base pay of active employees. An empty roster yields
// zero, which never rejects a payroll budget.
func payrollBase(tx *gorm.DB) (decimal.Decimal, int, error) {
	var pays []decimal.Decimal
	if err := tx.Model(&models.Employee{}).Where("active = ?", true).Pluck("base_pay", &pays).Error; err != nil {
		return decimal.Zero, 0, err
	}
	return budget.Sum(pays...), len(pays), nil
}

// publish announces a committed change. Failures are logged, never returned:
// the write already happened.
func (s *store) publish(ctx context.Context, eventType, resource, id, month string) {
	event := events.NewBudgetEvent(eventType, resource, id, month)
	event.Actor = events.ActorFromContext(ctx)
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Get().Warnw("failed to publish budget event",
			"error", err,
			"type", eventType,
			"resource", resource,
			"resource_id", id,
			"month", month,
		)
	}
}

func validateMonth(month string) error {
	if _, err := budget.ParseMonth(month); err != nil {
		return apperrors.WithDetails(apperrors.ErrInvalidInput, err.Error(), map[string]any{"month": month})
	}
	return nil
}

// validateAmount rejects negative amounts and sub-cent precision. positive
// additionally rejects zero.
func validateAmount(amount decimal.Decimal, positive bool) error {
	switch {
	case amount.IsNegative():
		return apperrors.WithDetails(apperrors.ErrInvalidInput, "amount must not be negative",
			map[string]any{"amount": amount.String()})
	case positive && amount.IsZero():
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	case !amount.Equal(amount.Truncate(2)):
		return apperrors.WithDetails(apperrors.ErrInvalidInput, "amount must have at most two decimal places",
			map[string]any{"amount": amount.String()})
	}
	return nil
}

func validateMonthlyInput(in MonthlyBudgetInput, positive bool) error {
	if err := validateMonth(in.Month); err != nil {
		return err
	}
	return validateAmount(in.Amount, positive)
}

func duplicateError(what, month string, extra map[string]any) error {
	details := map[string]any{"month": month}
	for k, v := range extra {
		details[k] = v
	}
	return apperrors.WithDetails(apperrors.ErrDuplicateBudget,
		fmt.Sprintf("%s for %s already exists; edit it instead.", what, month), details)
}

// findByID loads a row by primary key, mapping a miss to notFound.
func findByID[T any](tx *gorm.DB, id string, notFound *apperrors.AppError) (*T, error) {
	if !uuid.IsValid(id) {
		return nil, notFound
	}
	var row T
	if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, err
	}
	return &row, nil
}
