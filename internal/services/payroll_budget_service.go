package services

import (
	"context"

	"gorm.io/gorm"

	"cafebudget/internal/budget"
	apperrors "cafebudget/internal/errors"
	"cafebudget/internal/events"
	"cafebudget/internal/models"
	"cafebudget/internal/pagination"
)

// payrollBudgetService handles the Payroll main budget of each month.
type payrollBudgetService struct {
	store
}

// NewPayrollBudgetService creates a new PayrollBudgetServicer.
func NewPayrollBudgetService(db *gorm.DB, engine *budget.Engine, publisher events.Publisher) PayrollBudgetServicer {
	return &payrollBudgetService{store: newStore(db, engine, publisher)}
}

// CreatePayrollBudget creates the payroll budget of a month.
func (s *payrollBudgetService) CreatePayrollBudget(ctx context.Context, in MonthlyBudgetInput) (*models.PayrollBudget, error) {
	if err := validateMonthlyInput(in, false); err != nil {
		return nil, err
	}

	row := &models.PayrollBudget{Month: in.Month, Amount: in.Amount, Description: in.Description}
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		snap, err := loadSnapshot(tx, in.Month)
		if err != nil {
			return err
		}
		if err := s.engine.RequireOverallBudget(snap); err != nil {
			return err
		}
		if snap.Payroll != nil {
			return duplicateError("A payroll budget", in.Month, nil)
		}
		if err := s.engine.ValidatePayroll(snap, in.Amount); err != nil {
			return err
		}
		return tx.Create(row).Error
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.BudgetCreated, ResourcePayrollBudget, row.ID, row.Month)
	return row, nil
}

// GetPayrollBudgets lists payroll budgets, newest month first.
func (s *payrollBudgetService) GetPayrollBudgets(
	ctx context.Context,
	page pagination.PageRequest,
	filter BudgetFilter,
) (*pagination.PageResponse[models.PayrollBudget], error) {
	query := s.db.WithContext(ctx).Model(&models.PayrollBudget{})
	if filter.Month != "" {
		query = query.Where("month = ?", filter.Month)
	}
	result, err := pagination.Find[models.PayrollBudget](query, page, "month DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// GetPayrollBudgetByID returns a payroll budget by ID.
func (s *payrollBudgetService) GetPayrollBudgetByID(ctx context.Context, id string) (*models.PayrollBudget, error) {
	row, err := findByID[models.PayrollBudget](s.db.WithContext(ctx), id, apperrors.ErrPayrollBudgetNotFound)
	if err != nil {
		return nil, translateError(err)
	}
	return row, nil
}

// UpdatePayrollBudget replaces a payroll budget.
func (s *payrollBudgetService) UpdatePayrollBudget(ctx context.Context, id string, in MonthlyBudgetInput) (*models.PayrollBudget, error) {
	if err := validateMonthlyInput(in, false); err != nil {
		return nil, err
	}

	var row *models.PayrollBudget
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var err error
		row, err = findByID[models.PayrollBudget](tx, id, apperrors.ErrPayrollBudgetNotFound)
		if err != nil {
			return err
		}

		if row.Month != in.Month {
			if err := s.engine.CheckDeletable(row.Month); err != nil {
				return err
			}
			old, err := loadSnapshot(tx, row.Month)
			if err != nil {
				return err
			}
			if err := s.engine.ValidateMainRemoval(old, budget.CategoryPayroll); err != nil {
				return err
			}
		}

		snap, err := loadSnapshot(tx, in.Month)
		if err != nil {
			return err
		}
		snap = snap.Without(row.ID)
		if err := s.engine.RequireOverallBudget(snap); err != nil {
			return err
		}
		if snap.Payroll != nil {
			return duplicateError("A payroll budget", in.Month, nil)
		}
		if err := s.engine.ValidatePayroll(snap, in.Amount); err != nil {
			return err
		}

		row.Month = in.Month
		row.Amount = in.Amount
		row.Description = in.Description
		return tx.Save(row).Error
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.BudgetUpdated, ResourcePayrollBudget, row.ID, row.Month)
	return row, nil
}

// DeletePayrollBudget removes a payroll budget that neither anchors the
// current month nor contains payroll sub-rows.
func (s *payrollBudgetService) DeletePayrollBudget(ctx context.Context, id string) error {
	var month string
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		row, err := findByID[models.PayrollBudget](tx, id, apperrors.ErrPayrollBudgetNotFound)
		if err != nil {
			return err
		}
		if err := s.engine.CheckDeletable(row.Month); err != nil {
			return err
		}
		snap, err := loadSnapshot(tx, row.Month)
		if err != nil {
			return err
		}
		if err := s.engine.ValidateMainRemoval(snap, budget.CategoryPayroll); err != nil {
			return err
		}
		month = row.Month
		return tx.Delete(row).Error
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.BudgetDeleted, ResourcePayrollBudget, id, month)
	return nil
}
