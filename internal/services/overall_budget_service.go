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

// overallBudgetService handles the monthly spending ceilings.
type overallBudgetService struct {
	store
}

// NewOverallBudgetService creates a new OverallBudgetServicer.
func NewOverallBudgetService(db *gorm.DB, engine *budget.Engine, publisher events.Publisher) OverallBudgetServicer {
	return &overallBudgetService{store: newStore(db, engine, publisher)}
}

// CreateOverallBudget creates the ceiling for a month inside the creation window.
func (s *overallBudgetService) CreateOverallBudget(ctx context.Context, in MonthlyBudgetInput) (*models.OverallBudget, error) {
	if err := validateMonthlyInput(in, true); err != nil {
		return nil, err
	}
	if err := s.engine.CheckCreationWindow(in.Month); err != nil {
		return nil, err
	}

	row := &models.OverallBudget{Month: in.Month, Amount: in.Amount, Description: in.Description}
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		snap, err := loadSnapshot(tx, in.Month)
		if err != nil {
			return err
		}
		if snap.Overall != nil {
			return duplicateError("An overall budget", in.Month, nil)
		}
		if err := s.engine.ValidateOverall(snap, in.Amount); err != nil {
			return err
		}
		return tx.Create(row).Error
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.BudgetCreated, ResourceOverallBudget, row.ID, row.Month)
	return row, nil
}

// GetOverallBudgets lists overall budgets, newest month first.
func (s *overallBudgetService) GetOverallBudgets(
	ctx context.Context,
	page pagination.PageRequest,
	filter BudgetFilter,
) (*pagination.PageResponse[models.OverallBudget], error) {
	query := s.db.WithContext(ctx).Model(&models.OverallBudget{})
	if filter.Month != "" {
		query = query.Where("month = ?", filter.Month)
	}
	result, err := pagination.Find[models.OverallBudget](query, page, "month DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// GetOverallBudgetByID returns an overall budget by ID.
func (s *overallBudgetService) GetOverallBudgetByID(ctx context.Context, id string) (*models.OverallBudget, error) {
	row, err := findByID[models.OverallBudget](s.db.WithContext(ctx), id, apperrors.ErrOverallBudgetNotFound)
	if err != nil {
		return nil, translateError(err)
	}
	return row, nil
}

// UpdateOverallBudget replaces an overall budget. Moving it to another month
// is validated like a create in that month.
func (s *overallBudgetService) UpdateOverallBudget(ctx context.Context, id string, in MonthlyBudgetInput) (*models.OverallBudget, error) {
	if err := validateMonthlyInput(in, true); err != nil {
		return nil, err
	}

	var row *models.OverallBudget
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var err error
		row, err = findByID[models.OverallBudget](tx, id, apperrors.ErrOverallBudgetNotFound)
		if err != nil {
			return err
		}

		snap, err := loadSnapshot(tx, in.Month)
		if err != nil {
			return err
		}
		if in.Month != row.Month {
			if err := s.engine.CheckDeletable(row.Month); err != nil {
				return err
			}
			if err := s.engine.CheckCreationWindow(in.Month); err != nil {
				return err
			}
			if snap.Overall != nil {
				return duplicateError("An overall budget", in.Month, nil)
			}
		}
		if err := s.engine.ValidateOverall(snap, in.Amount); err != nil {
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

	s.publish(ctx, events.BudgetUpdated, ResourceOverallBudget, row.ID, row.Month)
	return row, nil
}

// DeleteOverallBudget removes an overall budget unless it anchors the current month.
func (s *overallBudgetService) DeleteOverallBudget(ctx context.Context, id string) error {
	var month string
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		row, err := findByID[models.OverallBudget](tx, id, apperrors.ErrOverallBudgetNotFound)
		if err != nil {
			return err
		}
		if err := s.engine.CheckDeletable(row.Month); err != nil {
			return err
		}
		month = row.Month
		return tx.Delete(row).Error
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.BudgetDeleted, ResourceOverallBudget, id, month)
	return nil
}
