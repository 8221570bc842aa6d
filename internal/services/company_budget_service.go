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

// companyBudgetService handles company budgets. They carry no cross-entity
// rules; only the one-per-month key is enforced.
type companyBudgetService struct {
	store
}

// NewCompanyBudgetService creates a new CompanyBudgetServicer.
func NewCompanyBudgetService(db *gorm.DB, engine *budget.Engine, publisher events.Publisher) CompanyBudgetServicer {
	return &companyBudgetService{store: newStore(db, engine, publisher)}
}

func companyBudgetExists(tx *gorm.DB, month, excludeID string) (bool, error) {
	query := tx.Model(&models.CompanyBudget{}).Where("month = ?", month)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateCompanyBudget creates the company budget of a month.
func (s *companyBudgetService) CreateCompanyBudget(ctx context.Context, in MonthlyBudgetInput) (*models.CompanyBudget, error) {
	if err := validateMonthlyInput(in, false); err != nil {
		return nil, err
	}

	row := &models.CompanyBudget{Month: in.Month, Amount: in.Amount, Description: in.Description}
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		exists, err := companyBudgetExists(tx, in.Month, "")
		if err != nil {
			return err
		}
		if exists {
			return duplicateError("A company budget", in.Month, nil)
		}
		return tx.Create(row).Error
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.BudgetCreated, ResourceCompanyBudget, row.ID, row.Month)
	return row, nil
}

// GetCompanyBudgets lists company budgets, newest month first.
func (s *companyBudgetService) GetCompanyBudgets(
	ctx context.Context,
	page pagination.PageRequest,
	filter BudgetFilter,
) (*pagination.PageResponse[models.CompanyBudget], error) {
	query := s.db.WithContext(ctx).Model(&models.CompanyBudget{})
	if filter.Month != "" {
		query = query.Where("month = ?", filter.Month)
	}
	result, err := pagination.Find[models.CompanyBudget](query, page, "month DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// GetCompanyBudgetByID returns a company budget by ID.
func (s *companyBudgetService) GetCompanyBudgetByID(ctx context.Context, id string) (*models.CompanyBudget, error) {
	row, err := findByID[models.CompanyBudget](s.db.WithContext(ctx), id, apperrors.ErrCompanyBudgetNotFound)
	if err != nil {
		return nil, translateError(err)
	}
	return row, nil
}

// UpdateCompanyBudget replaces a company budget.
func (s *companyBudgetService) UpdateCompanyBudget(ctx context.Context, id string, in MonthlyBudgetInput) (*models.CompanyBudget, error) {
	if err := validateMonthlyInput(in, false); err != nil {
		return nil, err
	}

	var row *models.CompanyBudget
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var err error
		row, err = findByID[models.CompanyBudget](tx, id, apperrors.ErrCompanyBudgetNotFound)
		if err != nil {
			return err
		}
		if row.Month != in.Month {
			exists, err := companyBudgetExists(tx, in.Month, row.ID)
			if err != nil {
				return err
			}
			if exists {
				return duplicateError("A company budget", in.Month, nil)
			}
		}
		row.Month = in.Month
		row.Amount = in.Amount
		row.Description = in.Description
		return tx.Save(row).Error
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.BudgetUpdated, ResourceCompanyBudget, row.ID, row.Month)
	return row, nil
}

// DeleteCompanyBudget removes a company budget.
func (s *companyBudgetService) DeleteCompanyBudget(ctx context.Context, id string) error {
	var month string
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		row, err := findByID[models.CompanyBudget](tx, id, apperrors.ErrCompanyBudgetNotFound)
		if err != nil {
			return err
		}
		month = row.Month
		return tx.Delete(row).Error
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.BudgetDeleted, ResourceCompanyBudget, id, month)
	return nil
}
