package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"cafebudget/internal/budget"
	apperrors "cafebudget/internal/errors"
	"cafebudget/internal/events"
	"cafebudget/internal/models"
	"cafebudget/internal/pagination"
)

// categoryBudgetService handles main-category rows and their sub-rows.
type categoryBudgetService struct {
	store
}

// NewCategoryBudgetService creates a new CategoryBudgetServicer.
func NewCategoryBudgetService(db *gorm.DB, engine *budget.Engine, publisher events.Publisher) CategoryBudgetServicer {
	return &categoryBudgetService{store: newStore(db, engine, publisher)}
}

// normalizeCategoryInput canonicalizes names and checks the row shape. Main
// rows must be COGS or Operating expense; the payroll main budget lives in
// its own table.
func normalizeCategoryInput(in CategoryBudgetInput) (CategoryBudgetInput, error) {
	in.Category = budget.NormalizeCategory(in.Category)
	in.Subcategory = budget.NormalizeSubcategory(in.Subcategory)

	if err := validateMonth(in.Month); err != nil {
		return in, err
	}
	if err := validateAmount(in.Amount, false); err != nil {
		return in, err
	}
	if !budget.IsMainCategory(in.Category) {
		// Free-text names belong in the subcategory under one of the main rows.
		return in, apperrors.WithDetails(apperrors.ErrInvalidInput,
			fmt.Sprintf("category %q must be one of COGS, Operating expense or Payroll; file it as a subcategory of one of them", in.Category),
			map[string]any{"category": in.Category, "main_categories": budget.MainCategories()})
	}
	if in.Subcategory == "" && in.Category == budget.CategoryPayroll {
		return in, apperrors.WithDetails(apperrors.ErrInvalidInput,
			"the Payroll main budget is managed as a payroll budget",
			map[string]any{"category": in.Category})
	}
	return in, nil
}

func allocationOf(in CategoryBudgetInput, id string) budget.Allocation {
	return budget.Allocation{ID: id, Category: in.Category, Subcategory: in.Subcategory, Amount: in.Amount}
}

// validateRow runs the checks for a main row or a sub-row. snap must not
// contain the row being written.
func (s *categoryBudgetService) validateRow(snap *budget.Snapshot, a budget.Allocation) error {
	if a.IsMain() {
		return s.engine.ValidateMainCategory(snap, a)
	}
	return s.engine.ValidateSubcategory(snap, a)
}

func categoryDuplicate(in CategoryBudgetInput) error {
	what := fmt.Sprintf("The %s budget", in.Category)
	extra := map[string]any{"category": in.Category}
	if in.Subcategory != "" {
		what = fmt.Sprintf("The %s / %s budget", in.Category, in.Subcategory)
		extra["subcategory"] = in.Subcategory
	}
	return duplicateError(what, in.Month, extra)
}

// CreateCategoryBudget creates a main row or a sub-row.
func (s *categoryBudgetService) CreateCategoryBudget(ctx context.Context, in CategoryBudgetInput) (*models.CategoryBudget, error) {
	in, err := normalizeCategoryInput(in)
	if err != nil {
		return nil, err
	}

	row := &models.CategoryBudget{
		Month:       in.Month,
		Category:    in.Category,
		Subcategory: in.Subcategory,
		Amount:      in.Amount,
		Description: in.Description,
	}
	err = s.transaction(ctx, func(tx *gorm.DB) error {
		snap, err := loadSnapshot(tx, in.Month)
		if err != nil {
			return err
		}
		if err := s.engine.RequireOverallBudget(snap); err != nil {
			return err
		}
		if _, exists := snap.Find(in.Category, in.Subcategory); exists {
			return categoryDuplicate(in)
		}
		if err := s.validateRow(snap, allocationOf(in, "")); err != nil {
			return err
		}
		return tx.Create(row).Error
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.BudgetCreated, ResourceCategoryBudget, row.ID, row.Month)
	return row, nil
}

// GetCategoryBudgets lists category rows, newest month first.
func (s *categoryBudgetService) GetCategoryBudgets(
	ctx context.Context,
	page pagination.PageRequest,
	filter BudgetFilter,
) (*pagination.PageResponse[models.CategoryBudget], error) {
	query := s.db.WithContext(ctx).Model(&models.CategoryBudget{})
	if filter.Month != "" {
		query = query.Where("month = ?", filter.Month)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", budget.NormalizeCategory(filter.Category))
	}
	result, err := pagination.Find[models.CategoryBudget](query, page, "month DESC, category, subcategory")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// GetCategoryBudgetByID returns a category row by ID.
func (s *categoryBudgetService) GetCategoryBudgetByID(ctx context.Context, id string) (*models.CategoryBudget, error) {
	row, err := findByID[models.CategoryBudget](s.db.WithContext(ctx), id, apperrors.ErrCategoryBudgetNotFound)
	if err != nil {
		return nil, translateError(err)
	}
	return row, nil
}

// UpdateCategoryBudget replaces a category row and re-validates the month it
// ends up in with the row itself excluded from the aggregates.
func (s *categoryBudgetService) UpdateCategoryBudget(ctx context.Context, id string, in CategoryBudgetInput) (*models.CategoryBudget, error) {
	in, err := normalizeCategoryInput(in)
	if err != nil {
		return nil, err
	}

	var row *models.CategoryBudget
	err = s.transaction(ctx, func(tx *gorm.DB) error {
		var err error
		row, err = findByID[models.CategoryBudget](tx, id, apperrors.ErrCategoryBudgetNotFound)
		if err != nil {
			return err
		}

		keyChanged := row.Month != in.Month || row.Category != in.Category || row.Subcategory != in.Subcategory
		if keyChanged && row.IsMain() {
			if row.Month != in.Month {
				if err := s.engine.CheckDeletable(row.Month); err != nil {
					return err
				}
			}
			old, err := loadSnapshot(tx, row.Month)
			if err != nil {
				return err
			}
			if err := s.engine.ValidateMainRemoval(old, row.Category); err != nil {
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
		if keyChanged {
			if _, exists := snap.Find(in.Category, in.Subcategory); exists {
				return categoryDuplicate(in)
			}
		}
		if err := s.validateRow(snap, allocationOf(in, row.ID)); err != nil {
			return err
		}

		row.Month = in.Month
		row.Category = in.Category
		row.Subcategory = in.Subcategory
		row.Amount = in.Amount
		row.Description = in.Description
		return tx.Save(row).Error
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.BudgetUpdated, ResourceCategoryBudget, row.ID, row.Month)
	return row, nil
}

// DeleteCategoryBudget removes a row. Main rows of the current month, and
// main rows that still have sub-rows, are kept.
func (s *categoryBudgetService) DeleteCategoryBudget(ctx context.Context, id string) error {
	var month string
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		row, err := findByID[models.CategoryBudget](tx, id, apperrors.ErrCategoryBudgetNotFound)
		if err != nil {
			return err
		}
		if row.IsMain() {
			if err := s.engine.CheckDeletable(row.Month); err != nil {
				return err
			}
			snap, err := loadSnapshot(tx, row.Month)
			if err != nil {
				return err
			}
			if err := s.engine.ValidateMainRemoval(snap, row.Category); err != nil {
				return err
			}
		}
		month = row.Month
		return tx.Delete(row).Error
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.BudgetDeleted, ResourceCategoryBudget, id, month)
	return nil
}
