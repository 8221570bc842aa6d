package services

import (
	"context"

	"gorm.io/gorm"

	apperrors "cafebudget/internal/errors"
	"cafebudget/internal/models"
	"cafebudget/internal/pagination"
)

// employeeService reads the employee roster.
type employeeService struct {
	db *gorm.DB
}

// NewEmployeeService creates a new EmployeeServicer.
func NewEmployeeService(db *gorm.DB) EmployeeServicer {
	return &employeeService{db: db}
}

// GetEmployees lists the roster by name.
func (s *employeeService) GetEmployees(ctx context.Context, page pagination.PageRequest, activeOnly bool) (*pagination.PageResponse[models.Employee], error) {
	query := s.db.WithContext(ctx).Model(&models.Employee{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	result, err := pagination.Find[models.Employee](query, page, "name")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// GetEmployeeBaseline returns the payroll floor: the summed base pay of
// active employees.
func (s *employeeService) GetEmployeeBaseline(ctx context.Context) (*EmployeeBaseline, error) {
	base, count, err := payrollBase(s.db.WithContext(ctx))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &EmployeeBaseline{BasePay: base, ActiveEmployees: count}, nil
}
