package services

import (
	"context"

	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/keabooks/kea_books_app/internal/dto"
)

// DepartmentSvcFacade defines operations for department data
type DepartmentSvcFacade interface {
	// GetDepartmentByID retrieves a specific department by its ID.
	GetDepartmentByID(ctx context.Context, companyID string, departmentID string) (*domain.Department, error)

	// ListDepartments retrieves a paginated list of departments in a company.
	ListDepartments(ctx context.Context, companyID string, limit int, offset int) ([]domain.Department, error)

	// CreateDepartment persists a new department.
	CreateDepartment(ctx context.Context, companyID string, req dto.CreateDepartmentRequest, actorID string) (*domain.Department, error)

	// UpdateDepartment updates department details.
	UpdateDepartment(ctx context.Context, companyID string, departmentID string, req dto.UpdateDepartmentRequest, actorID string) (*domain.Department, error)

	// DeactivateDepartment marks a department as inactive.
	DeactivateDepartment(ctx context.Context, companyID string, departmentID string, actorID string) error
}
