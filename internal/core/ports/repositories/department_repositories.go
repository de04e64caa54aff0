package repositories

import (
	"context"
	"time"

	"github.com/keabooks/kea_books_app/internal/core/domain"
)

// DepartmentReader defines read operations for department data
type DepartmentReader interface {
	// FindDepartmentByID retrieves a specific department within a company.
	FindDepartmentByID(ctx context.Context, companyID string, departmentID string) (*domain.Department, error)

	// ListDepartments retrieves a paginated list of departments for a given company.
	ListDepartments(ctx context.Context, companyID string, limit int, offset int) ([]domain.Department, error)
}

// DepartmentWriter defines write operations for department data
type DepartmentWriter interface {
	// SaveDepartment persists a new department.
	SaveDepartment(ctx context.Context, department domain.Department) error

	// UpdateDepartment updates an existing department's details.
	UpdateDepartment(ctx context.Context, department domain.Department) error

	// DeactivateDepartment marks a department as inactive.
	DeactivateDepartment(ctx context.Context, companyID string, departmentID string, actorID string, now time.Time) error
}

// DepartmentRepositoryFacade combines all department-related repository interfaces
type DepartmentRepositoryFacade interface {
	DepartmentReader
	DepartmentWriter
}
