package dto

import (
	"time"

	"github.com/keabooks/kea_books_app/internal/core/domain"
)

// CreateDepartmentRequest defines the data needed to create a new department.
type CreateDepartmentRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// UpdateDepartmentRequest defines the updatable fields of a department.
type UpdateDepartmentRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=255"`
	IsActive *bool   `json:"isActive"`
}

// DepartmentResponse defines the department payload returned by the API.
type DepartmentResponse struct {
	DepartmentID  string    `json:"departmentID"`
	CompanyID     string    `json:"companyID"`
	Name          string    `json:"name"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ToDepartmentResponse converts a domain department to its response shape.
func ToDepartmentResponse(department domain.Department) DepartmentResponse {
	return DepartmentResponse{
		DepartmentID:  department.DepartmentID,
		CompanyID:     department.CompanyID,
		Name:          department.Name,
		IsActive:      department.IsActive,
		CreatedAt:     department.CreatedAt,
		LastUpdatedAt: department.LastUpdatedAt,
	}
}

// ToDepartmentResponses converts a slice of domain departments.
func ToDepartmentResponses(departments []domain.Department) []DepartmentResponse {
	responses := make([]DepartmentResponse, 0, len(departments))
	for _, department := range departments {
		responses = append(responses, ToDepartmentResponse(department))
	}
	return responses
}
