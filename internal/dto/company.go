package dto

import (
	"time"

	"github.com/keabooks/kea_books_app/internal/core/domain"
)

// CreateCompanyRequest defines the data needed to create a new company.
type CreateCompanyRequest struct {
	Name         string `json:"name" binding:"required,max=255"`
	CurrencyCode string `json:"currencyCode" binding:"required,len=3"`
}

// UpdateCompanyRequest defines the updatable fields of a company.
type UpdateCompanyRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=255"`
	IsActive *bool   `json:"isActive"`
}

// CompanyResponse defines the company payload returned by the API.
type CompanyResponse struct {
	CompanyID     string    `json:"companyID"`
	Name          string    `json:"name"`
	CurrencyCode  string    `json:"currencyCode"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ToCompanyResponse converts a domain company to its response shape.
func ToCompanyResponse(company domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID:     company.CompanyID,
		Name:          company.Name,
		CurrencyCode:  company.CurrencyCode,
		IsActive:      company.IsActive,
		CreatedAt:     company.CreatedAt,
		LastUpdatedAt: company.LastUpdatedAt,
	}
}

// ToCompanyResponses converts a slice of domain companies.
func ToCompanyResponses(companies []domain.Company) []CompanyResponse {
	responses := make([]CompanyResponse, 0, len(companies))
	for _, company := range companies {
		responses = append(responses, ToCompanyResponse(company))
	}
	return responses
}
