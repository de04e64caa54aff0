package services

import (
	"context"

	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/keabooks/kea_books_app/internal/dto"
)

// CompanyReaderSvc defines read operations for company data
type CompanyReaderSvc interface {
	// GetCompanyByID retrieves a specific company by its ID.
	GetCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// ListCompanies retrieves a paginated list of companies.
	ListCompanies(ctx context.Context, limit int, offset int) ([]domain.Company, error)
}

// CompanyWriterSvc defines write operations for company data
type CompanyWriterSvc interface {
	// CreateCompany persists a new company.
	CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, actorID string) (*domain.Company, error)

	// UpdateCompany updates company details.
	UpdateCompany(ctx context.Context, companyID string, req dto.UpdateCompanyRequest, actorID string) (*domain.Company, error)

	// DeactivateCompany marks a company as inactive.
	DeactivateCompany(ctx context.Context, companyID string, actorID string) error
}

// CompanySvcFacade combines all company-related service interfaces
type CompanySvcFacade interface {
	CompanyReaderSvc
	CompanyWriterSvc
}
