package services

import (
	"context"

	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/keabooks/kea_books_app/internal/dto"
)

// TaxCodeReaderSvc defines read operations for tax code data
type TaxCodeReaderSvc interface {
	// GetTaxCodeByID retrieves a specific tax code by its ID.
	GetTaxCodeByID(ctx context.Context, companyID string, taxCodeID string) (*domain.TaxCode, error)

	// ListTaxCodes retrieves a paginated list of tax codes in a company.
	ListTaxCodes(ctx context.Context, companyID string, limit int, offset int) ([]domain.TaxCode, error)
}

// TaxCodeWriterSvc defines write operations for tax code data
type TaxCodeWriterSvc interface {
	// CreateTaxCode persists a new tax code.
	CreateTaxCode(ctx context.Context, companyID string, req dto.CreateTaxCodeRequest, actorID string) (*domain.TaxCode, error)

	// UpdateTaxCode updates a tax code. Posted tax lines keep their snapshots.
	UpdateTaxCode(ctx context.Context, companyID string, taxCodeID string, req dto.UpdateTaxCodeRequest, actorID string) (*domain.TaxCode, error)

	// DeactivateTaxCode marks a tax code as inactive.
	DeactivateTaxCode(ctx context.Context, companyID string, taxCodeID string, actorID string) error
}

// TaxSvcFacade combines tax code management with the posting collaborator.
type TaxSvcFacade interface {
	TaxCodeReaderSvc
	TaxCodeWriterSvc
	TaxLineGeneratorSvc
}
