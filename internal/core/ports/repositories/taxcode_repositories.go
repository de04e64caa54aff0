package repositories

import (
	"context"
	"time"

	"github.com/keabooks/kea_books_app/internal/core/domain"
)

// TaxCodeReader defines read operations for tax code data
type TaxCodeReader interface {
	// FindTaxCodeByID retrieves a specific tax code within a company.
	FindTaxCodeByID(ctx context.Context, companyID string, taxCodeID string) (*domain.TaxCode, error)

	// FindTaxCodesByIDs retrieves multiple tax codes by their IDs, keyed by tax code ID.
	FindTaxCodesByIDs(ctx context.Context, companyID string, taxCodeIDs []string) (map[string]domain.TaxCode, error)

	// ListTaxCodes retrieves a paginated list of tax codes for a given company.
	ListTaxCodes(ctx context.Context, companyID string, limit int, offset int) ([]domain.TaxCode, error)
}

// TaxCodeWriter defines write operations for tax code data
type TaxCodeWriter interface {
	// SaveTaxCode persists a new tax code.
	SaveTaxCode(ctx context.Context, taxCode domain.TaxCode) error

	// UpdateTaxCode updates an existing tax code's details. Existing tax lines
	// keep their snapshots; only future postings see the change.
	UpdateTaxCode(ctx context.Context, taxCode domain.TaxCode) error

	// DeactivateTaxCode marks a tax code as inactive.
	DeactivateTaxCode(ctx context.Context, companyID string, taxCodeID string, actorID string, now time.Time) error
}

// TaxCodeRepositoryFacade combines all tax-code-related repository interfaces
type TaxCodeRepositoryFacade interface {
	TaxCodeReader
	TaxCodeWriter
}
