package repositories

import (
	"context"
	"time"

	"github.com/keabooks/kea_books_app/internal/core/domain"
)

// RecurringReader defines read operations for recurring template data
type RecurringReader interface {
	// FindTemplateByID retrieves a template with its lines.
	FindTemplateByID(ctx context.Context, companyID string, templateID string) (*domain.RecurringTemplate, error)

	// ListTemplates retrieves a paginated list of templates for a given company.
	ListTemplates(ctx context.Context, companyID string, limit int, offset int) ([]domain.RecurringTemplate, error)

	// ListDueTemplates retrieves active templates with NextRunDate on or
	// before asOf, with lines, oldest due first.
	ListDueTemplates(ctx context.Context, companyID string, asOf time.Time) ([]domain.RecurringTemplate, error)
}

// RecurringWriter defines write operations for recurring template data
type RecurringWriter interface {
	// SaveTemplate persists a new template and its lines atomically.
	SaveTemplate(ctx context.Context, template domain.RecurringTemplate) error

	// UpdateTemplate replaces a template's fields and lines.
	UpdateTemplate(ctx context.Context, template domain.RecurringTemplate) error

	// DeactivateTemplate marks a template as inactive.
	DeactivateTemplate(ctx context.Context, companyID string, templateID string, actorID string, now time.Time) error

	// ClaimTemplateRun advances NextRunDate from fromDate to toDate with a
	// compare-and-swap on the current value. Returns false when another
	// runner already claimed this occurrence.
	ClaimTemplateRun(ctx context.Context, companyID string, templateID string, fromDate time.Time, toDate time.Time, actorID string, now time.Time) (bool, error)

	// RevertTemplateRun winds NextRunDate back from toDate to fromDate after
	// a failed materialization, with the same compare-and-swap guard.
	RevertTemplateRun(ctx context.Context, companyID string, templateID string, fromDate time.Time, toDate time.Time, actorID string, now time.Time) (bool, error)
}

// RecurringRepositoryFacade combines all recurring-template repository interfaces
type RecurringRepositoryFacade interface {
	RecurringReader
	RecurringWriter
}
