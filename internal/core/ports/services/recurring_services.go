package services

import (
	"context"

	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/keabooks/kea_books_app/internal/dto"
)

// RecurringSvcFacade manages recurring templates and their caller-driven
// materialization into posted transactions.
type RecurringSvcFacade interface {
	// GetTemplateByID retrieves a template with its lines.
	GetTemplateByID(ctx context.Context, companyID string, templateID string) (*domain.RecurringTemplate, error)

	// ListTemplates retrieves a paginated list of templates in a company.
	ListTemplates(ctx context.Context, companyID string, limit int, offset int) ([]domain.RecurringTemplate, error)

	// CreateTemplate persists a new template.
	CreateTemplate(ctx context.Context, companyID string, req dto.CreateTemplateRequest, actorID string) (*domain.RecurringTemplate, error)

	// UpdateTemplate replaces a template's fields and lines.
	UpdateTemplate(ctx context.Context, companyID string, templateID string, req dto.UpdateTemplateRequest, actorID string) (*domain.RecurringTemplate, error)

	// DeactivateTemplate marks a template as inactive.
	DeactivateTemplate(ctx context.Context, companyID string, templateID string, actorID string) error

	// RunDue materializes every template due as of the request date into a
	// posted transaction. One template's failure does not abort the others;
	// outcomes are reported per template.
	RunDue(ctx context.Context, companyID string, req dto.RunDueRequest, actorID string) ([]domain.TemplateRunResult, error)
}
