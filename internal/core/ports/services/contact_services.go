package services

import (
	"context"

	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/keabooks/kea_books_app/internal/dto"
)

// ContactSvcFacade defines operations for contact data
type ContactSvcFacade interface {
	// GetContactByID retrieves a specific contact by its ID.
	GetContactByID(ctx context.Context, companyID string, contactID string) (*domain.Contact, error)

	// ListContacts retrieves a paginated list of contacts in a company.
	ListContacts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Contact, error)

	// CreateContact persists a new contact.
	CreateContact(ctx context.Context, companyID string, req dto.CreateContactRequest, actorID string) (*domain.Contact, error)

	// UpdateContact updates contact details.
	UpdateContact(ctx context.Context, companyID string, contactID string, req dto.UpdateContactRequest, actorID string) (*domain.Contact, error)

	// DeactivateContact marks a contact as inactive.
	DeactivateContact(ctx context.Context, companyID string, contactID string, actorID string) error
}
