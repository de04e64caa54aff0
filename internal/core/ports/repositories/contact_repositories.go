package repositories

import (
	"context"
	"time"

	"github.com/keabooks/kea_books_app/internal/core/domain"
)

// ContactReader defines read operations for contact data
type ContactReader interface {
	// FindContactByID retrieves a specific contact within a company.
	FindContactByID(ctx context.Context, companyID string, contactID string) (*domain.Contact, error)

	// ListContacts retrieves a paginated list of contacts for a given company.
	ListContacts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Contact, error)
}

// ContactWriter defines write operations for contact data
type ContactWriter interface {
	// SaveContact persists a new contact.
	SaveContact(ctx context.Context, contact domain.Contact) error

	// UpdateContact updates an existing contact's details.
	UpdateContact(ctx context.Context, contact domain.Contact) error

	// DeactivateContact marks a contact as inactive.
	DeactivateContact(ctx context.Context, companyID string, contactID string, actorID string, now time.Time) error
}

// ContactRepositoryFacade combines all contact-related repository interfaces
type ContactRepositoryFacade interface {
	ContactReader
	ContactWriter
}
