package dto

import (
	"time"

	"github.com/keabooks/kea_books_app/internal/core/domain"
)

// CreateContactRequest defines the data needed to create a new contact.
type CreateContactRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	ContactType string `json:"contactType" binding:"required,oneof=CUSTOMER SUPPLIER BOTH"`
	Email       string `json:"email" binding:"omitempty,email,max=255"`
}

// UpdateContactRequest defines the updatable fields of a contact.
type UpdateContactRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	ContactType *string `json:"contactType" binding:"omitempty,oneof=CUSTOMER SUPPLIER BOTH"`
	Email       *string `json:"email" binding:"omitempty,email,max=255"`
	IsActive    *bool   `json:"isActive"`
}

// ContactResponse defines the contact payload returned by the API.
type ContactResponse struct {
	ContactID     string    `json:"contactID"`
	CompanyID     string    `json:"companyID"`
	Name          string    `json:"name"`
	ContactType   string    `json:"contactType"`
	Email         string    `json:"email,omitempty"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ToContactResponse converts a domain contact to its response shape.
func ToContactResponse(contact domain.Contact) ContactResponse {
	return ContactResponse{
		ContactID:     contact.ContactID,
		CompanyID:     contact.CompanyID,
		Name:          contact.Name,
		ContactType:   string(contact.ContactType),
		Email:         contact.Email,
		IsActive:      contact.IsActive,
		CreatedAt:     contact.CreatedAt,
		LastUpdatedAt: contact.LastUpdatedAt,
	}
}

// ToContactResponses converts a slice of domain contacts.
func ToContactResponses(contacts []domain.Contact) []ContactResponse {
	responses := make([]ContactResponse, 0, len(contacts))
	for _, contact := range contacts {
		responses = append(responses, ToContactResponse(contact))
	}
	return responses
}
