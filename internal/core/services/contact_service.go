package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/keabooks/kea_books_app/internal/apperrors"
	"github.com/keabooks/kea_books_app/internal/core/domain"
	portsrepo "github.com/keabooks/kea_books_app/internal/core/ports/repositories"
	portssvc "github.com/keabooks/kea_books_app/internal/core/ports/services"
	"github.com/keabooks/kea_books_app/internal/dto"
	"github.com/keabooks/kea_books_app/internal/middleware"
)

// ContactService manages customers and suppliers.
type ContactService struct {
	contactRepo portsrepo.ContactRepositoryFacade
}

var _ portssvc.ContactSvcFacade = (*ContactService)(nil)

// NewContactService creates a new ContactService.
func NewContactService(contactRepo portsrepo.ContactRepositoryFacade) *ContactService {
	return &ContactService{contactRepo: contactRepo}
}

func (s *ContactService) CreateContact(ctx context.Context, companyID string, req dto.CreateContactRequest, actorID string) (*domain.Contact, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	contact := domain.Contact{
		ContactID:   uuid.NewString(),
		CompanyID:   companyID,
		Name:        req.Name,
		ContactType: domain.ContactType(req.ContactType),
		Email:       req.Email,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(actorID, now),
	}

	if err := s.contactRepo.SaveContact(ctx, contact); err != nil {
		logger.Error("Failed to save contact", slog.String("error", err.Error()), slog.String("contact_id", contact.ContactID))
		return nil, err
	}

	logger.Info("Contact created", slog.String("contact_id", contact.ContactID))
	return &contact, nil
}

func (s *ContactService) GetContactByID(ctx context.Context, companyID string, contactID string) (*domain.Contact, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	contact, err := s.contactRepo.FindContactByID(ctx, companyID, contactID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find contact", slog.String("error", err.Error()), slog.String("contact_id", contactID))
		}
		return nil, err
	}
	return contact, nil
}

func (s *ContactService) ListContacts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Contact, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	contacts, err := s.contactRepo.ListContacts(ctx, companyID, limit, offset)
	if err != nil {
		logger.Error("Failed to list contacts", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, err
	}
	return contacts, nil
}

func (s *ContactService) UpdateContact(ctx context.Context, companyID string, contactID string, req dto.UpdateContactRequest, actorID string) (*domain.Contact, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	contact, err := s.contactRepo.FindContactByID(ctx, companyID, contactID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		contact.Name = *req.Name
	}
	if req.ContactType != nil {
		contact.ContactType = domain.ContactType(*req.ContactType)
	}
	if req.Email != nil {
		contact.Email = *req.Email
	}
	if req.IsActive != nil {
		contact.IsActive = *req.IsActive
	}
	contact.Touch(actorID, time.Now().UTC())

	if err := s.contactRepo.UpdateContact(ctx, *contact); err != nil {
		logger.Error("Failed to update contact", slog.String("error", err.Error()), slog.String("contact_id", contactID))
		return nil, err
	}

	logger.Info("Contact updated", slog.String("contact_id", contactID))
	return contact, nil
}

func (s *ContactService) DeactivateContact(ctx context.Context, companyID string, contactID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.contactRepo.DeactivateContact(ctx, companyID, contactID, actorID, time.Now().UTC()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to deactivate contact", slog.String("error", err.Error()), slog.String("contact_id", contactID))
		}
		return err
	}

	logger.Info("Contact deactivated", slog.String("contact_id", contactID))
	return nil
}
