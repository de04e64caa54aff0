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

// CompanyService manages companies, the isolation boundary everything else
// hangs off.
type CompanyService struct {
	companyRepo portsrepo.CompanyRepositoryFacade
}

var _ portssvc.CompanySvcFacade = (*CompanyService)(nil)

// NewCompanyService creates a new CompanyService.
func NewCompanyService(companyRepo portsrepo.CompanyRepositoryFacade) *CompanyService {
	return &CompanyService{companyRepo: companyRepo}
}

func (s *CompanyService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, actorID string) (*domain.Company, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	company := domain.Company{
		CompanyID:    uuid.NewString(),
		Name:         req.Name,
		CurrencyCode: req.CurrencyCode,
		IsActive:     true,
		AuditFields:  domain.NewAuditFields(actorID, now),
	}

	if err := s.companyRepo.SaveCompany(ctx, company); err != nil {
		logger.Error("Failed to save company", slog.String("error", err.Error()), slog.String("company_id", company.CompanyID))
		return nil, err
	}

	logger.Info("Company created", slog.String("company_id", company.CompanyID))
	return &company, nil
}

func (s *CompanyService) GetCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find company", slog.String("error", err.Error()), slog.String("company_id", companyID))
		}
		return nil, err
	}
	return company, nil
}

func (s *CompanyService) ListCompanies(ctx context.Context, limit int, offset int) ([]domain.Company, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	companies, err := s.companyRepo.ListCompanies(ctx, limit, offset)
	if err != nil {
		logger.Error("Failed to list companies", slog.String("error", err.Error()))
		return nil, err
	}
	return companies, nil
}

func (s *CompanyService) UpdateCompany(ctx context.Context, companyID string, req dto.UpdateCompanyRequest, actorID string) (*domain.Company, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.IsActive != nil {
		company.IsActive = *req.IsActive
	}
	company.Touch(actorID, time.Now().UTC())

	if err := s.companyRepo.UpdateCompany(ctx, *company); err != nil {
		logger.Error("Failed to update company", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, err
	}

	logger.Info("Company updated", slog.String("company_id", companyID))
	return company, nil
}

func (s *CompanyService) DeactivateCompany(ctx context.Context, companyID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companyRepo.DeactivateCompany(ctx, companyID, actorID, time.Now().UTC()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to deactivate company", slog.String("error", err.Error()), slog.String("company_id", companyID))
		}
		return err
	}

	logger.Info("Company deactivated", slog.String("company_id", companyID))
	return nil
}
