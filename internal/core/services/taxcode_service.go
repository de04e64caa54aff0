package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/keabooks/kea_books_app/internal/apperrors"
	"github.com/keabooks/kea_books_app/internal/core/domain"
	portsrepo "github.com/keabooks/kea_books_app/internal/core/ports/repositories"
	portssvc "github.com/keabooks/kea_books_app/internal/core/ports/services"
	"github.com/keabooks/kea_books_app/internal/dto"
	"github.com/keabooks/kea_books_app/internal/middleware"
	"github.com/keabooks/kea_books_app/internal/utils/accounting"
)

// ErrInvalidTaxRate indicates a tax rate outside the accepted range.
var ErrInvalidTaxRate = errors.New("tax rate must be between 0 and 1")

// TaxCodeService manages tax codes and derives tax line snapshots for the
// posting engine.
type TaxCodeService struct {
	taxCodeRepo portsrepo.TaxCodeRepositoryFacade
}

var _ portssvc.TaxSvcFacade = (*TaxCodeService)(nil)

// NewTaxCodeService creates a new TaxCodeService.
func NewTaxCodeService(taxCodeRepo portsrepo.TaxCodeRepositoryFacade) *TaxCodeService {
	return &TaxCodeService{taxCodeRepo: taxCodeRepo}
}

func (s *TaxCodeService) CreateTaxCode(ctx context.Context, companyID string, req dto.CreateTaxCodeRequest, actorID string) (*domain.TaxCode, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Rate.IsNegative() || req.Rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTaxRate, req.Rate)
	}

	// Inclusive defaults to true: small-business amounts are usually quoted
	// tax-inclusive.
	inclusive := true
	if req.Inclusive != nil {
		inclusive = *req.Inclusive
	}

	now := time.Now().UTC()
	taxCode := domain.TaxCode{
		TaxCodeID:    uuid.NewString(),
		CompanyID:    companyID,
		Code:         req.Code,
		Name:         req.Name,
		Rate:         req.Rate,
		ReportingBox: req.ReportingBox,
		Jurisdiction: req.Jurisdiction,
		Inclusive:    inclusive,
		IsActive:     true,
		AuditFields:  domain.NewAuditFields(actorID, now),
	}

	if err := s.taxCodeRepo.SaveTaxCode(ctx, taxCode); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Tax code already in use", slog.String("code", req.Code), slog.String("company_id", companyID))
			return nil, err
		}
		logger.Error("Failed to save tax code", slog.String("error", err.Error()), slog.String("tax_code_id", taxCode.TaxCodeID))
		return nil, err
	}

	logger.Info("Tax code created", slog.String("tax_code_id", taxCode.TaxCodeID), slog.String("code", taxCode.Code))
	return &taxCode, nil
}

func (s *TaxCodeService) GetTaxCodeByID(ctx context.Context, companyID string, taxCodeID string) (*domain.TaxCode, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	taxCode, err := s.taxCodeRepo.FindTaxCodeByID(ctx, companyID, taxCodeID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find tax code", slog.String("error", err.Error()), slog.String("tax_code_id", taxCodeID))
		}
		return nil, err
	}
	return taxCode, nil
}

func (s *TaxCodeService) ListTaxCodes(ctx context.Context, companyID string, limit int, offset int) ([]domain.TaxCode, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	taxCodes, err := s.taxCodeRepo.ListTaxCodes(ctx, companyID, limit, offset)
	if err != nil {
		logger.Error("Failed to list tax codes", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, err
	}
	return taxCodes, nil
}

// UpdateTaxCode updates a tax code's reporting fields. The rate is immutable:
// rate changes are modeled as a new code so posted snapshots stay explicable.
func (s *TaxCodeService) UpdateTaxCode(ctx context.Context, companyID string, taxCodeID string, req dto.UpdateTaxCodeRequest, actorID string) (*domain.TaxCode, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	taxCode, err := s.taxCodeRepo.FindTaxCodeByID(ctx, companyID, taxCodeID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		taxCode.Name = *req.Name
	}
	if req.ReportingBox != nil {
		taxCode.ReportingBox = *req.ReportingBox
	}
	if req.Jurisdiction != nil {
		taxCode.Jurisdiction = *req.Jurisdiction
	}
	if req.IsActive != nil {
		taxCode.IsActive = *req.IsActive
	}
	taxCode.Touch(actorID, time.Now().UTC())

	if err := s.taxCodeRepo.UpdateTaxCode(ctx, *taxCode); err != nil {
		logger.Error("Failed to update tax code", slog.String("error", err.Error()), slog.String("tax_code_id", taxCodeID))
		return nil, err
	}

	logger.Info("Tax code updated", slog.String("tax_code_id", taxCodeID))
	return taxCode, nil
}

func (s *TaxCodeService) DeactivateTaxCode(ctx context.Context, companyID string, taxCodeID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.taxCodeRepo.DeactivateTaxCode(ctx, companyID, taxCodeID, actorID, time.Now().UTC()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to deactivate tax code", slog.String("error", err.Error()), slog.String("tax_code_id", taxCodeID))
		}
		return err
	}

	logger.Info("Tax code deactivated", slog.String("tax_code_id", taxCodeID))
	return nil
}

// BuildTaxLines derives tax lines for the entries that carry a tax code,
// snapshotting each code's rate and reporting fields. Inclusive codes split
// the entry amount into taxable + tax; exclusive codes compute tax on top of
// it. Nothing is written here; the posting unit of work persists the result.
func (s *TaxCodeService) BuildTaxLines(ctx context.Context, companyID string, entries []domain.LedgerEntry) ([]domain.TaxLine, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	taxCodeIDs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.TaxCodeID != nil {
			taxCodeIDs = append(taxCodeIDs, *entry.TaxCodeID)
		}
	}
	taxCodeIDs = uniqueStrings(taxCodeIDs)
	if len(taxCodeIDs) == 0 {
		return nil, nil
	}

	taxCodes, err := s.taxCodeRepo.FindTaxCodesByIDs(ctx, companyID, taxCodeIDs)
	if err != nil {
		logger.Error("Failed to find tax codes for posting", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, err
	}

	taxLines := make([]domain.TaxLine, 0, len(entries))
	for _, entry := range entries {
		if entry.TaxCodeID == nil {
			continue
		}
		taxCode, found := taxCodes[*entry.TaxCodeID]
		if !found {
			return nil, fmt.Errorf("tax code %s: %w", *entry.TaxCodeID, apperrors.ErrNotFound)
		}

		amount := entry.Amount()
		var taxable, tax decimal.Decimal
		if taxCode.Inclusive {
			taxable, tax = accounting.TaxFromGross(amount, taxCode.Rate)
		} else {
			taxable, tax = accounting.TaxFromNet(amount, taxCode.Rate)
		}

		taxLines = append(taxLines, domain.TaxLine{
			TaxLineID:     uuid.NewString(),
			CompanyID:     companyID,
			EntryID:       entry.EntryID,
			TaxCodeID:     taxCode.TaxCodeID,
			RateSnapshot:  taxCode.Rate,
			TaxableAmount: taxable,
			TaxAmount:     tax,
			ReportingBox:  taxCode.ReportingBox,
			Jurisdiction:  taxCode.Jurisdiction,
			CreatedAt:     entry.CreatedAt,
		})
	}

	return taxLines, nil
}
