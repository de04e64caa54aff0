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

// RecurringService manages recurring templates and materializes the due ones
// into posted transactions. Each occurrence is claimed by advancing
// NextRunDate with a compare-and-swap, so two concurrent run-due calls cannot
// both post the same occurrence.
type RecurringService struct {
	recurringRepo   portsrepo.RecurringRepositoryFacade
	transactionRepo portsrepo.TransactionRepositoryFacade
	postingSvc      portssvc.PostingSvcFacade
	auditRepo       portsrepo.AuditRepositoryFacade
}

var _ portssvc.RecurringSvcFacade = (*RecurringService)(nil)

// NewRecurringService creates a new RecurringService.
func NewRecurringService(
	recurringRepo portsrepo.RecurringRepositoryFacade,
	transactionRepo portsrepo.TransactionRepositoryFacade,
	postingSvc portssvc.PostingSvcFacade,
	auditRepo portsrepo.AuditRepositoryFacade,
) *RecurringService {
	return &RecurringService{
		recurringRepo:   recurringRepo,
		transactionRepo: transactionRepo,
		postingSvc:      postingSvc,
		auditRepo:       auditRepo,
	}
}

func (s *RecurringService) GetTemplateByID(ctx context.Context, companyID string, templateID string) (*domain.RecurringTemplate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	template, err := s.recurringRepo.FindTemplateByID(ctx, companyID, templateID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find template", slog.String("error", err.Error()), slog.String("template_id", templateID))
		}
		return nil, err
	}
	return template, nil
}

func (s *RecurringService) ListTemplates(ctx context.Context, companyID string, limit int, offset int) ([]domain.RecurringTemplate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	templates, err := s.recurringRepo.ListTemplates(ctx, companyID, limit, offset)
	if err != nil {
		logger.Error("Failed to list templates", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, err
	}
	return templates, nil
}

// CreateTemplate persists a new template. Lines must balance up front; the
// generated transactions post immediately, so an unbalanced template would
// fail on every run.
func (s *RecurringService) CreateTemplate(ctx context.Context, companyID string, req dto.CreateTemplateRequest, actorID string) (*domain.RecurringTemplate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateTemplateLines(req.Lines); err != nil {
		return nil, err
	}
	nextRunDate, err := parseDateOnly(req.NextRunDate)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid next run date: %s", req.NextRunDate))
	}

	now := time.Now().UTC()
	template := domain.RecurringTemplate{
		TemplateID:      uuid.NewString(),
		CompanyID:       companyID,
		Name:            req.Name,
		TransactionType: domain.TransactionType(req.TransactionType),
		Description:     req.Description,
		Frequency:       domain.Frequency(req.Frequency),
		NextRunDate:     nextRunDate,
		IsActive:        true,
		AuditFields:     domain.NewAuditFields(actorID, now),
	}
	template.Lines = buildTemplateLines(template.TemplateID, req.Lines)

	if err := s.recurringRepo.SaveTemplate(ctx, template); err != nil {
		logger.Error("Failed to save template", slog.String("error", err.Error()), slog.String("template_id", template.TemplateID))
		return nil, err
	}

	logger.Info("Template created", slog.String("template_id", template.TemplateID), slog.String("name", template.Name))
	return &template, nil
}

func (s *RecurringService) UpdateTemplate(ctx context.Context, companyID string, templateID string, req dto.UpdateTemplateRequest, actorID string) (*domain.RecurringTemplate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	template, err := s.recurringRepo.FindTemplateByID(ctx, companyID, templateID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		template.Name = *req.Name
	}
	if req.Description != nil {
		template.Description = *req.Description
	}
	if req.Frequency != nil {
		template.Frequency = domain.Frequency(*req.Frequency)
	}
	if req.NextRunDate != nil {
		nextRunDate, err := parseDateOnly(*req.NextRunDate)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid next run date: %s", *req.NextRunDate))
		}
		template.NextRunDate = nextRunDate
	}
	if req.IsActive != nil {
		template.IsActive = *req.IsActive
	}
	if req.Lines != nil {
		if err := validateTemplateLines(*req.Lines); err != nil {
			return nil, err
		}
		template.Lines = buildTemplateLines(template.TemplateID, *req.Lines)
	}
	template.Touch(actorID, time.Now().UTC())

	if err := s.recurringRepo.UpdateTemplate(ctx, *template); err != nil {
		logger.Error("Failed to update template", slog.String("error", err.Error()), slog.String("template_id", templateID))
		return nil, err
	}

	logger.Info("Template updated", slog.String("template_id", templateID))
	return template, nil
}

func (s *RecurringService) DeactivateTemplate(ctx context.Context, companyID string, templateID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.recurringRepo.DeactivateTemplate(ctx, companyID, templateID, actorID, time.Now().UTC()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to deactivate template", slog.String("error", err.Error()), slog.String("template_id", templateID))
		}
		return err
	}

	logger.Info("Template deactivated", slog.String("template_id", templateID))
	return nil
}

// RunDue materializes every active template with NextRunDate on or before the
// request date. One template's failure is reported in its result and does not
// abort the others.
func (s *RecurringService) RunDue(ctx context.Context, companyID string, req dto.RunDueRequest, actorID string) ([]domain.TemplateRunResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var asOf time.Time
	if req.AsOf != nil {
		parsed, err := parseDateOnly(*req.AsOf)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid as-of date: %s", *req.AsOf))
		}
		asOf = parsed
	} else {
		now := time.Now().UTC()
		asOf = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	templates, err := s.recurringRepo.ListDueTemplates(ctx, companyID, asOf)
	if err != nil {
		logger.Error("Failed to list due templates", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, err
	}

	results := make([]domain.TemplateRunResult, 0, len(templates))
	for _, template := range templates {
		result := s.runTemplate(ctx, companyID, template, actorID)
		if result == nil {
			continue
		}
		results = append(results, *result)
	}

	logger.Info("Run-due completed",
		slog.String("company_id", companyID),
		slog.String("as_of", asOf.Format("2006-01-02")),
		slog.Int("results", len(results)),
	)
	return results, nil
}

// runTemplate materializes one occurrence. A nil result means another runner
// claimed the occurrence first. The claim advances NextRunDate before any
// write and is wound back if the draft cannot be created or posted, so a
// failed occurrence stays due.
func (s *RecurringService) runTemplate(ctx context.Context, companyID string, template domain.RecurringTemplate, actorID string) *domain.TemplateRunResult {
	logger := middleware.GetLoggerFromCtx(ctx)

	fromDate := template.NextRunDate
	toDate := template.Frequency.NextAfter(fromDate)
	now := time.Now().UTC()

	claimed, err := s.recurringRepo.ClaimTemplateRun(ctx, companyID, template.TemplateID, fromDate, toDate, actorID, now)
	if err != nil {
		logger.Error("Failed to claim template run", slog.String("error", err.Error()), slog.String("template_id", template.TemplateID))
		return &domain.TemplateRunResult{TemplateID: template.TemplateID, Error: err.Error()}
	}
	if !claimed {
		logger.Info("Template occurrence already claimed", slog.String("template_id", template.TemplateID))
		return nil
	}

	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		CompanyID:       companyID,
		TransactionType: template.TransactionType,
		TransactionDate: fromDate,
		Description:     template.Description,
		Status:          domain.StatusDraft,
		AuditFields:     domain.NewAuditFields(actorID, now),
	}
	for _, line := range template.Lines {
		txn.Lines = append(txn.Lines, domain.TransactionLine{
			LineID:        uuid.NewString(),
			TransactionID: txn.TransactionID,
			AccountID:     line.AccountID,
			Amount:        line.Amount,
			Direction:     line.Direction,
			TaxCodeID:     line.TaxCodeID,
			DepartmentID:  line.DepartmentID,
		})
	}

	if err := s.transactionRepo.SaveTransaction(ctx, txn); err != nil {
		logger.Error("Failed to save generated transaction", slog.String("error", err.Error()), slog.String("template_id", template.TemplateID))
		s.revertClaim(ctx, companyID, template.TemplateID, fromDate, toDate, actorID)
		return &domain.TemplateRunResult{TemplateID: template.TemplateID, Error: err.Error()}
	}

	posted, err := s.postingSvc.PostTransaction(ctx, companyID, txn.TransactionID, actorID)
	if err != nil {
		logger.Warn("Generated transaction failed to post",
			slog.String("error", err.Error()),
			slog.String("template_id", template.TemplateID),
			slog.String("transaction_id", txn.TransactionID),
		)
		if delErr := s.transactionRepo.DeleteDraftTransaction(ctx, companyID, txn.TransactionID); delErr != nil {
			logger.Warn("Failed to delete generated draft", slog.String("error", delErr.Error()), slog.String("transaction_id", txn.TransactionID))
		}
		s.revertClaim(ctx, companyID, template.TemplateID, fromDate, toDate, actorID)
		return &domain.TemplateRunResult{TemplateID: template.TemplateID, Error: err.Error()}
	}

	audit := domain.AuditEvent{
		EventID:    uuid.NewString(),
		CompanyID:  companyID,
		ActorID:    actorID,
		EventType:  domain.AuditTemplateRun,
		EntityType: "RECURRING_TEMPLATE",
		EntityID:   template.TemplateID,
		Summary:    fmt.Sprintf("Template %q ran for %s producing transaction %s", template.Name, fromDate.Format("2006-01-02"), posted.TransactionID),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.auditRepo.SaveEvent(ctx, audit); err != nil {
		logger.Warn("Failed to save template run audit event", slog.String("error", err.Error()), slog.String("template_id", template.TemplateID))
	}

	logger.Info("Template materialized",
		slog.String("template_id", template.TemplateID),
		slog.String("transaction_id", posted.TransactionID),
		slog.String("run_date", fromDate.Format("2006-01-02")),
	)
	return &domain.TemplateRunResult{TemplateID: template.TemplateID, TransactionID: posted.TransactionID}
}

// revertClaim winds NextRunDate back after a failed materialization so the
// occurrence stays due. Best effort: a lost revert leaves the occurrence
// skipped, which the warning surfaces.
func (s *RecurringService) revertClaim(ctx context.Context, companyID string, templateID string, fromDate time.Time, toDate time.Time, actorID string) {
	logger := middleware.GetLoggerFromCtx(ctx)
	reverted, err := s.recurringRepo.RevertTemplateRun(ctx, companyID, templateID, fromDate, toDate, actorID, time.Now().UTC())
	if err != nil {
		logger.Warn("Failed to revert template claim", slog.String("error", err.Error()), slog.String("template_id", templateID))
		return
	}
	if !reverted {
		logger.Warn("Template claim no longer revertible", slog.String("template_id", templateID))
	}
}

// validateTemplateLines enforces the stored shape: strictly positive 2dp
// amounts and balanced directions.
func validateTemplateLines(lines []dto.TemplateLineRequest) error {
	debits, credits := decimal.Zero, decimal.Zero
	for i, line := range lines {
		if !line.Amount.IsPositive() || !accounting.HasValidScale(line.Amount) {
			return fmt.Errorf("%w: line %d amount %s", ErrInvalidAmount, i, line.Amount)
		}
		switch domain.Direction(line.Direction) {
		case domain.Debit:
			debits = debits.Add(line.Amount)
		case domain.Credit:
			credits = credits.Add(line.Amount)
		}
	}
	if !debits.Equal(credits) {
		return &UnbalancedError{Debits: debits, Credits: credits}
	}
	return nil
}

func buildTemplateLines(templateID string, reqs []dto.TemplateLineRequest) []domain.TemplateLine {
	lines := make([]domain.TemplateLine, 0, len(reqs))
	for _, req := range reqs {
		lines = append(lines, domain.TemplateLine{
			LineID:       uuid.NewString(),
			TemplateID:   templateID,
			AccountID:    req.AccountID,
			Amount:       req.Amount,
			Direction:    domain.Direction(req.Direction),
			TaxCodeID:    req.TaxCodeID,
			DepartmentID: req.DepartmentID,
		})
	}
	return lines
}
