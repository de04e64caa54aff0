package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/keabooks/kea_books_app/internal/apperrors"
	"github.com/keabooks/kea_books_app/internal/core/domain"
	portsrepo "github.com/keabooks/kea_books_app/internal/core/ports/repositories"
	portssvc "github.com/keabooks/kea_books_app/internal/core/ports/services"
	"github.com/keabooks/kea_books_app/internal/dto"
	"github.com/keabooks/kea_books_app/internal/middleware"
)

var (
	// ErrFeedItemMatched is returned when the feed item is already matched.
	ErrFeedItemMatched = errors.New("feed item is already matched")

	// ErrFeedItemNotMatched is returned when unmatching a feed item that has
	// no link.
	ErrFeedItemNotMatched = errors.New("feed item is not matched")

	// ErrEntryReconciled is returned when the ledger entry is no longer
	// unreconciled.
	ErrEntryReconciled = errors.New("ledger entry is already reconciled")

	// ErrNotBankAccount is returned when the account does not carry the bank
	// control role.
	ErrNotBankAccount = errors.New("account is not a bank account")

	// ErrWrongBankAccount is returned when the entry is not on the feed
	// item's bank account.
	ErrWrongBankAccount = errors.New("entry is not on the feed item's bank account")

	// ErrAmountMismatch is returned when the feed item and entry amounts do
	// not correspond.
	ErrAmountMismatch = errors.New("feed item and entry amounts do not correspond")
)

const (
	// matchWindowDays bounds how far a candidate entry's date may sit from
	// the statement line's date.
	matchWindowDays = 7

	defaultSuggestionLimit = 5
)

// ReconciliationService owns the bank feed and the reconciliation sub-state
// of ledger entries. It only ever flips Reconciled, ReconciliationStatus and
// the feed item link; accounting columns stay with the posting engine.
type ReconciliationService struct {
	bankFeedRepo portsrepo.BankFeedRepositoryFacade
	ledgerRepo   portsrepo.LedgerRepositoryFacade
	accountRepo  portsrepo.AccountRepositoryFacade
}

var _ portssvc.ReconciliationSvcFacade = (*ReconciliationService)(nil)

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(
	bankFeedRepo portsrepo.BankFeedRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
) *ReconciliationService {
	return &ReconciliationService{
		bankFeedRepo: bankFeedRepo,
		ledgerRepo:   ledgerRepo,
		accountRepo:  accountRepo,
	}
}

// ImportFeedItems persists a batch of pushed-in statement lines. Every
// referenced bank account must exist and carry the BANK control role.
func (s *ReconciliationService) ImportFeedItems(ctx context.Context, companyID string, req dto.ImportFeedItemsRequest, actorID string) ([]domain.BankFeedItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	checked := make(map[string]bool)
	for _, item := range req.Items {
		if checked[item.BankAccountID] {
			continue
		}
		account, err := s.accountRepo.FindAccountByID(ctx, companyID, item.BankAccountID)
		if err != nil {
			return nil, err
		}
		if account.ControlRole != domain.ControlBank {
			return nil, fmt.Errorf("%w: %s", ErrNotBankAccount, account.AccountID)
		}
		checked[item.BankAccountID] = true
	}

	now := time.Now().UTC()
	items := make([]domain.BankFeedItem, 0, len(req.Items))
	for _, reqItem := range req.Items {
		itemDate, err := parseDateOnly(reqItem.ItemDate)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid item date: %s", reqItem.ItemDate))
		}
		items = append(items, domain.BankFeedItem{
			ItemID:        uuid.NewString(),
			CompanyID:     companyID,
			BankAccountID: reqItem.BankAccountID,
			ItemDate:      itemDate,
			Amount:        reqItem.Amount,
			Payee:         reqItem.Payee,
			Reference:     reqItem.Reference,
			Status:        domain.FeedUnmatched,
			AuditFields:   domain.NewAuditFields(actorID, now),
		})
	}

	if err := s.bankFeedRepo.SaveFeedItems(ctx, items); err != nil {
		logger.Error("Failed to save feed items", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, err
	}

	logger.Info("Feed items imported", slog.String("company_id", companyID), slog.Int("count", len(items)))
	return items, nil
}

func (s *ReconciliationService) GetFeedItemByID(ctx context.Context, companyID string, itemID string) (*domain.BankFeedItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	item, err := s.bankFeedRepo.FindFeedItemByID(ctx, companyID, itemID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find feed item", slog.String("error", err.Error()), slog.String("item_id", itemID))
		}
		return nil, err
	}
	return item, nil
}

func (s *ReconciliationService) ListFeedItems(ctx context.Context, companyID string, params dto.ListFeedItemsParams) (*dto.ListFeedItemsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var status *domain.FeedItemStatus
	if params.Status != nil {
		v := domain.FeedItemStatus(*params.Status)
		status = &v
	}
	var nextToken *string
	if params.NextToken != "" {
		nextToken = &params.NextToken
	}

	items, newToken, err := s.bankFeedRepo.ListFeedItems(ctx, companyID, params.Limit, nextToken, params.BankAccountID, status)
	if err != nil {
		logger.Error("Failed to list feed items", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, err
	}

	resp := &dto.ListFeedItemsResponse{Items: dto.ToFeedItemResponses(items)}
	if newToken != nil {
		resp.NextPageToken = *newToken
	}
	return resp, nil
}

// MatchEntry links a feed item with a ledger entry. The entry must sit on the
// item's bank account, be unreconciled, and its amount must correspond to the
// statement line: money in matches a debit, money out a credit, magnitudes
// equal.
func (s *ReconciliationService) MatchEntry(ctx context.Context, companyID string, itemID string, req dto.MatchEntryRequest, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	item, err := s.bankFeedRepo.FindFeedItemByID(ctx, companyID, itemID)
	if err != nil {
		return err
	}
	if item.Status != domain.FeedUnmatched {
		return fmt.Errorf("%w: %s", ErrFeedItemMatched, itemID)
	}

	entry, err := s.ledgerRepo.FindEntryByID(ctx, companyID, req.EntryID)
	if err != nil {
		return err
	}
	if entry.ReconciliationStatus != domain.ReconUnreconciled {
		return fmt.Errorf("%w: entry %s is %s", ErrEntryReconciled, entry.EntryID, entry.ReconciliationStatus)
	}
	if entry.AccountID != item.BankAccountID {
		return fmt.Errorf("%w: entry %s", ErrWrongBankAccount, entry.EntryID)
	}

	magnitude := item.Amount.Abs()
	if item.Amount.IsPositive() {
		if !entry.IsDebit() || !entry.AmountDr.Equal(magnitude) {
			return fmt.Errorf("%w: item %s, entry %s", ErrAmountMismatch, item.Amount, entry.Amount())
		}
	} else {
		if entry.IsDebit() || !entry.AmountCr.Equal(magnitude) {
			return fmt.Errorf("%w: item %s, entry %s", ErrAmountMismatch, item.Amount, entry.Amount())
		}
	}

	now := time.Now().UTC()
	audit := domain.AuditEvent{
		EventID:    uuid.NewString(),
		CompanyID:  companyID,
		ActorID:    actorID,
		EventType:  domain.AuditEntryMatched,
		EntityType: "LEDGER_ENTRY",
		EntityID:   entry.EntryID,
		Summary:    fmt.Sprintf("Entry %s matched to feed item %s for %s", entry.EntryID, itemID, item.Amount),
		CreatedAt:  now,
	}

	if err := s.bankFeedRepo.MatchEntryToFeedItem(ctx, companyID, entry.EntryID, itemID, actorID, now, audit); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Reconciliation state changed concurrently", slog.String("item_id", itemID), slog.String("entry_id", entry.EntryID))
			return err
		}
		logger.Error("Failed to match entry", slog.String("error", err.Error()), slog.String("item_id", itemID), slog.String("entry_id", entry.EntryID))
		return err
	}

	logger.Info("Entry matched", slog.String("item_id", itemID), slog.String("entry_id", entry.EntryID))
	return nil
}

// UnmatchItem severs a feed item's link, returning the item to UNMATCHED and
// the entry to UNRECONCILED.
func (s *ReconciliationService) UnmatchItem(ctx context.Context, companyID string, itemID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	item, err := s.bankFeedRepo.FindFeedItemByID(ctx, companyID, itemID)
	if err != nil {
		return err
	}
	if item.Status != domain.FeedMatched || item.MatchedEntryID == nil {
		return fmt.Errorf("%w: %s", ErrFeedItemNotMatched, itemID)
	}

	now := time.Now().UTC()
	audit := domain.AuditEvent{
		EventID:    uuid.NewString(),
		CompanyID:  companyID,
		ActorID:    actorID,
		EventType:  domain.AuditEntryUnmatched,
		EntityType: "LEDGER_ENTRY",
		EntityID:   *item.MatchedEntryID,
		Summary:    fmt.Sprintf("Entry %s unmatched from feed item %s", *item.MatchedEntryID, itemID),
		CreatedAt:  now,
	}

	if err := s.bankFeedRepo.UnmatchFeedItem(ctx, companyID, itemID, actorID, now, audit); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) && !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to unmatch feed item", slog.String("error", err.Error()), slog.String("item_id", itemID))
		}
		return err
	}

	logger.Info("Feed item unmatched", slog.String("item_id", itemID))
	return nil
}

// ManualClearEntry marks an unreconciled bank entry MANUAL_CLEARED without a
// feed item, for statements that never arrive through a feed.
func (s *ReconciliationService) ManualClearEntry(ctx context.Context, companyID string, entryID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.ledgerRepo.FindEntryByID(ctx, companyID, entryID)
	if err != nil {
		return err
	}
	if entry.ReconciliationStatus != domain.ReconUnreconciled {
		return fmt.Errorf("%w: entry %s is %s", ErrEntryReconciled, entryID, entry.ReconciliationStatus)
	}
	account, err := s.accountRepo.FindAccountByID(ctx, companyID, entry.AccountID)
	if err != nil {
		return err
	}
	if account.ControlRole != domain.ControlBank {
		return fmt.Errorf("%w: %s", ErrNotBankAccount, account.AccountID)
	}

	now := time.Now().UTC()
	audit := domain.AuditEvent{
		EventID:    uuid.NewString(),
		CompanyID:  companyID,
		ActorID:    actorID,
		EventType:  domain.AuditEntryCleared,
		EntityType: "LEDGER_ENTRY",
		EntityID:   entryID,
		Summary:    fmt.Sprintf("Entry %s manually cleared", entryID),
		CreatedAt:  now,
	}

	if err := s.bankFeedRepo.ManualClearEntry(ctx, companyID, entryID, actorID, now, audit); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) && !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to clear entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return err
	}

	logger.Info("Entry manually cleared", slog.String("entry_id", entryID))
	return nil
}

// SuggestMatches scores unreconciled entries on the item's bank account whose
// amount equals the statement line. Date proximity and payee or reference
// word overlap with the entry's transaction description each contribute up to
// one point.
func (s *ReconciliationService) SuggestMatches(ctx context.Context, companyID string, itemID string, limit int) ([]domain.MatchCandidate, error) {
	item, err := s.bankFeedRepo.FindFeedItemByID(ctx, companyID, itemID)
	if err != nil {
		return nil, err
	}
	if item.Status != domain.FeedUnmatched {
		return nil, fmt.Errorf("%w: %s", ErrFeedItemMatched, itemID)
	}

	candidates, err := s.ledgerRepo.FindMatchCandidates(ctx, companyID, item.BankAccountID, item.Amount.Abs(), item.Amount.IsPositive(), item.ItemDate, matchWindowDays)
	if err != nil {
		return nil, err
	}

	itemWords := tokenizeWords(item.Payee + " " + item.Reference)
	for i := range candidates {
		candidates[i].Score = dateProximityScore(item.ItemDate, candidates[i].Entry.EntryDate) + wordOverlapScore(itemWords, candidates[i].Description)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if limit <= 0 {
		limit = defaultSuggestionLimit
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// dateProximityScore maps the gap between statement and entry dates onto
// [0,1], 1 for the same day, 0 at the window edge.
func dateProximityScore(itemDate time.Time, entryDate time.Time) float64 {
	days := entryDate.Sub(itemDate).Hours() / 24
	if days < 0 {
		days = -days
	}
	if days > matchWindowDays {
		return 0
	}
	return 1 - days/(matchWindowDays+1)
}

// wordOverlapScore is the fraction of the statement line's words found in the
// entry's transaction description.
func wordOverlapScore(itemWords map[string]bool, description string) float64 {
	if len(itemWords) == 0 {
		return 0
	}
	descWords := tokenizeWords(description)
	matched := 0
	for word := range itemWords {
		if descWords[word] {
			matched++
		}
	}
	return float64(matched) / float64(len(itemWords))
}

// tokenizeWords lowercases and splits free text, dropping punctuation and
// tokens too short to carry meaning.
func tokenizeWords(s string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.Trim(w, ".,;:()/-")
		if len(w) >= 3 {
			words[w] = true
		}
	}
	return words
}
