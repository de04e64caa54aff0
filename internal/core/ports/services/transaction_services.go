package services

import (
	"context"

	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/keabooks/kea_books_app/internal/dto"
)

// TransactionReaderSvc defines read operations for transaction data
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves a transaction with its lines and, when
	// posted, its reversal linkage.
	GetTransactionByID(ctx context.Context, companyID string, transactionID string) (*dto.TransactionResponse, error)

	// ListTransactions retrieves a paginated list of transactions in a company.
	ListTransactions(ctx context.Context, companyID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// TransactionWriterSvc defines the draft lifecycle. Posting and reversal live
// on PostingSvcFacade; POSTED transactions are immutable here.
type TransactionWriterSvc interface {
	// CreateDraft persists a new draft transaction with its lines.
	CreateDraft(ctx context.Context, companyID string, req dto.CreateTransactionRequest, actorID string) (*domain.Transaction, error)

	// UpdateDraft replaces a draft's date, description and lines.
	UpdateDraft(ctx context.Context, companyID string, transactionID string, req dto.UpdateTransactionRequest, actorID string) (*domain.Transaction, error)

	// VoidDraft discards a draft, flipping it to VOID.
	VoidDraft(ctx context.Context, companyID string, transactionID string, actorID string) error

	// DeleteDraft removes a draft and its lines entirely.
	DeleteDraft(ctx context.Context, companyID string, transactionID string, actorID string) error
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
