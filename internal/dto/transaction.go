package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/keabooks/kea_books_app/internal/core/domain"
)

// CreateTransactionLineRequest defines one line of a draft transaction.
type CreateTransactionLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required,uuid"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Direction    string          `json:"direction" binding:"required,oneof=DEBIT CREDIT"`
	TaxCodeID    *string         `json:"taxCodeID" binding:"omitempty,uuid"`
	DepartmentID *string         `json:"departmentID" binding:"omitempty,uuid"`
	Notes        string          `json:"notes" binding:"omitempty,max=255"`
}

// CreateTransactionRequest defines the data needed to create a draft
// transaction. INVOICE and BILL transactions are raised by document issuance
// and cannot be created directly. Drafts may be saved incomplete; the posting
// validations run when posting is requested.
type CreateTransactionRequest struct {
	TransactionType string                         `json:"transactionType" binding:"required,oneof=PAYMENT RECEIPT JOURNAL"`
	TransactionDate string                         `json:"transactionDate" binding:"required,datetime=2006-01-02"`
	Description     string                         `json:"description" binding:"required,max=255"`
	Lines           []CreateTransactionLineRequest `json:"lines" binding:"omitempty,dive"`
}

// UpdateTransactionRequest defines the updatable fields of a draft
// transaction. When Lines is present the existing lines are replaced wholesale.
type UpdateTransactionRequest struct {
	TransactionDate *string                         `json:"transactionDate" binding:"omitempty,datetime=2006-01-02"`
	Description     *string                         `json:"description" binding:"omitempty,max=255"`
	Lines           *[]CreateTransactionLineRequest `json:"lines" binding:"omitempty,dive"`
}

// ReverseTransactionRequest defines the optional inputs of a reversal. When
// Date is absent the reversal is dated on the original transaction's date.
type ReverseTransactionRequest struct {
	Reason string  `json:"reason" binding:"omitempty,max=255"`
	Date   *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// TransactionLineResponse defines one transaction line in API responses.
type TransactionLineResponse struct {
	LineID       string          `json:"lineID"`
	AccountID    string          `json:"accountID"`
	Amount       decimal.Decimal `json:"amount"`
	Direction    string          `json:"direction"`
	TaxCodeID    *string         `json:"taxCodeID,omitempty"`
	DepartmentID *string         `json:"departmentID,omitempty"`
	Notes        string          `json:"notes,omitempty"`
}

// TransactionResponse defines the transaction payload returned by the API.
// The reversal linkage fields are filled in for posted transactions that
// reverse, or are reversed by, another transaction.
type TransactionResponse struct {
	TransactionID           string                    `json:"transactionID"`
	CompanyID               string                    `json:"companyID"`
	TransactionType         string                    `json:"transactionType"`
	TransactionDate         string                    `json:"transactionDate"`
	Description             string                    `json:"description"`
	Status                  string                    `json:"status"`
	PostedAt                *time.Time                `json:"postedAt,omitempty"`
	Lines                   []TransactionLineResponse `json:"lines"`
	ReversesTransactionID   *string                   `json:"reversesTransactionID,omitempty"`
	ReversedByTransactionID *string                   `json:"reversedByTransactionID,omitempty"`
	CreatedAt               time.Time                 `json:"createdAt"`
	CreatedBy               string                    `json:"createdBy"`
	LastUpdatedAt           time.Time                 `json:"lastUpdatedAt"`
	LastUpdatedBy           string                    `json:"lastUpdatedBy"`
}

// ListTransactionsParams defines the filters accepted by the transaction list
// endpoint. Pagination is keyset-based on (transaction date, id) descending.
type ListTransactionsParams struct {
	Status          *string `form:"status" binding:"omitempty,oneof=DRAFT POSTED VOID"`
	TransactionType *string `form:"transactionType" binding:"omitempty,oneof=PAYMENT RECEIPT JOURNAL INVOICE BILL"`
	Limit           int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken       string  `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Items         []TransactionResponse `json:"items"`
	NextPageToken string                `json:"nextPageToken,omitempty"`
}

// ToTransactionLineResponse converts a domain transaction line.
func ToTransactionLineResponse(line domain.TransactionLine) TransactionLineResponse {
	return TransactionLineResponse{
		LineID:       line.LineID,
		AccountID:    line.AccountID,
		Amount:       line.Amount,
		Direction:    string(line.Direction),
		TaxCodeID:    line.TaxCodeID,
		DepartmentID: line.DepartmentID,
		Notes:        line.Notes,
	}
}

// ToTransactionResponse converts a domain transaction with its lines. The
// reversal linkage fields are left unset; callers that know the linkage fill
// them in.
func ToTransactionResponse(transaction domain.Transaction) TransactionResponse {
	lines := make([]TransactionLineResponse, 0, len(transaction.Lines))
	for _, line := range transaction.Lines {
		lines = append(lines, ToTransactionLineResponse(line))
	}
	return TransactionResponse{
		TransactionID:   transaction.TransactionID,
		CompanyID:       transaction.CompanyID,
		TransactionType: string(transaction.TransactionType),
		TransactionDate: transaction.TransactionDate.Format("2006-01-02"),
		Description:     transaction.Description,
		Status:          string(transaction.Status),
		PostedAt:        transaction.PostedAt,
		Lines:           lines,
		CreatedAt:       transaction.CreatedAt,
		CreatedBy:       transaction.CreatedBy,
		LastUpdatedAt:   transaction.LastUpdatedAt,
		LastUpdatedBy:   transaction.LastUpdatedBy,
	}
}

// ToTransactionResponses converts a slice of domain transactions.
func ToTransactionResponses(transactions []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, 0, len(transactions))
	for _, transaction := range transactions {
		responses = append(responses, ToTransactionResponse(transaction))
	}
	return responses
}
