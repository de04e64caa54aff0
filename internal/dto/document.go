package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/keabooks/kea_books_app/internal/core/domain"
)

// DocumentLineRequest defines one revenue or expense line on an invoice or
// bill. Amount follows the referenced tax code's basis: gross when the code
// is inclusive, net otherwise.
type DocumentLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required,uuid"`
	Description  string          `json:"description" binding:"omitempty,max=255"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	TaxCodeID    *string         `json:"taxCodeID" binding:"omitempty,uuid"`
	DepartmentID *string         `json:"departmentID" binding:"omitempty,uuid"`
}

// CreateInvoiceRequest defines the data needed to create a draft invoice.
type CreateInvoiceRequest struct {
	ContactID string                `json:"contactID" binding:"required,uuid"`
	Number    string                `json:"number" binding:"required,max=64"`
	IssueDate string                `json:"issueDate" binding:"required,datetime=2006-01-02"`
	DueDate   string                `json:"dueDate" binding:"required,datetime=2006-01-02"`
	Lines     []DocumentLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdateInvoiceRequest defines the updatable fields of a draft invoice. When
// Lines is present the existing lines are replaced wholesale.
type UpdateInvoiceRequest struct {
	ContactID *string                `json:"contactID" binding:"omitempty,uuid"`
	Number    *string                `json:"number" binding:"omitempty,max=64"`
	IssueDate *string                `json:"issueDate" binding:"omitempty,datetime=2006-01-02"`
	DueDate   *string                `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
	Lines     *[]DocumentLineRequest `json:"lines" binding:"omitempty,min=1,dive"`
}

// CreateBillRequest defines the data needed to record a draft bill.
type CreateBillRequest struct {
	ContactID string                `json:"contactID" binding:"required,uuid"`
	Number    string                `json:"number" binding:"required,max=64"`
	IssueDate string                `json:"issueDate" binding:"required,datetime=2006-01-02"`
	DueDate   string                `json:"dueDate" binding:"required,datetime=2006-01-02"`
	Lines     []DocumentLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdateBillRequest defines the updatable fields of a draft bill.
type UpdateBillRequest struct {
	ContactID *string                `json:"contactID" binding:"omitempty,uuid"`
	Number    *string                `json:"number" binding:"omitempty,max=64"`
	IssueDate *string                `json:"issueDate" binding:"omitempty,datetime=2006-01-02"`
	DueDate   *string                `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
	Lines     *[]DocumentLineRequest `json:"lines" binding:"omitempty,min=1,dive"`
}

// ListDocumentsParams defines the filters accepted by the invoice and bill
// list endpoints.
type ListDocumentsParams struct {
	Status    *string `form:"status" binding:"omitempty,oneof=DRAFT ISSUED VOID"`
	ContactID *string `form:"contactID" binding:"omitempty,uuid"`
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken string  `form:"nextToken"`
}

// DocumentLineResponse defines one document line in API responses.
type DocumentLineResponse struct {
	LineID       string          `json:"lineID"`
	AccountID    string          `json:"accountID"`
	Description  string          `json:"description,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	TaxCodeID    *string         `json:"taxCodeID,omitempty"`
	DepartmentID *string         `json:"departmentID,omitempty"`
}

// InvoiceResponse defines the invoice payload returned by the API.
type InvoiceResponse struct {
	InvoiceID     string                 `json:"invoiceID"`
	CompanyID     string                 `json:"companyID"`
	ContactID     string                 `json:"contactID"`
	Number        string                 `json:"number"`
	IssueDate     string                 `json:"issueDate"`
	DueDate       string                 `json:"dueDate"`
	Status        string                 `json:"status"`
	Lines         []DocumentLineResponse `json:"lines"`
	Total         decimal.Decimal        `json:"total"`
	TaxTotal      decimal.Decimal        `json:"taxTotal"`
	AmountPaid    decimal.Decimal        `json:"amountPaid"`
	Balance       decimal.Decimal        `json:"balance"`
	TransactionID *string                `json:"transactionID,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	LastUpdatedAt time.Time              `json:"lastUpdatedAt"`
}

// BillResponse defines the bill payload returned by the API.
type BillResponse struct {
	BillID        string                 `json:"billID"`
	CompanyID     string                 `json:"companyID"`
	ContactID     string                 `json:"contactID"`
	Number        string                 `json:"number"`
	IssueDate     string                 `json:"issueDate"`
	DueDate       string                 `json:"dueDate"`
	Status        string                 `json:"status"`
	Lines         []DocumentLineResponse `json:"lines"`
	Total         decimal.Decimal        `json:"total"`
	TaxTotal      decimal.Decimal        `json:"taxTotal"`
	AmountPaid    decimal.Decimal        `json:"amountPaid"`
	Balance       decimal.Decimal        `json:"balance"`
	TransactionID *string                `json:"transactionID,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	LastUpdatedAt time.Time              `json:"lastUpdatedAt"`
}

// ListInvoicesResponse wraps a page of invoices.
type ListInvoicesResponse struct {
	Items         []InvoiceResponse `json:"items"`
	NextPageToken string            `json:"nextPageToken,omitempty"`
}

// ListBillsResponse wraps a page of bills.
type ListBillsResponse struct {
	Items         []BillResponse `json:"items"`
	NextPageToken string         `json:"nextPageToken,omitempty"`
}

func toDocumentLineResponses(lines []domain.DocumentLine) []DocumentLineResponse {
	responses := make([]DocumentLineResponse, 0, len(lines))
	for _, line := range lines {
		responses = append(responses, DocumentLineResponse{
			LineID:       line.LineID,
			AccountID:    line.AccountID,
			Description:  line.Description,
			Amount:       line.Amount,
			TaxCodeID:    line.TaxCodeID,
			DepartmentID: line.DepartmentID,
		})
	}
	return responses
}

// ToInvoiceResponse converts a domain invoice to its response shape.
func ToInvoiceResponse(invoice domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:     invoice.InvoiceID,
		CompanyID:     invoice.CompanyID,
		ContactID:     invoice.ContactID,
		Number:        invoice.Number,
		IssueDate:     invoice.IssueDate.Format("2006-01-02"),
		DueDate:       invoice.DueDate.Format("2006-01-02"),
		Status:        string(invoice.Status),
		Lines:         toDocumentLineResponses(invoice.Lines),
		Total:         invoice.Total,
		TaxTotal:      invoice.TaxTotal,
		AmountPaid:    invoice.AmountPaid,
		Balance:       invoice.Balance(),
		TransactionID: invoice.TransactionID,
		CreatedAt:     invoice.CreatedAt,
		LastUpdatedAt: invoice.LastUpdatedAt,
	}
}

// ToInvoiceResponses converts a slice of domain invoices.
func ToInvoiceResponses(invoices []domain.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, 0, len(invoices))
	for _, invoice := range invoices {
		responses = append(responses, ToInvoiceResponse(invoice))
	}
	return responses
}

// ToBillResponse converts a domain bill to its response shape.
func ToBillResponse(bill domain.Bill) BillResponse {
	return BillResponse{
		BillID:        bill.BillID,
		CompanyID:     bill.CompanyID,
		ContactID:     bill.ContactID,
		Number:        bill.Number,
		IssueDate:     bill.IssueDate.Format("2006-01-02"),
		DueDate:       bill.DueDate.Format("2006-01-02"),
		Status:        string(bill.Status),
		Lines:         toDocumentLineResponses(bill.Lines),
		Total:         bill.Total,
		TaxTotal:      bill.TaxTotal,
		AmountPaid:    bill.AmountPaid,
		Balance:       bill.Balance(),
		TransactionID: bill.TransactionID,
		CreatedAt:     bill.CreatedAt,
		LastUpdatedAt: bill.LastUpdatedAt,
	}
}

// ToBillResponses converts a slice of domain bills.
func ToBillResponses(bills []domain.Bill) []BillResponse {
	responses := make([]BillResponse, 0, len(bills))
	for _, bill := range bills {
		responses = append(responses, ToBillResponse(bill))
	}
	return responses
}
