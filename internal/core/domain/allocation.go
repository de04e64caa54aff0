package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceivableAllocation applies part of a posted receipt to an issued invoice.
type ReceivableAllocation struct {
	AllocationID         string          `json:"allocationID"` // Primary Key (UUID)
	CompanyID            string          `json:"companyID"`
	ReceiptTransactionID string          `json:"receiptTransactionID"` // FK -> transactions.transaction_id
	InvoiceID            string          `json:"invoiceID"`            // FK -> invoices.invoice_id
	Amount               decimal.Decimal `json:"amount"`               // Strictly positive, max 2dp
	CreatedAt            time.Time       `json:"createdAt"`
	CreatedBy            string          `json:"createdBy"`
}

// PayableAllocation applies part of a posted payment to an issued bill.
type PayableAllocation struct {
	AllocationID         string          `json:"allocationID"` // Primary Key (UUID)
	CompanyID            string          `json:"companyID"`
	PaymentTransactionID string          `json:"paymentTransactionID"` // FK -> transactions.transaction_id
	BillID               string          `json:"billID"`               // FK -> bills.bill_id
	Amount               decimal.Decimal `json:"amount"`
	CreatedAt            time.Time       `json:"createdAt"`
	CreatedBy            string          `json:"createdBy"`
}

// AllocationSuggestion is one proposed application of an available amount to
// an outstanding document, produced oldest-due-first.
type AllocationSuggestion struct {
	DocumentID  string          `json:"documentID"`
	Number      string          `json:"number"`
	DueDate     time.Time       `json:"dueDate"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Amount      decimal.Decimal `json:"amount"`     // Suggested allocation, capped at Outstanding
	ExactMatch  bool            `json:"exactMatch"` // Available amount exactly clears this document
}
