package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceivableAllocation applies part of a posted receipt to an issued invoice.
type ReceivableAllocation struct {
	AllocationID         string          `json:"allocationID"`         // Primary Key (UUID)
	CompanyID            string          `json:"companyID"`            // FK -> Company.companyID (Not Null)
	ReceiptTransactionID string          `json:"receiptTransactionID"` // FK -> Transaction.transactionID (Not Null)
	InvoiceID            string          `json:"invoiceID"`            // FK -> Invoice.invoiceID (Not Null)
	Amount               decimal.Decimal `json:"amount"`               // Positive value; precise decimal type
	CreatedAt            time.Time       `json:"createdAt"`
	CreatedBy            string          `json:"createdBy"`
}

// PayableAllocation applies part of a posted payment to an issued bill.
type PayableAllocation struct {
	AllocationID         string          `json:"allocationID"`         // Primary Key (UUID)
	CompanyID            string          `json:"companyID"`            // FK -> Company.companyID (Not Null)
	PaymentTransactionID string          `json:"paymentTransactionID"` // FK -> Transaction.transactionID (Not Null)
	BillID               string          `json:"billID"`               // FK -> Bill.billID (Not Null)
	Amount               decimal.Decimal `json:"amount"`
	CreatedAt            time.Time       `json:"createdAt"`
	CreatedBy            string          `json:"createdBy"`
}
