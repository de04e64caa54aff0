package models

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// ControlRole marks accounts with a structural role the engine relies on.
type ControlRole string

const (
	ControlNone       ControlRole = "NONE"
	ControlBank       ControlRole = "BANK"
	ControlReceivable ControlRole = "ACCOUNTS_RECEIVABLE"
	ControlPayable    ControlRole = "ACCOUNTS_PAYABLE"
	ControlTax        ControlRole = "TAX"
)

// Account represents one account row in a company's chart of accounts.
// Balances are not persisted; reporting derives them from ledger entries.
type Account struct {
	AccountID   string      `json:"accountID"`   // Primary Key (UUID)
	CompanyID   string      `json:"companyID"`   // FK -> Company.companyID (Not Null)
	Code        string      `json:"code"`        // Short user-facing code, unique per company
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"` // ASSET, LIABILITY, EQUITY, REVENUE, EXPENSE
	ControlRole ControlRole `json:"controlRole"` // NONE for ordinary accounts
	Description string      `json:"description"` // Nullable
	IsActive    bool        `json:"isActive"`
	AuditFields
}
