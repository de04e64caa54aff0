package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is one of the known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	default:
		return false
	}
}

// ControlRole marks accounts with a structural role the engine relies on:
// allocation reads receivable/payable control lines, reconciliation only
// touches entries on bank control accounts.
type ControlRole string

const (
	ControlNone       ControlRole = "NONE"
	ControlBank       ControlRole = "BANK"
	ControlReceivable ControlRole = "ACCOUNTS_RECEIVABLE"
	ControlPayable    ControlRole = "ACCOUNTS_PAYABLE"
	ControlTax        ControlRole = "TAX"
)

// IsValid reports whether r is one of the known control roles.
func (r ControlRole) IsValid() bool {
	switch r {
	case ControlNone, ControlBank, ControlReceivable, ControlPayable, ControlTax:
		return true
	default:
		return false
	}
}

// Account represents one account in a company's chart of accounts.
// There is no persisted balance: ledger entries are the source of truth and
// balances are derived by the reporting queries.
type Account struct {
	AccountID   string      `json:"accountID"` // Primary Key (UUID)
	CompanyID   string      `json:"companyID"` // FK -> companies.company_id (NON-NULL)
	Code        string      `json:"code"`      // Short user-facing code, unique per company
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"` // ASSET, LIABILITY, etc.
	ControlRole ControlRole `json:"controlRole"` // NONE for ordinary accounts
	Description string      `json:"description"`
	IsActive    bool        `json:"isActive"` // Inactive accounts reject new postings
	AuditFields
}
