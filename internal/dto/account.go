package dto

import (
	"time"

	"github.com/keabooks/kea_books_app/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code        string `json:"code" binding:"required,max=32"`
	Name        string `json:"name" binding:"required,max=255"`
	AccountType string `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ControlRole string `json:"controlRole" binding:"omitempty,oneof=NONE BANK ACCOUNTS_RECEIVABLE ACCOUNTS_PAYABLE TAX"`
	Description string `json:"description" binding:"omitempty,max=255"`
}

// UpdateAccountRequest defines the updatable fields of an account.
// Code, type and control role are fixed once the account exists.
type UpdateAccountRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description" binding:"omitempty,max=255"`
	IsActive    *bool   `json:"isActive"`
}

// AccountResponse defines the account payload returned by the API.
type AccountResponse struct {
	AccountID     string    `json:"accountID"`
	CompanyID     string    `json:"companyID"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	AccountType   string    `json:"accountType"`
	ControlRole   string    `json:"controlRole"`
	Description   string    `json:"description,omitempty"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain account to its response shape.
func ToAccountResponse(account domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     account.AccountID,
		CompanyID:     account.CompanyID,
		Code:          account.Code,
		Name:          account.Name,
		AccountType:   string(account.AccountType),
		ControlRole:   string(account.ControlRole),
		Description:   account.Description,
		IsActive:      account.IsActive,
		CreatedAt:     account.CreatedAt,
		LastUpdatedAt: account.LastUpdatedAt,
	}
}

// ToAccountResponses converts a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, ToAccountResponse(account))
	}
	return responses
}
