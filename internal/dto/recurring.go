package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/keabooks/kea_books_app/internal/core/domain"
)

// TemplateLineRequest defines one stored line of a recurring template.
type TemplateLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required,uuid"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Direction    string          `json:"direction" binding:"required,oneof=DEBIT CREDIT"`
	TaxCodeID    *string         `json:"taxCodeID" binding:"omitempty,uuid"`
	DepartmentID *string         `json:"departmentID" binding:"omitempty,uuid"`
}

// CreateTemplateRequest defines the data needed to create a recurring
// template. The lines must balance; generated transactions post immediately.
type CreateTemplateRequest struct {
	Name            string                `json:"name" binding:"required,max=255"`
	TransactionType string                `json:"transactionType" binding:"required,oneof=PAYMENT RECEIPT JOURNAL"`
	Description     string                `json:"description" binding:"required,max=255"`
	Frequency       string                `json:"frequency" binding:"required,oneof=WEEKLY FORTNIGHTLY MONTHLY QUARTERLY YEARLY"`
	NextRunDate     string                `json:"nextRunDate" binding:"required,datetime=2006-01-02"`
	Lines           []TemplateLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// UpdateTemplateRequest defines the updatable fields of a template. When
// Lines is present the stored lines are replaced wholesale.
type UpdateTemplateRequest struct {
	Name        *string                `json:"name" binding:"omitempty,max=255"`
	Description *string                `json:"description" binding:"omitempty,max=255"`
	Frequency   *string                `json:"frequency" binding:"omitempty,oneof=WEEKLY FORTNIGHTLY MONTHLY QUARTERLY YEARLY"`
	NextRunDate *string                `json:"nextRunDate" binding:"omitempty,datetime=2006-01-02"`
	IsActive    *bool                  `json:"isActive"`
	Lines       *[]TemplateLineRequest `json:"lines" binding:"omitempty,min=2,dive"`
}

// RunDueRequest defines the materialization cutoff. When AsOf is absent the
// current date is used.
type RunDueRequest struct {
	AsOf *string `json:"asOf" binding:"omitempty,datetime=2006-01-02"`
}

// TemplateLineResponse defines one template line in API responses.
type TemplateLineResponse struct {
	LineID       string          `json:"lineID"`
	AccountID    string          `json:"accountID"`
	Amount       decimal.Decimal `json:"amount"`
	Direction    string          `json:"direction"`
	TaxCodeID    *string         `json:"taxCodeID,omitempty"`
	DepartmentID *string         `json:"departmentID,omitempty"`
}

// TemplateResponse defines the recurring template payload returned by the API.
type TemplateResponse struct {
	TemplateID      string                 `json:"templateID"`
	CompanyID       string                 `json:"companyID"`
	Name            string                 `json:"name"`
	TransactionType string                 `json:"transactionType"`
	Description     string                 `json:"description"`
	Frequency       string                 `json:"frequency"`
	NextRunDate     string                 `json:"nextRunDate"`
	IsActive        bool                   `json:"isActive"`
	Lines           []TemplateLineResponse `json:"lines"`
	CreatedAt       time.Time              `json:"createdAt"`
	LastUpdatedAt   time.Time              `json:"lastUpdatedAt"`
}

// ToTemplateResponse converts a domain template to its response shape.
func ToTemplateResponse(template domain.RecurringTemplate) TemplateResponse {
	lines := make([]TemplateLineResponse, 0, len(template.Lines))
	for _, line := range template.Lines {
		lines = append(lines, TemplateLineResponse{
			LineID:       line.LineID,
			AccountID:    line.AccountID,
			Amount:       line.Amount,
			Direction:    string(line.Direction),
			TaxCodeID:    line.TaxCodeID,
			DepartmentID: line.DepartmentID,
		})
	}
	return TemplateResponse{
		TemplateID:      template.TemplateID,
		CompanyID:       template.CompanyID,
		Name:            template.Name,
		TransactionType: string(template.TransactionType),
		Description:     template.Description,
		Frequency:       string(template.Frequency),
		NextRunDate:     template.NextRunDate.Format("2006-01-02"),
		IsActive:        template.IsActive,
		Lines:           lines,
		CreatedAt:       template.CreatedAt,
		LastUpdatedAt:   template.LastUpdatedAt,
	}
}

// ToTemplateResponses converts a slice of domain templates.
func ToTemplateResponses(templates []domain.RecurringTemplate) []TemplateResponse {
	responses := make([]TemplateResponse, 0, len(templates))
	for _, template := range templates {
		responses = append(responses, ToTemplateResponse(template))
	}
	return responses
}
