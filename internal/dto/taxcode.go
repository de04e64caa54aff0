package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/keabooks/kea_books_app/internal/core/domain"
)

// CreateTaxCodeRequest defines the data needed to create a new tax code.
type CreateTaxCodeRequest struct {
	Code         string          `json:"code" binding:"required,max=32"`
	Name         string          `json:"name" binding:"required,max=255"`
	Rate         decimal.Decimal `json:"rate" binding:"required"`
	Inclusive    *bool           `json:"inclusive"`
	ReportingBox string          `json:"reportingBox" binding:"omitempty,max=32"`
	Jurisdiction string          `json:"jurisdiction" binding:"omitempty,max=64"`
}

// UpdateTaxCodeRequest defines the updatable fields of a tax code.
// The rate is fixed once the code exists; posted tax lines snapshot it.
type UpdateTaxCodeRequest struct {
	Name         *string `json:"name" binding:"omitempty,max=255"`
	ReportingBox *string `json:"reportingBox" binding:"omitempty,max=32"`
	Jurisdiction *string `json:"jurisdiction" binding:"omitempty,max=64"`
	IsActive     *bool   `json:"isActive"`
}

// TaxCodeResponse defines the tax code payload returned by the API.
type TaxCodeResponse struct {
	TaxCodeID     string          `json:"taxCodeID"`
	CompanyID     string          `json:"companyID"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Rate          decimal.Decimal `json:"rate"`
	Inclusive     bool            `json:"inclusive"`
	ReportingBox  string          `json:"reportingBox,omitempty"`
	Jurisdiction  string          `json:"jurisdiction,omitempty"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// ToTaxCodeResponse converts a domain tax code to its response shape.
func ToTaxCodeResponse(taxCode domain.TaxCode) TaxCodeResponse {
	return TaxCodeResponse{
		TaxCodeID:     taxCode.TaxCodeID,
		CompanyID:     taxCode.CompanyID,
		Code:          taxCode.Code,
		Name:          taxCode.Name,
		Rate:          taxCode.Rate,
		Inclusive:     taxCode.Inclusive,
		ReportingBox:  taxCode.ReportingBox,
		Jurisdiction:  taxCode.Jurisdiction,
		IsActive:      taxCode.IsActive,
		CreatedAt:     taxCode.CreatedAt,
		LastUpdatedAt: taxCode.LastUpdatedAt,
	}
}

// ToTaxCodeResponses converts a slice of domain tax codes.
func ToTaxCodeResponses(taxCodes []domain.TaxCode) []TaxCodeResponse {
	responses := make([]TaxCodeResponse, 0, len(taxCodes))
	for _, taxCode := range taxCodes {
		responses = append(responses, ToTaxCodeResponse(taxCode))
	}
	return responses
}
