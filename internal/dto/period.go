package dto

import (
	"time"

	"github.com/keabooks/kea_books_app/internal/core/domain"
)

// CreateFiscalYearRequest defines the data needed to generate a fiscal
// year of consecutive monthly accounting periods.
type CreateFiscalYearRequest struct {
	StartDate string `json:"startDate" binding:"required,datetime=2006-01-02"`
	Months    int    `json:"months" binding:"omitempty,min=1,max=24"`
}

// UpdatePeriodStatusRequest defines a requested period status transition.
type UpdatePeriodStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=OPEN LOCKED CLOSED"`
}

// PeriodResponse defines the accounting period payload returned by the API.
type PeriodResponse struct {
	PeriodID      string    `json:"periodID"`
	CompanyID     string    `json:"companyID"`
	Name          string    `json:"name"`
	StartDate     string    `json:"startDate"`
	EndDate       string    `json:"endDate"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ToPeriodResponse converts a domain period to its response shape.
func ToPeriodResponse(period domain.Period) PeriodResponse {
	return PeriodResponse{
		PeriodID:      period.PeriodID,
		CompanyID:     period.CompanyID,
		Name:          period.Name,
		StartDate:     period.StartDate.Format("2006-01-02"),
		EndDate:       period.EndDate.Format("2006-01-02"),
		Status:        string(period.Status),
		CreatedAt:     period.CreatedAt,
		LastUpdatedAt: period.LastUpdatedAt,
	}
}

// ToPeriodResponses converts a slice of domain periods.
func ToPeriodResponses(periods []domain.Period) []PeriodResponse {
	responses := make([]PeriodResponse, 0, len(periods))
	for _, period := range periods {
		responses = append(responses, ToPeriodResponse(period))
	}
	return responses
}
