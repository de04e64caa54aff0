package dto

import "github.com/keabooks/kea_books_app/internal/core/domain"

// TaxReturnResponse is the draft tax return for one period: the period's
// posted tax line snapshots aggregated by reporting box.
type TaxReturnResponse struct {
	PeriodID   string                `json:"periodID"`
	PeriodName string                `json:"periodName"`
	StartDate  string                `json:"startDate"`
	EndDate    string                `json:"endDate"`
	Rows       []domain.TaxReturnRow `json:"rows"`
}

// ListEntriesParams defines the pagination accepted by the account activity
// endpoint. Pagination is keyset-based on (entry date, id) descending.
type ListEntriesParams struct {
	Limit     int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken string `form:"nextToken"`
}

// ListEntriesResponse wraps a page of ledger entries, newest first.
type ListEntriesResponse struct {
	Items         []domain.LedgerEntry `json:"items"`
	NextPageToken string               `json:"nextPageToken,omitempty"`
}
