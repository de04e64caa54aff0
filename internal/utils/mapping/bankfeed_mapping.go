package mapping

import (
	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/keabooks/kea_books_app/internal/models"
)

// ToModelBankFeedItem converts a domain BankFeedItem to a model BankFeedItem
func ToModelBankFeedItem(d domain.BankFeedItem) models.BankFeedItem {
	return models.BankFeedItem{
		ItemID:         d.ItemID,
		CompanyID:      d.CompanyID,
		BankAccountID:  d.BankAccountID,
		ItemDate:       d.ItemDate,
		Amount:         d.Amount,
		Payee:          d.Payee,
		Reference:      d.Reference,
		Status:         models.FeedItemStatus(d.Status),
		MatchedEntryID: d.MatchedEntryID,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBankFeedItem converts a model BankFeedItem to a domain BankFeedItem
func ToDomainBankFeedItem(m models.BankFeedItem) domain.BankFeedItem {
	return domain.BankFeedItem{
		ItemID:         m.ItemID,
		CompanyID:      m.CompanyID,
		BankAccountID:  m.BankAccountID,
		ItemDate:       m.ItemDate,
		Amount:         m.Amount,
		Payee:          m.Payee,
		Reference:      m.Reference,
		Status:         domain.FeedItemStatus(m.Status),
		MatchedEntryID: m.MatchedEntryID,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainBankFeedItemSlice converts a slice of model BankFeedItems to a slice of domain BankFeedItems
func ToDomainBankFeedItemSlice(ms []models.BankFeedItem) []domain.BankFeedItem {
	ds := make([]domain.BankFeedItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBankFeedItem(m)
	}
	return ds
}
