package accounting_test

import (
	"testing"

	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/keabooks/kea_books_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestHasValidScale(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   bool
	}{
		{name: "whole number", amount: "100", want: true},
		{name: "one decimal place", amount: "100.5", want: true},
		{name: "two decimal places", amount: "100.55", want: true},
		{name: "three decimal places", amount: "100.555", want: false},
		{name: "sub-cent fraction", amount: "0.001", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decimal.RequireFromString(tt.amount)
			assert.Equal(t, tt.want, accounting.HasValidScale(d))
		})
	}
}

func TestSumByDirection(t *testing.T) {
	lines := []domain.TransactionLine{
		{Amount: decimal.RequireFromString("100.00"), Direction: domain.Debit},
		{Amount: decimal.RequireFromString("15.00"), Direction: domain.Debit},
		{Amount: decimal.RequireFromString("115.00"), Direction: domain.Credit},
	}

	debits, credits := accounting.SumByDirection(lines)
	assert.True(t, decimal.RequireFromString("115.00").Equal(debits))
	assert.True(t, decimal.RequireFromString("115.00").Equal(credits))
}

func TestTaxFromGross(t *testing.T) {
	tests := []struct {
		name        string
		gross       string
		rate        string
		wantTaxable string
		wantTax     string
	}{
		{name: "round 15% split", gross: "115.00", rate: "0.15", wantTaxable: "100.00", wantTax: "15.00"},
		{name: "awkward gross rounds tax", gross: "100.00", rate: "0.15", wantTaxable: "86.96", wantTax: "13.04"},
		{name: "small amount", gross: "1.15", rate: "0.15", wantTaxable: "1.00", wantTax: "0.15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gross := decimal.RequireFromString(tt.gross)
			taxable, tax := accounting.TaxFromGross(gross, decimal.RequireFromString(tt.rate))
			assert.Equal(t, tt.wantTaxable, taxable.StringFixed(2))
			assert.Equal(t, tt.wantTax, tax.StringFixed(2))
			assert.True(t, gross.Equal(taxable.Add(tax)), "parts must re-add to gross")
		})
	}
}

func TestTaxFromNet(t *testing.T) {
	taxable, tax := accounting.TaxFromNet(decimal.RequireFromString("100.00"), decimal.RequireFromString("0.15"))
	assert.Equal(t, "100.00", taxable.StringFixed(2))
	assert.Equal(t, "15.00", tax.StringFixed(2))
}

func TestNetSignedAmount(t *testing.T) {
	debitEntry := domain.LedgerEntry{
		AccountID: "acc-1",
		AmountDr:  decimal.RequireFromString("50.00"),
		AmountCr:  decimal.Zero,
	}
	creditEntry := domain.LedgerEntry{
		AccountID: "acc-2",
		AmountDr:  decimal.Zero,
		AmountCr:  decimal.RequireFromString("50.00"),
	}

	tests := []struct {
		name        string
		entry       domain.LedgerEntry
		accountType domain.AccountType
		want        string
	}{
		{name: "debit to asset is positive", entry: debitEntry, accountType: domain.Asset, want: "50.00"},
		{name: "credit to asset is negative", entry: creditEntry, accountType: domain.Asset, want: "-50.00"},
		{name: "credit to revenue is positive", entry: creditEntry, accountType: domain.Revenue, want: "50.00"},
		{name: "debit to liability is negative", entry: debitEntry, accountType: domain.Liability, want: "-50.00"},
		{name: "debit to expense is positive", entry: debitEntry, accountType: domain.Expense, want: "50.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := accounting.NetSignedAmount(tt.entry, tt.accountType)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}

	_, err := accounting.NetSignedAmount(debitEntry, domain.AccountType("MYSTERY"))
	assert.Error(t, err)
}
