package accounting

import (
	"fmt"

	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// HasValidScale reports whether d has at most two decimal places. Amounts are
// validated at the edge so the core can rely on exact 2dp arithmetic.
func HasValidScale(d decimal.Decimal) bool {
	return d.Exponent() >= -2
}

// SumByDirection totals a transaction's lines into debit and credit sums.
func SumByDirection(lines []domain.TransactionLine) (debits decimal.Decimal, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, line := range lines {
		switch line.Direction {
		case domain.Debit:
			debits = debits.Add(line.Amount)
		case domain.Credit:
			credits = credits.Add(line.Amount)
		}
	}
	return debits, credits
}

// TaxFromGross splits a tax-inclusive gross amount into taxable and tax parts
// at the given fractional rate. Tax is rounded to 2dp (half away from zero);
// taxable is the exact remainder so the parts always re-add to gross.
func TaxFromGross(gross decimal.Decimal, rate decimal.Decimal) (taxable decimal.Decimal, tax decimal.Decimal) {
	tax = gross.Mul(rate).Div(rate.Add(decimal.NewFromInt(1))).Round(2)
	taxable = gross.Sub(tax)
	return taxable, tax
}

// TaxFromNet computes tax on a tax-exclusive net amount at the given
// fractional rate, rounded to 2dp.
func TaxFromNet(net decimal.Decimal, rate decimal.Decimal) (taxable decimal.Decimal, tax decimal.Decimal) {
	return net, net.Mul(rate).Round(2)
}

// NetSignedAmount applies the account's normal-balance sign to a ledger entry.
// DEBIT to ASSET/EXPENSE -> positive; CREDIT to ASSET/EXPENSE -> negative;
// the mirror for LIABILITY/EQUITY/REVENUE. Used by the P&L and balance sheet
// reports, which present accounts in their natural sign.
func NetSignedAmount(entry domain.LedgerEntry, accountType domain.AccountType) (decimal.Decimal, error) {
	net := entry.AmountDr.Sub(entry.AmountCr)
	switch accountType {
	case domain.Asset, domain.Expense:
		return net, nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return net.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, entry.AccountID)
	}
}
