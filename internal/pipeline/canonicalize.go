package pipeline

import "github.com/dvloznov/statement-normalizer/internal/domain"

// Canonicalize normalizes a schema-validated statement in place and returns
// it: metadata dates to ISO form, every monetary and quantity field to its
// absolute value, holding dates backfilled from the statement date, and
// placeholder holding rows dropped. Canonicalization is deterministic, so
// re-running the pipeline on the same raw input yields a structurally
// identical statement.
func Canonicalize(stmt *domain.FinancialSecurityStatement) *domain.FinancialSecurityStatement {
	md := &stmt.StatementMetadata
	md.StatementDate = NormalizeDate(md.StatementDate)
	md.ReportingPeriodStart = NormalizeDate(md.ReportingPeriodStart)
	md.ReportingPeriodEnd = NormalizeDate(md.ReportingPeriodEnd)

	for i := range stmt.Accounts {
		acc := &stmt.Accounts[i]
		acc.Holdings = canonicalizeHoldings(acc.Holdings, md.StatementDate)
		for j := range acc.Transactions {
			canonicalizeTransaction(&acc.Transactions[j])
		}
		for j := range acc.Orders {
			canonicalizeOrder(&acc.Orders[j])
		}
		resolveCrossReferences(acc)
	}

	return stmt
}

func canonicalizeHoldings(holdings []domain.Holding, statementDate *string) []domain.Holding {
	out := make([]domain.Holding, 0, len(holdings))
	for _, h := range holdings {
		h.Quantity = absFloat(h.Quantity)
		h.Price = absFloat(h.Price)
		h.MarketValue = absFloat(h.MarketValue)
		h.AverageCostPerUnit = absFloat(h.AverageCostPerUnit)
		h.TotalCostValue = absFloat(h.TotalCostValue)
		h.UnrealizedGainLoss = absFloat(h.UnrealizedGainLoss)
		h.InvestedValue = absFloat(h.InvestedValue)
		h.CommittedValue = absFloat(h.CommittedValue)
		h.DrawndownValue = absFloat(h.DrawndownValue)
		h.CapitalReturned = absFloat(h.CapitalReturned)
		h.IncomeDistributed = absFloat(h.IncomeDistributed)

		// Missing holding dates inherit the statement date; price_date
		// has no fallback.
		if d := NormalizeDate(h.HoldingDate); d != nil {
			h.HoldingDate = d
		} else {
			h.HoldingDate = statementDate
		}
		h.PriceDate = NormalizeDate(h.PriceDate)

		// The placeholder filter runs after normalization so a row whose
		// only content is a now-normalized date is still dropped.
		if isPlaceholderHolding(&h) {
			continue
		}
		out = append(out, h)
	}
	return out
}

// isPlaceholderHolding reports whether a holding has none of its
// identifying fields populated.
func isPlaceholderHolding(h *domain.Holding) bool {
	if h.SecurityID != nil && trimmed(*h.SecurityID) != "" {
		return false
	}
	if h.SecurityName != nil && trimmed(*h.SecurityName) != "" {
		return false
	}
	if h.Quantity != nil || h.MarketValue != nil {
		return false
	}
	return true
}

func canonicalizeTransaction(t *domain.Transaction) {
	t.TransactionDate = NormalizeDate(t.TransactionDate)
	t.SettlementDate = NormalizeDate(t.SettlementDate)
	t.Quantity = absFloat(t.Quantity)
	t.Price = absFloat(t.Price)
	t.NetAmount = absFloat(t.NetAmount)
	t.GrossAmount = absFloat(t.GrossAmount)
}

func canonicalizeOrder(o *domain.Order) {
	o.OrderDate = NormalizeDate(o.OrderDate)
	o.TradeDate = NormalizeDate(o.TradeDate)
	o.Quantity = absFloat(o.Quantity)
	o.Price = absFloat(o.Price)
	o.NetAmount = absFloat(o.NetAmount)
	o.GrossAmount = absFloat(o.GrossAmount)
}
