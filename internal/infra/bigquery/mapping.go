package bigquery

import (
	"encoding/json"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/dvloznov/statement-normalizer/internal/domain"
	"github.com/google/uuid"
)

func nullString(s *string) bigquery.NullString {
	if s == nil {
		return bigquery.NullString{}
	}
	return bigquery.NullString{StringVal: *s, Valid: true}
}

func nullFloat(f *float64) bigquery.NullFloat64 {
	if f == nil {
		return bigquery.NullFloat64{}
	}
	return bigquery.NullFloat64{Float64: *f, Valid: true}
}

// nullDate converts a normalized YYYY-MM-DD string pointer to a NullDate.
// Values that never normalized to ISO stay NULL rather than failing the
// whole insert.
func nullDate(s *string) bigquery.NullDate {
	if s == nil {
		return bigquery.NullDate{}
	}
	d, err := civil.ParseDate(*s)
	if err != nil {
		return bigquery.NullDate{}
	}
	return bigquery.NullDate{Date: d, Valid: true}
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// holdingExtra gathers the long-tail valuation fields that have no
// dedicated column into the extra JSON payload. NULL when none are set.
func holdingExtra(h *domain.Holding) bigquery.NullJSON {
	extra := map[string]interface{}{}
	fields := []struct {
		key string
		val *float64
	}{
		{"total_cost_value", h.TotalCostValue},
		{"unrealized_gain_loss", h.UnrealizedGainLoss},
		{"invested_value", h.InvestedValue},
		{"committed_value", h.CommittedValue},
		{"drawndown_value", h.DrawndownValue},
		{"capital_returned", h.CapitalReturned},
		{"income_distributed", h.IncomeDistributed},
	}
	for _, f := range fields {
		if f.val != nil {
			extra[f.key] = *f.val
		}
	}
	if h.Issuer != nil {
		extra["issuer"] = *h.Issuer
	}
	if len(extra) == 0 {
		return bigquery.NullJSON{}
	}
	b, err := json.Marshal(extra)
	if err != nil {
		return bigquery.NullJSON{}
	}
	return bigquery.NullJSON{JSONVal: string(b), Valid: true}
}

// HoldingRows flattens a canonicalized statement into archive rows, one per
// holding across every account.
func HoldingRows(stmt *domain.FinancialSecurityStatement, documentID, extractionRunID string) []*HoldingRow {
	now := time.Now()
	var rows []*HoldingRow
	for _, acc := range stmt.Accounts {
		accountID := ""
		if acc.AccountInformation != nil {
			accountID = stringValue(acc.AccountInformation.AccountID)
		}
		for i := range acc.Holdings {
			h := &acc.Holdings[i]
			rows = append(rows, &HoldingRow{
				HoldingID:          uuid.NewString(),
				DocumentID:         documentID,
				ExtractionRunID:    extractionRunID,
				AccountID:          accountID,
				SecurityID:         nullString(h.SecurityID),
				SecurityName:       nullString(h.SecurityName),
				SecurityType:       nullString(h.SecurityType),
				Quantity:           nullFloat(h.Quantity),
				Price:              nullFloat(h.Price),
				MarketValue:        nullFloat(h.MarketValue),
				AverageCostPerUnit: nullFloat(h.AverageCostPerUnit),
				Currency:           nullString(h.Currency),
				HoldingDate:        nullDate(h.HoldingDate),
				PriceDate:          nullDate(h.PriceDate),
				CreatedTS:          now,
				Extra:              holdingExtra(h),
			})
		}
	}
	return rows
}

// TransactionRows flattens a canonicalized statement into archive rows, one
// per transaction across every account.
func TransactionRows(stmt *domain.FinancialSecurityStatement, documentID, extractionRunID string) []*TransactionRow {
	now := time.Now()
	var rows []*TransactionRow
	for _, acc := range stmt.Accounts {
		accountID := ""
		if acc.AccountInformation != nil {
			accountID = stringValue(acc.AccountInformation.AccountID)
		}
		for i := range acc.Transactions {
			t := &acc.Transactions[i]
			rows = append(rows, &TransactionRow{
				TransactionID:   uuid.NewString(),
				DocumentID:      documentID,
				ExtractionRunID: extractionRunID,
				AccountID:       accountID,
				TransactionDate: nullDate(t.TransactionDate),
				TransactionType: nullString(t.TransactionType),
				SecurityID:      nullString(t.SecurityID),
				SecurityName:    nullString(t.SecurityName),
				SecurityType:    nullString(t.SecurityType),
				Quantity:        nullFloat(t.Quantity),
				Price:           nullFloat(t.Price),
				NetAmount:       nullFloat(t.NetAmount),
				GrossAmount:     nullFloat(t.GrossAmount),
				Currency:        nullString(t.Currency),
				Counterparty:    nullString(t.Counterparty),
				TransactionRef:  nullString(t.TransactionRef),
				SettlementDate:  nullDate(t.SettlementDate),
				Description:     nullString(t.TransactionDescription),
				CreatedTS:       now,
			})
		}
	}
	return rows
}
