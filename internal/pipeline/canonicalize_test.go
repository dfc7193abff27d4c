package pipeline

import (
	"testing"

	"github.com/dvloznov/statement-normalizer/internal/domain"
)

func floatPtr(f float64) *float64 { return &f }

func TestCanonicalize_AbsoluteValues(t *testing.T) {
	stmt := &domain.FinancialSecurityStatement{
		StatementMetadata: domain.StatementMetadata{
			StatementDate: strPtr("31/03/2024"),
		},
		Accounts: []domain.Account{
			{
				Holdings: []domain.Holding{
					{
						SecurityName:       strPtr("ACME Corp"),
						Quantity:           floatPtr(-100),
						Price:              floatPtr(-12.5),
						MarketValue:        floatPtr(-1250),
						UnrealizedGainLoss: floatPtr(-75.25),
					},
				},
				Transactions: []domain.Transaction{
					{
						TransactionDate: strPtr("01/03/2024"),
						NetAmount:       floatPtr(-500),
						GrossAmount:     floatPtr(-510),
						Quantity:        floatPtr(-40),
					},
				},
				Orders: []domain.Order{
					{
						OrderDate: strPtr("02/03/2024"),
						NetAmount: floatPtr(-99),
					},
				},
			},
		},
	}

	got := Canonicalize(stmt)

	if *got.StatementMetadata.StatementDate != "2024-03-31" {
		t.Errorf("statement_date = %q, want 2024-03-31", *got.StatementMetadata.StatementDate)
	}

	h := got.Accounts[0].Holdings[0]
	if *h.Quantity != 100 || *h.Price != 12.5 || *h.MarketValue != 1250 || *h.UnrealizedGainLoss != 75.25 {
		t.Errorf("holding amounts not absolute: %+v", h)
	}

	txn := got.Accounts[0].Transactions[0]
	if *txn.NetAmount != 500 || *txn.GrossAmount != 510 || *txn.Quantity != 40 {
		t.Errorf("transaction amounts not absolute: %+v", txn)
	}
	if *txn.TransactionDate != "2024-03-01" {
		t.Errorf("transaction_date = %q, want 2024-03-01", *txn.TransactionDate)
	}

	ord := got.Accounts[0].Orders[0]
	if *ord.NetAmount != 99 {
		t.Errorf("order net_amount = %v, want 99", *ord.NetAmount)
	}
	if *ord.OrderDate != "2024-03-02" {
		t.Errorf("order_date = %q, want 2024-03-02", *ord.OrderDate)
	}
}

func TestCanonicalize_HoldingDateFallback(t *testing.T) {
	stmt := &domain.FinancialSecurityStatement{
		StatementMetadata: domain.StatementMetadata{
			StatementDate: strPtr("31/03/2024"),
		},
		Accounts: []domain.Account{
			{
				Holdings: []domain.Holding{
					{SecurityName: strPtr("Has own date"), HoldingDate: strPtr("15/03/2024")},
					{SecurityName: strPtr("Inherits"), HoldingDate: nil},
					{SecurityName: strPtr("No price date"), PriceDate: nil},
				},
			},
		},
	}

	got := Canonicalize(stmt)
	holdings := got.Accounts[0].Holdings

	if *holdings[0].HoldingDate != "2024-03-15" {
		t.Errorf("own holding_date = %q, want 2024-03-15", *holdings[0].HoldingDate)
	}
	if holdings[1].HoldingDate == nil || *holdings[1].HoldingDate != "2024-03-31" {
		t.Errorf("missing holding_date should inherit statement date, got %v", holdings[1].HoldingDate)
	}
	if holdings[2].PriceDate != nil {
		t.Errorf("price_date has no fallback, got %v", *holdings[2].PriceDate)
	}
}

func TestCanonicalize_DropsPlaceholderHoldings(t *testing.T) {
	stmt := &domain.FinancialSecurityStatement{
		StatementMetadata: domain.StatementMetadata{
			StatementDate: strPtr("2024-03-31"),
		},
		Accounts: []domain.Account{
			{
				Holdings: []domain.Holding{
					{SecurityName: strPtr("Kept"), Quantity: floatPtr(10)},
					{},
					{SecurityName: strPtr("   ")},
					{HoldingDate: strPtr("31/03/2024"), Currency: strPtr("USD")},
					{Quantity: floatPtr(5)},
				},
			},
		},
	}

	got := Canonicalize(stmt)
	holdings := got.Accounts[0].Holdings

	if len(holdings) != 2 {
		t.Fatalf("got %d holdings, want 2: %+v", len(holdings), holdings)
	}
	if *holdings[0].SecurityName != "Kept" {
		t.Errorf("first kept holding = %+v", holdings[0])
	}
	if holdings[1].Quantity == nil || *holdings[1].Quantity != 5 {
		t.Errorf("quantity-only holding should survive, got %+v", holdings[1])
	}
}

func TestResolveCrossReferences(t *testing.T) {
	interest := domain.TransactionTypeInterest
	coupon := domain.TransactionTypeCoupon
	buy := "Buy"
	stock := domain.SecurityTypeStock

	acc := &domain.Account{
		Holdings: []domain.Holding{
			{
				SecurityID:   strPtr("INE001A01036"),
				SecurityName: strPtr("  Treasury   Bond 2030 "),
				SecurityType: strPtr(domain.SecurityTypeBond),
			},
			{
				SecurityID:   strPtr("US0378331005"),
				SecurityName: strPtr("Apple Inc"),
				SecurityType: strPtr(stock),
			},
		},
		Transactions: []domain.Transaction{
			{TransactionType: &interest, SecurityName: strPtr("treasury bond 2030")},
			{TransactionType: &coupon, SecurityName: strPtr("Unknown Issuer Ltd")},
			{TransactionType: &buy, SecurityName: strPtr("Treasury Bond 2030")},
			{TransactionType: nil, SecurityName: strPtr("Treasury Bond 2030")},
			{
				TransactionType: &interest,
				SecurityName:    strPtr("Treasury Bond 2030"),
				SecurityID:      strPtr("EXISTING"),
				SecurityType:    strPtr(stock),
			},
		},
	}

	resolveCrossReferences(acc)

	txns := acc.Transactions

	// Interest matched by normalized name inherits the holding's id.
	if txns[0].SecurityID == nil || *txns[0].SecurityID != "INE001A01036" {
		t.Errorf("matched interest security_id = %v, want INE001A01036", txns[0].SecurityID)
	}
	if txns[0].SecurityType == nil || *txns[0].SecurityType != domain.SecurityTypeBond {
		t.Errorf("matched interest security_type = %v, want Bond", txns[0].SecurityType)
	}

	// Unmatched coupon keeps nil id but still defaults to Bond.
	if txns[1].SecurityID != nil {
		t.Errorf("unmatched coupon security_id = %v, want nil", *txns[1].SecurityID)
	}
	if txns[1].SecurityType == nil || *txns[1].SecurityType != domain.SecurityTypeBond {
		t.Errorf("unmatched coupon security_type = %v, want Bond", txns[1].SecurityType)
	}

	// Non-income types are untouched.
	if txns[2].SecurityID != nil || txns[2].SecurityType != nil {
		t.Errorf("Buy transaction was modified: %+v", txns[2])
	}
	if txns[3].SecurityID != nil || txns[3].SecurityType != nil {
		t.Errorf("typeless transaction was modified: %+v", txns[3])
	}

	// Pre-populated fields are never overwritten.
	if *txns[4].SecurityID != "EXISTING" || *txns[4].SecurityType != stock {
		t.Errorf("pre-populated transaction was overwritten: %+v", txns[4])
	}
}

func TestNormalizeSecurityName(t *testing.T) {
	tests := []struct {
		input *string
		want  string
	}{
		{nil, ""},
		{strPtr(""), ""},
		{strPtr("   "), ""},
		{strPtr("Treasury Bond"), "treasury bond"},
		{strPtr("  Treasury   BOND  2030 "), "treasury bond 2030"},
	}
	for _, tt := range tests {
		if got := normalizeSecurityName(tt.input); got != tt.want {
			t.Errorf("normalizeSecurityName(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestAbsFloat(t *testing.T) {
	if absFloat(nil) != nil {
		t.Error("absFloat(nil) should be nil")
	}
	if got := absFloat(floatPtr(-3.5)); *got != 3.5 {
		t.Errorf("absFloat(-3.5) = %v, want 3.5", *got)
	}
	if got := absFloat(floatPtr(3.5)); *got != 3.5 {
		t.Errorf("absFloat(3.5) = %v, want 3.5", *got)
	}
	if got := absFloat(floatPtr(0)); *got != 0 {
		t.Errorf("absFloat(0) = %v, want 0", *got)
	}
}
