package remap

import (
	"testing"

	"github.com/dvloznov/statement-normalizer/internal/domain"
)

func TestHoldingRecords(t *testing.T) {
	name := "Apple Inc"
	price := 170.5
	isin := "US0378331005"
	holdings := []domain.Holding{
		{SecurityID: &isin, SecurityName: &name, Price: &price},
	}

	rows, err := HoldingRecords(holdings)
	if err != nil {
		t.Fatalf("HoldingRecords failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows", len(rows))
	}

	r := rows[0]
	if r["security_name"] != "Apple Inc" {
		t.Errorf("security_name = %v", r["security_name"])
	}
	// The wire-level price field is folded into the view's unit_price.
	if r["unit_price"] != float64(170.5) {
		t.Errorf("unit_price = %v", r["unit_price"])
	}
	if _, ok := r["price"]; ok {
		t.Error("alias key price should not survive the view")
	}
	if id, ok := r[RowIDKey].(string); !ok || id == "" {
		t.Errorf("row id missing: %v", r[RowIDKey])
	}
}

func TestTransactionRecords(t *testing.T) {
	date := "2024-03-15"
	amount := 1705.0
	security := "Apple Inc"
	transactions := []domain.Transaction{
		{TransactionDate: &date, NetAmount: &amount, SecurityName: &security},
	}

	rows, err := TransactionRecords(transactions)
	if err != nil {
		t.Fatalf("TransactionRecords failed: %v", err)
	}

	r := rows[0]
	if r["date"] != "2024-03-15" || r["amount"] != float64(1705) || r["description"] != "Apple Inc" {
		t.Errorf("view row = %v", r)
	}
	for _, alias := range []string{"transaction_date", "net_amount", "security_name"} {
		if _, ok := r[alias]; ok {
			t.Errorf("alias key %q should not survive the view", alias)
		}
	}
}
