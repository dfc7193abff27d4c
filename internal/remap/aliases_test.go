package remap

import "testing"

func TestResolveHoldingAliases(t *testing.T) {
	rows := []Record{
		{
			"security_name": "Apple Inc",
			"price":         float64(170.5),
			"cusip":         "037833100",
			"asset_class":   "Stock",
		},
		{
			"security_name": "Both present",
			"unit_price":    float64(1),
			"price":         float64(2),
			"isin":          "ISIN-WINS",
			"isin_code":     "ISIN-LOSES",
		},
		{
			"security_name": "Nothing to fold",
		},
	}

	out := ResolveHoldingAliases(rows)

	if out[0]["unit_price"] != float64(170.5) {
		t.Errorf("price should fold into unit_price, got %v", out[0]["unit_price"])
	}
	if out[0]["isin"] != "037833100" {
		t.Errorf("cusip should fold into isin, got %v", out[0]["isin"])
	}
	if out[0]["security_type"] != "Stock" {
		t.Errorf("asset_class should fold into security_type, got %v", out[0]["security_type"])
	}
	for _, alias := range []string{"price", "cusip", "isin_code", "asset_class"} {
		if _, ok := out[0][alias]; ok {
			t.Errorf("alias key %q should be deleted", alias)
		}
	}

	// Canonical keys win when both are present.
	if out[1]["unit_price"] != float64(1) {
		t.Errorf("canonical unit_price should win, got %v", out[1]["unit_price"])
	}
	if out[1]["isin"] != "ISIN-WINS" {
		t.Errorf("canonical isin should win, got %v", out[1]["isin"])
	}

	if out[2]["unit_price"] != nil {
		t.Errorf("absent aliases resolve to nil, got %v", out[2]["unit_price"])
	}

	// Input rows are never mutated.
	if _, ok := rows[0]["unit_price"]; ok {
		t.Error("input batch was mutated")
	}
}

func TestResolveTransactionAliases(t *testing.T) {
	rows := []Record{
		{
			"transaction_date": "2024-03-15",
			"net_amount":       float64(1705),
			"security_name":    "Apple Inc",
		},
		{
			"date":   "2024-03-16",
			"amount": float64(5),
			"description": "explicit wins",
			"transaction_date": "1999-01-01",
			"net_amount":       float64(999),
			"security_name":    "ignored",
		},
	}

	out := ResolveTransactionAliases(rows)

	if out[0]["date"] != "2024-03-15" || out[0]["amount"] != float64(1705) || out[0]["description"] != "Apple Inc" {
		t.Errorf("aliases not folded: %v", out[0])
	}
	for _, alias := range []string{"transaction_date", "net_amount", "security_name"} {
		if _, ok := out[0][alias]; ok {
			t.Errorf("alias key %q should be deleted", alias)
		}
	}

	if out[1]["date"] != "2024-03-16" || out[1]["amount"] != float64(5) || out[1]["description"] != "explicit wins" {
		t.Errorf("canonical keys should win: %v", out[1])
	}
}

func TestResolveAliases_Dispatch(t *testing.T) {
	rows := []Record{{"price": float64(1)}}

	holding := ResolveAliases("holding", rows)
	if _, ok := holding[0]["unit_price"]; !ok {
		t.Error("holding dispatch did not resolve aliases")
	}

	unknown := ResolveAliases("order", rows)
	if _, ok := unknown[0]["price"]; !ok {
		t.Error("unknown entity type should pass through untouched")
	}
}
