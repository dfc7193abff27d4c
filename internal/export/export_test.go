package export

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/dvloznov/statement-normalizer/internal/remap"
)

func TestColumns_FirstRecordFiltersBase(t *testing.T) {
	rows := []remap.Record{
		{remap.RowIDKey: "r1", "date": "2024-03-15", "type": "Buy", "amount": float64(100), "extra_field": "x"},
	}

	got := Columns("transaction", rows)
	want := []string{"date", "type", "amount", "extra_field"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Columns() = %v, want %v", got, want)
	}
}

func TestColumns_ExtrasFirstSeenAcrossBatch(t *testing.T) {
	rows := []remap.Record{
		{"date": "2024-03-15", "amount": float64(1)},
		{"date": "2024-03-16", "amount": float64(2), "broker_note": "n"},
		{"date": "2024-03-17", "amount": float64(3), "audit_flag": true},
	}

	got := Columns("transaction", rows)
	want := []string{"date", "amount", "broker_note", "audit_flag"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Columns() = %v, want %v", got, want)
	}
}

func TestColumns_HoldingBaseOrder(t *testing.T) {
	rows := []remap.Record{
		{
			"isin":          "US0378331005",
			"security_name": "Apple Inc",
			"quantity":      float64(10),
			"unit_price":    float64(170.5),
			"market_value":  float64(1705),
			"currency":      "USD",
			"security_type": "Stock",
		},
	}

	got := Columns("holding", rows)
	want := []string{"security_name", "quantity", "unit_price", "market_value", "currency", "security_type", "isin"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Columns() = %v, want %v", got, want)
	}
}

func TestColumns_EmptyBatch(t *testing.T) {
	if got := Columns("holding", nil); got != nil {
		t.Errorf("Columns(empty) = %v, want nil", got)
	}
}

func TestCSV(t *testing.T) {
	rows := []remap.Record{
		{remap.RowIDKey: "r1", "date": "2024-03-15", "type": "Buy", "amount": float64(1500.0), "description": "plain"},
		{remap.RowIDKey: "r2", "date": "2024-03-16", "type": "Sell", "amount": float64(0.5), "description": `has "quotes", commas`},
		{remap.RowIDKey: "r3", "date": "2024-03-17", "type": nil, "amount": nil, "description": "line\nbreak"},
	}

	got := CSV("transaction", rows)
	lines := strings.SplitN(got, "\n", 2)

	if lines[0] != "date,type,description,amount" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(got, "2024-03-15,Buy,plain,1500") {
		t.Errorf("float should render without trailing zeros:\n%s", got)
	}
	if !strings.Contains(got, `"has ""quotes"", commas"`) {
		t.Errorf("quoting not applied:\n%s", got)
	}
	if !strings.Contains(got, "\"line\nbreak\"") {
		t.Errorf("newline cell not quoted:\n%s", got)
	}
	if !strings.Contains(got, "2024-03-17,,") {
		t.Errorf("null cells should render empty:\n%s", got)
	}
	if strings.Contains(got, "r1") || strings.Contains(got, remap.RowIDKey) {
		t.Errorf("row ids leaked into CSV:\n%s", got)
	}
}

func TestCSV_EmptyBatch(t *testing.T) {
	if got := CSV("transaction", nil); got != "" {
		t.Errorf("CSV(empty) = %q, want empty", got)
	}
}

func TestJSON(t *testing.T) {
	rows := []remap.Record{
		{remap.RowIDKey: "r1", "security_name": "Apple Inc", "quantity": float64(10)},
	}

	out, err := JSON(rows)
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}

	if !strings.Contains(string(out), "\n  ") {
		t.Error("output should be pretty-printed with two-space indent")
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("got %d records", len(decoded))
	}
	if _, ok := decoded[0][remap.RowIDKey]; ok {
		t.Error("row id leaked into JSON export")
	}
	if decoded[0]["security_name"] != "Apple Inc" {
		t.Errorf("record = %v", decoded[0])
	}

	// The input batch keeps its row ids.
	if _, ok := rows[0][remap.RowIDKey]; !ok {
		t.Error("input batch was mutated")
	}
}
