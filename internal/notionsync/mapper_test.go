package notionsync

import (
	"testing"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	infra "github.com/dvloznov/statement-normalizer/internal/infra/bigquery"
	"github.com/jomei/notionapi"
)

func TestHoldingToNotionProperties(t *testing.T) {
	row := &infra.HoldingRow{
		HoldingID:    "hold-1",
		AccountID:    "ACC-1",
		SecurityName: bigquery.NullString{StringVal: "Apple Inc", Valid: true},
		SecurityType: bigquery.NullString{StringVal: "Stock", Valid: true},
		Quantity:     bigquery.NullFloat64{Float64: 10, Valid: true},
		MarketValue:  bigquery.NullFloat64{Float64: 1705, Valid: true},
		HoldingDate:  bigquery.NullDate{Date: civil.Date{Year: 2024, Month: 3, Day: 31}, Valid: true},
	}

	props := HoldingToNotionProperties(row)

	title, ok := props["Holding ID"].(notionapi.TitleProperty)
	if !ok || title.Title[0].Text.Content != "hold-1" {
		t.Errorf("Holding ID = %+v", props["Holding ID"])
	}
	security, ok := props["Security"].(notionapi.RichTextProperty)
	if !ok || security.RichText[0].Text.Content != "Apple Inc" {
		t.Errorf("Security = %+v", props["Security"])
	}
	secType, ok := props["Security Type"].(notionapi.SelectProperty)
	if !ok || secType.Select.Name != "Stock" {
		t.Errorf("Security Type = %+v", props["Security Type"])
	}
	qty, ok := props["Quantity"].(notionapi.NumberProperty)
	if !ok || qty.Number != 10 {
		t.Errorf("Quantity = %+v", props["Quantity"])
	}
	if _, ok := props["Holding Date"].(notionapi.DateProperty); !ok {
		t.Errorf("Holding Date = %+v", props["Holding Date"])
	}

	// NULL columns do not produce properties.
	if _, ok := props["Unit Price"]; ok {
		t.Error("NULL price should not map to a property")
	}
	if _, ok := props["Currency"]; ok {
		t.Error("NULL currency should not map to a property")
	}
}

func TestTransactionToNotionProperties(t *testing.T) {
	row := &infra.TransactionRow{
		TransactionID:   "txn-1",
		TransactionDate: bigquery.NullDate{Date: civil.Date{Year: 2024, Month: 3, Day: 15}, Valid: true},
		TransactionType: bigquery.NullString{StringVal: "Buy", Valid: true},
		NetAmount:       bigquery.NullFloat64{Float64: 1705, Valid: true},
		Description:     bigquery.NullString{StringVal: "Market buy", Valid: true},
	}

	props := TransactionToNotionProperties(row)

	title, ok := props["Transaction ID"].(notionapi.TitleProperty)
	if !ok || title.Title[0].Text.Content != "txn-1" {
		t.Errorf("Transaction ID = %+v", props["Transaction ID"])
	}
	txnType, ok := props["Type"].(notionapi.SelectProperty)
	if !ok || txnType.Select.Name != "Buy" {
		t.Errorf("Type = %+v", props["Type"])
	}
	amount, ok := props["Net Amount"].(notionapi.NumberProperty)
	if !ok || amount.Number != 1705 {
		t.Errorf("Net Amount = %+v", props["Net Amount"])
	}
	desc, ok := props["Description"].(notionapi.RichTextProperty)
	if !ok || desc.RichText[0].Text.Content != "Market buy" {
		t.Errorf("Description = %+v", props["Description"])
	}
	if _, ok := props["Account"]; ok {
		t.Error("empty account_id should not map to a property")
	}
}
