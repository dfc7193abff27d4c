package notionsync

import (
	"time"

	"cloud.google.com/go/bigquery"
	infra "github.com/dvloznov/statement-normalizer/internal/infra/bigquery"
	"github.com/jomei/notionapi"
)

// HoldingToNotionProperties converts an archived HoldingRow to Notion
// properties. The Holding ID title is the idempotency key for syncs.
func HoldingToNotionProperties(h *infra.HoldingRow) notionapi.Properties {
	props := notionapi.Properties{
		"Holding ID": titleProp(h.HoldingID),
	}

	if h.SecurityName.Valid {
		props["Security"] = richTextProp(h.SecurityName.StringVal)
	}
	if h.SecurityID.Valid {
		props["Security ID"] = richTextProp(h.SecurityID.StringVal)
	}
	if h.SecurityType.Valid {
		props["Security Type"] = selectProp(h.SecurityType.StringVal)
	}
	if h.Quantity.Valid {
		props["Quantity"] = numberProp(h.Quantity.Float64)
	}
	if h.Price.Valid {
		props["Unit Price"] = numberProp(h.Price.Float64)
	}
	if h.MarketValue.Valid {
		props["Market Value"] = numberProp(h.MarketValue.Float64)
	}
	if h.Currency.Valid {
		props["Currency"] = selectProp(h.Currency.StringVal)
	}
	if h.HoldingDate.Valid {
		props["Holding Date"] = dateProp(h.HoldingDate)
	}
	if h.AccountID != "" {
		props["Account"] = richTextProp(h.AccountID)
	}

	return props
}

// TransactionToNotionProperties converts an archived TransactionRow to
// Notion properties. The Transaction ID title is the idempotency key.
func TransactionToNotionProperties(t *infra.TransactionRow) notionapi.Properties {
	props := notionapi.Properties{
		"Transaction ID": titleProp(t.TransactionID),
	}

	if t.TransactionDate.Valid {
		props["Date"] = dateProp(t.TransactionDate)
	}
	if t.TransactionType.Valid {
		props["Type"] = selectProp(t.TransactionType.StringVal)
	}
	if t.SecurityName.Valid {
		props["Security"] = richTextProp(t.SecurityName.StringVal)
	}
	if t.SecurityID.Valid {
		props["Security ID"] = richTextProp(t.SecurityID.StringVal)
	}
	if t.Quantity.Valid {
		props["Quantity"] = numberProp(t.Quantity.Float64)
	}
	if t.NetAmount.Valid {
		props["Net Amount"] = numberProp(t.NetAmount.Float64)
	}
	if t.GrossAmount.Valid {
		props["Gross Amount"] = numberProp(t.GrossAmount.Float64)
	}
	if t.Currency.Valid {
		props["Currency"] = selectProp(t.Currency.StringVal)
	}
	if t.Description.Valid {
		props["Description"] = richTextProp(t.Description.StringVal)
	}
	if t.AccountID != "" {
		props["Account"] = richTextProp(t.AccountID)
	}

	return props
}

func titleProp(s string) notionapi.TitleProperty {
	return notionapi.TitleProperty{
		Title: []notionapi.RichText{
			{
				Type: notionapi.ObjectTypeText,
				Text: &notionapi.Text{Content: s},
			},
		},
	}
}

func richTextProp(s string) notionapi.RichTextProperty {
	return notionapi.RichTextProperty{
		RichText: []notionapi.RichText{
			{
				Type: notionapi.ObjectTypeText,
				Text: &notionapi.Text{Content: s},
			},
		},
	}
}

func selectProp(s string) notionapi.SelectProperty {
	return notionapi.SelectProperty{
		Select: notionapi.Option{Name: s},
	}
}

func numberProp(f float64) notionapi.NumberProperty {
	return notionapi.NumberProperty{Number: f}
}

func dateProp(d bigquery.NullDate) notionapi.DateProperty {
	nd := notionapi.Date(time.Date(
		d.Date.Year,
		time.Month(d.Date.Month),
		d.Date.Day,
		0, 0, 0, 0, time.UTC,
	))
	return notionapi.DateProperty{
		Date: &notionapi.DateObject{Start: &nd},
	}
}
