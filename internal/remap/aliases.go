package remap

// Alias resolution is the single place legacy field names are read. The
// canonical key wins when both are present; alias keys are deleted so the
// remapped view never carries two columns for the same concept.

// ResolveHoldingAliases folds legacy holding keys into their canonical
// counterparts: unit_price ?? price, isin ?? cusip ?? isin_code,
// security_type ?? asset_class.
func ResolveHoldingAliases(rows []Record) []Record {
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		r := cloneRecord(row)
		r["unit_price"] = firstPresent(r, "unit_price", "price")
		r["isin"] = firstPresent(r, "isin", "cusip", "isin_code")
		r["security_type"] = firstPresent(r, "security_type", "asset_class")
		delete(r, "price")
		delete(r, "cusip")
		delete(r, "isin_code")
		delete(r, "asset_class")
		out = append(out, r)
	}
	return out
}

// ResolveTransactionAliases folds legacy transaction keys into their
// canonical counterparts: date ?? transaction_date, amount ?? net_amount,
// description ?? security_name.
func ResolveTransactionAliases(rows []Record) []Record {
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		r := cloneRecord(row)
		r["date"] = firstPresent(r, "date", "transaction_date")
		r["amount"] = firstPresent(r, "amount", "net_amount")
		r["description"] = firstPresent(r, "description", "security_name")
		delete(r, "transaction_date")
		delete(r, "net_amount")
		delete(r, "security_name")
		out = append(out, r)
	}
	return out
}

// ResolveAliases dispatches on entity kind. Unknown kinds pass through
// untouched.
func ResolveAliases(entityType string, rows []Record) []Record {
	switch entityType {
	case "holding":
		return ResolveHoldingAliases(rows)
	case "transaction":
		return ResolveTransactionAliases(rows)
	default:
		return rows
	}
}

// firstPresent returns the first non-nil value among the given keys, or
// nil when every candidate is absent or null.
func firstPresent(r Record, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v
		}
	}
	return nil
}
