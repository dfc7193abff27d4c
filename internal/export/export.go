// Package export computes deterministic column orderings for holding and
// transaction batches and serializes them as pretty JSON or CSV. All
// functions are pure; the input batch is never mutated.
package export

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dvloznov/statement-normalizer/internal/remap"
)

// Base column orderings per entity kind. Columns absent from the first
// record are dropped; keys outside the base set are appended in
// first-seen order across the batch.
var (
	holdingBaseColumns = []string{
		"security_name", "quantity", "unit_price", "market_value",
		"currency", "security_type", "isin",
	}
	transactionBaseColumns = []string{
		"date", "type", "description", "amount", "currency",
	}
)

func baseColumns(entityType string) []string {
	if entityType == "holding" {
		return holdingBaseColumns
	}
	return transactionBaseColumns
}

// Columns returns the ordered export columns for a batch. The row
// identifier field is never exported.
func Columns(entityType string, rows []remap.Record) []string {
	if len(rows) == 0 {
		return nil
	}

	base := baseColumns(entityType)
	inBase := make(map[string]bool, len(base))
	for _, c := range base {
		inBase[c] = true
	}

	first := rows[0]
	var cols []string
	for _, c := range base {
		if _, ok := first[c]; ok {
			cols = append(cols, c)
		}
	}

	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		seen[c] = true
	}
	for _, row := range rows {
		for _, k := range sortedKeysInInsertionOrder(row) {
			if k == remap.RowIDKey || inBase[k] || seen[k] {
				continue
			}
			seen[k] = true
			cols = append(cols, k)
		}
	}
	return cols
}

// sortedKeysInInsertionOrder returns a record's keys in a stable order.
// Go maps do not preserve insertion order, so keys are sorted
// lexicographically; "first-seen" then means first row in which the key
// appears.
func sortedKeysInInsertionOrder(row remap.Record) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}

// JSON renders the batch as pretty-printed JSON, one record per array
// element, with the row identifier stripped.
func JSON(rows []remap.Record) ([]byte, error) {
	cleaned := stripRowIDs(rows)
	out, err := json.MarshalIndent(cleaned, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: encoding JSON: %w", err)
	}
	return out, nil
}

// CSV renders the batch as delimited text with RFC-4180 quoting. Null and
// missing values render as empty string.
func CSV(entityType string, rows []remap.Record) string {
	cols := Columns(entityType, rows)
	if len(cols) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(strings.Join(cols, ","))
	for _, row := range rows {
		b.WriteByte('\n')
		for i, c := range cols {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escapeCSV(cellString(row[c])))
		}
	}
	return b.String()
}

func stripRowIDs(rows []remap.Record) []remap.Record {
	out := make([]remap.Record, 0, len(rows))
	for _, row := range rows {
		r := make(remap.Record, len(row))
		for k, v := range row {
			if k == remap.RowIDKey {
				continue
			}
			r[k] = v
		}
		out = append(out, r)
	}
	return out
}

// cellString formats a single cell. Floats print without exponent or
// trailing zeros so 1500.0 exports as "1500".
func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// escapeCSV wraps fields containing comma, quote or newline in quotes,
// doubling internal quotes.
func escapeCSV(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
