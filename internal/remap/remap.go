// Package remap applies user-supplied free-text mapping instructions to a
// batch of holding or transaction records via the model, enforcing a
// fallback-safety contract: whatever goes wrong, the caller gets the
// original batch back unchanged, never an error.
package remap

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"github.com/google/uuid"
)

// RowIDKey is the per-row identifier carried through the model round trip
// so the caller can align transformed rows with the originals. It is
// stripped again before export.
const RowIDKey = "_row_id"

// Record is one loosely-typed holding or transaction row.
type Record = map[string]interface{}

// Scope values for a remap request.
const (
	ScopeSection = "section"
	ScopeRow     = "row"
)

// Request is one user-initiated remap of a section or a single row.
type Request struct {
	Issuer        string
	EntityType    string // "holding" or "transaction"
	Items         []Record
	MappingPrompt string
	Scope         string // ScopeSection (default) or ScopeRow
	RowID         string // required when Scope == ScopeRow
}

// Response always carries the full final section array so the caller can
// render it directly. Fallback=true means the original items came back
// unchanged, with Note explaining why.
type Response struct {
	Data     []Record `json:"data"`
	Fallback bool     `json:"fallback"`
	Note     string   `json:"note,omitempty"`
	ModelRaw string   `json:"model_raw,omitempty"`
}

// MappingService is the external model call that interprets the mapping
// instructions. It returns the raw model text; the Remapper owns parsing
// and all guardrails.
type MappingService interface {
	TransformRecords(ctx context.Context, entityType string, rows []Record, rules string) (string, error)
}

// Remapper enforces the fallback contract around a MappingService.
// Exactly one service call per request; any failure is folded into a
// passthrough response.
type Remapper struct {
	Service MappingService
}

// Remap transforms req.Items per req.MappingPrompt. It never returns an
// error: degraded outcomes are reported through Response.Fallback.
func (r *Remapper) Remap(ctx context.Context, req *Request) *Response {
	if len(req.Items) == 0 {
		return &Response{Data: req.Items, Fallback: false, Note: "No items to transform."}
	}

	modelRows := req.Items
	targetIdx := -1
	if req.Scope == ScopeRow {
		if req.RowID == "" {
			return passthrough(req.Items, "scope='row' requested but row id missing; passthrough.", "")
		}
		targetIdx = indexByRowID(req.Items, req.RowID)
		if targetIdx < 0 {
			return passthrough(req.Items, "row id not found; passthrough.", "")
		}
		modelRows = []Record{req.Items[targetIdx]}
	}

	rules := strings.TrimSpace(req.MappingPrompt)
	if rules == "" {
		return passthrough(req.Items, "Empty mapping prompt; passthrough.", "")
	}

	raw, err := r.Service.TransformRecords(ctx, req.EntityType, modelRows, rules)
	if err != nil {
		return passthrough(req.Items, fmt.Sprintf("Mapping service error, passthrough. %v", err), "")
	}

	parsed, ok := decodeRecordArray(raw)
	if !ok {
		return passthrough(req.Items, "Model did not return a JSON array of objects; passthrough.", raw)
	}
	if len(parsed) != len(modelRows) {
		return passthrough(req.Items, "Model changed row count; passthrough.", raw)
	}

	parsed = reinjectRowIDs(modelRows, parsed)

	var final []Record
	if req.Scope == ScopeRow {
		final = cloneRecords(req.Items)
		final[targetIdx] = parsed[0]
		final = reinjectRowIDs(req.Items, final)
	} else {
		final = reinjectRowIDs(req.Items, parsed)
	}

	return &Response{Data: final, Fallback: false}
}

func passthrough(items []Record, note, raw string) *Response {
	resp := &Response{Data: items, Fallback: true, Note: note}
	if raw != "" {
		resp.ModelRaw = truncate(raw, 1200)
	}
	return resp
}

// decodeRecordArray parses the model output into a slice of objects. A
// single repair attempt is made for near-JSON output; anything that still
// is not an array of objects fails the guardrail.
func decodeRecordArray(raw string) ([]Record, bool) {
	var parsed []Record
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
		return parsed, allObjects(parsed)
	}
	repaired, err := jsonrepair.RepairJSON(raw)
	if err != nil {
		return nil, false
	}
	if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
		return nil, false
	}
	return parsed, allObjects(parsed)
}

// allObjects reports whether the decoded array exists and every element is
// an object. A JSON null element decodes to a nil map and must not slip
// through as an empty record.
func allObjects(rows []Record) bool {
	if rows == nil {
		return false
	}
	for _, r := range rows {
		if r == nil {
			return false
		}
	}
	return true
}

// reinjectRowIDs puts the row identifier back by index wherever the model
// dropped it.
func reinjectRowIDs(original, transformed []Record) []Record {
	out := make([]Record, 0, len(transformed))
	for i, row := range transformed {
		r := cloneRecord(row)
		if i < len(original) {
			if id, has := original[i][RowIDKey]; has {
				if _, kept := r[RowIDKey]; !kept {
					r[RowIDKey] = id
				}
			}
		}
		out = append(out, r)
	}
	return out
}

// AssignRowIDs gives every record a row identifier, generating one where
// missing. Applied before the batch is handed to the UI or the model.
func AssignRowIDs(rows []Record) []Record {
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		r := cloneRecord(row)
		if _, has := r[RowIDKey]; !has {
			r[RowIDKey] = uuid.NewString()
		}
		out = append(out, r)
	}
	return out
}

func indexByRowID(rows []Record, id string) int {
	for i, row := range rows {
		if v, ok := row[RowIDKey].(string); ok && v == id {
			return i
		}
	}
	return -1
}

func cloneRecord(row Record) Record {
	r := make(Record, len(row))
	for k, v := range row {
		r[k] = v
	}
	return r
}

func cloneRecords(rows []Record) []Record {
	out := make([]Record, len(rows))
	copy(out, rows)
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
