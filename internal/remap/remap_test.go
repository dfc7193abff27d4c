package remap

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// mockMappingService implements MappingService with a canned response.
type mockMappingService struct {
	response string
	err      error
	calls    int
	lastRows []Record
}

func (m *mockMappingService) TransformRecords(ctx context.Context, entityType string, rows []Record, rules string) (string, error) {
	m.calls++
	m.lastRows = rows
	return m.response, m.err
}

func sampleItems() []Record {
	return []Record{
		{RowIDKey: "r1", "security_name": "Apple Inc", "quantity": float64(10)},
		{RowIDKey: "r2", "security_name": "Treasury Bond", "quantity": float64(5)},
	}
}

func TestRemap_EmptyItems(t *testing.T) {
	svc := &mockMappingService{}
	r := &Remapper{Service: svc}

	resp := r.Remap(context.Background(), &Request{EntityType: "holding", MappingPrompt: "rename things"})

	if resp.Fallback {
		t.Error("empty batch is a no-op, not a fallback")
	}
	if resp.Note != "No items to transform." {
		t.Errorf("note = %q", resp.Note)
	}
	if svc.calls != 0 {
		t.Error("service must not be called for an empty batch")
	}
}

func TestRemap_EmptyPrompt(t *testing.T) {
	svc := &mockMappingService{}
	r := &Remapper{Service: svc}
	items := sampleItems()

	resp := r.Remap(context.Background(), &Request{EntityType: "holding", Items: items, MappingPrompt: "   "})

	if !resp.Fallback {
		t.Error("blank prompt should fall back")
	}
	if !reflect.DeepEqual(resp.Data, items) {
		t.Errorf("passthrough data changed: %v", resp.Data)
	}
	if svc.calls != 0 {
		t.Error("service must not be called for a blank prompt")
	}
}

func TestRemap_ServiceError(t *testing.T) {
	svc := &mockMappingService{err: errors.New("model unavailable")}
	r := &Remapper{Service: svc}
	items := sampleItems()

	resp := r.Remap(context.Background(), &Request{EntityType: "holding", Items: items, MappingPrompt: "uppercase names"})

	if !resp.Fallback {
		t.Error("service error should fall back")
	}
	if !reflect.DeepEqual(resp.Data, items) {
		t.Errorf("passthrough must return the original batch unchanged")
	}
	if svc.calls != 1 {
		t.Errorf("service calls = %d, want exactly 1", svc.calls)
	}
}

func TestRemap_NonArrayOutput(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"object instead of array", `{"security_name": "x"}`},
		{"array of scalars", `[1, 2]`},
		{"array with null element", `[{"security_name": "x"}, null]`},
		{"prose", "I cannot help with that"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockMappingService{response: tt.response}
			r := &Remapper{Service: svc}
			items := sampleItems()

			resp := r.Remap(context.Background(), &Request{EntityType: "holding", Items: items, MappingPrompt: "map it"})

			if !resp.Fallback {
				t.Error("malformed output should fall back")
			}
			if !reflect.DeepEqual(resp.Data, items) {
				t.Error("passthrough must return the original batch unchanged")
			}
			if resp.ModelRaw == "" {
				t.Error("raw model output should be surfaced for diagnostics")
			}
		})
	}
}

func TestRemap_RowCountMismatch(t *testing.T) {
	svc := &mockMappingService{response: `[{"security_name": "only one"}]`}
	r := &Remapper{Service: svc}
	items := sampleItems()

	resp := r.Remap(context.Background(), &Request{EntityType: "holding", Items: items, MappingPrompt: "map it"})

	if !resp.Fallback {
		t.Error("changed row count should fall back")
	}
	if !reflect.DeepEqual(resp.Data, items) {
		t.Error("passthrough must return the original batch unchanged")
	}
}

func TestRemap_SectionSuccess(t *testing.T) {
	// Model renames a column and drops the row ids.
	svc := &mockMappingService{response: `[
		{"name": "APPLE INC", "quantity": 10},
		{"name": "TREASURY BOND", "quantity": 5}
	]`}
	r := &Remapper{Service: svc}
	items := sampleItems()

	resp := r.Remap(context.Background(), &Request{EntityType: "holding", Items: items, MappingPrompt: "uppercase names into 'name'"})

	if resp.Fallback {
		t.Fatalf("unexpected fallback: %s", resp.Note)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("got %d rows, want 2", len(resp.Data))
	}
	if resp.Data[0]["name"] != "APPLE INC" {
		t.Errorf("row 0 = %v", resp.Data[0])
	}
	// Dropped row ids are reinjected by position.
	if resp.Data[0][RowIDKey] != "r1" || resp.Data[1][RowIDKey] != "r2" {
		t.Errorf("row ids not reinjected: %v", resp.Data)
	}
}

func TestRemap_RepairableOutput(t *testing.T) {
	svc := &mockMappingService{response: `[{"a": 1}, {"a": 2},]`}
	r := &Remapper{Service: svc}

	resp := r.Remap(context.Background(), &Request{EntityType: "holding", Items: sampleItems(), MappingPrompt: "map"})

	if resp.Fallback {
		t.Errorf("near-JSON output should be repaired, got fallback: %s", resp.Note)
	}
}

func TestRemap_RowScope(t *testing.T) {
	svc := &mockMappingService{response: `[{"security_name": "RENAMED", "quantity": 5}]`}
	r := &Remapper{Service: svc}
	items := sampleItems()

	resp := r.Remap(context.Background(), &Request{
		EntityType:    "holding",
		Items:         items,
		MappingPrompt: "rename this row",
		Scope:         ScopeRow,
		RowID:         "r2",
	})

	if resp.Fallback {
		t.Fatalf("unexpected fallback: %s", resp.Note)
	}
	if len(svc.lastRows) != 1 || svc.lastRows[0][RowIDKey] != "r2" {
		t.Errorf("model should see only the target row, saw %v", svc.lastRows)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("row scope must still return the whole section, got %d rows", len(resp.Data))
	}
	if resp.Data[0]["security_name"] != "Apple Inc" {
		t.Errorf("untargeted row changed: %v", resp.Data[0])
	}
	if resp.Data[1]["security_name"] != "RENAMED" {
		t.Errorf("targeted row not replaced: %v", resp.Data[1])
	}
	if resp.Data[1][RowIDKey] != "r2" {
		t.Errorf("targeted row lost its id: %v", resp.Data[1])
	}
}

func TestRemap_RowScopeGuardrails(t *testing.T) {
	tests := []struct {
		name  string
		rowID string
	}{
		{"missing row id", ""},
		{"unknown row id", "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockMappingService{response: `[]`}
			r := &Remapper{Service: svc}
			items := sampleItems()

			resp := r.Remap(context.Background(), &Request{
				EntityType:    "holding",
				Items:         items,
				MappingPrompt: "map",
				Scope:         ScopeRow,
				RowID:         tt.rowID,
			})

			if !resp.Fallback {
				t.Error("row-scope guardrail should fall back")
			}
			if !reflect.DeepEqual(resp.Data, items) {
				t.Error("passthrough must return the original batch unchanged")
			}
			if svc.calls != 0 {
				t.Error("service must not be called when the target row cannot be resolved")
			}
		})
	}
}

func TestAssignRowIDs(t *testing.T) {
	rows := []Record{
		{"a": 1},
		{RowIDKey: "keep-me", "a": 2},
	}

	out := AssignRowIDs(rows)

	if _, ok := rows[0][RowIDKey]; ok {
		t.Error("input batch must not be mutated")
	}
	if id, ok := out[0][RowIDKey].(string); !ok || id == "" {
		t.Errorf("row 0 should get a generated id, got %v", out[0][RowIDKey])
	}
	if out[1][RowIDKey] != "keep-me" {
		t.Errorf("existing id was replaced: %v", out[1][RowIDKey])
	}
}

func TestIndexByRowID(t *testing.T) {
	rows := sampleItems()
	if got := indexByRowID(rows, "r2"); got != 1 {
		t.Errorf("indexByRowID(r2) = %d, want 1", got)
	}
	if got := indexByRowID(rows, "missing"); got != -1 {
		t.Errorf("indexByRowID(missing) = %d, want -1", got)
	}
}
