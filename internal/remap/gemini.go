package remap

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dvloznov/statement-normalizer/internal/pipeline"
	"google.golang.org/genai"
)

const transformSystemPrompt = `You are a precise JSON transformer.

You will receive:
- INPUT_ROWS: a JSON array of row objects (each may include a special field "_row_id")
- MAPPING_RULES: user instructions for renaming keys, changing values, switching keys/values,
  or fixing specific rows (e.g., "if description contains X set type=Y").

Rules:
1) Work ONLY with INPUT_ROWS. Do NOT add or remove rows; keep array length identical.
2) If a value is not present in the input, set it to null unless a rule specifies a literal constant.
3) Preserve the special field "_row_id" per row EXACTLY so the client can align rows.
4) Keep numbers as numbers and dates as strings (YYYY-MM-DD) if present.
5) If MAPPING_RULES are unclear, contradictory, or require inventing data, return INPUT_ROWS unchanged.
6) Output ONLY a JSON array of objects (no wrapper object, no comments, no extra text).`

// GeminiMappingService interprets mapping instructions with Gemini. It
// only performs the call; the Remapper owns the guardrails.
type GeminiMappingService struct {
	Model string // empty means pipeline.DefaultModelName
}

var _ MappingService = (*GeminiMappingService)(nil)

// TransformRecords sends the rows and instructions to the model and
// returns the raw response text.
func (s *GeminiMappingService) TransformRecords(ctx context.Context, entityType string, rows []Record, rules string) (string, error) {
	model := s.Model
	if model == "" {
		model = pipeline.DefaultModelName
	}

	rowsJSON, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("TransformRecords: encoding rows: %w", err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("TransformRecords: create genai client: %w", err)
	}

	prompt := fmt.Sprintf("%s\n\nEntity type: %s\n\nMAPPING_RULES:\n%s\n\nINPUT_ROWS:\n%s",
		transformSystemPrompt, entityType, rules, rowsJSON)

	contents := []*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: prompt}}}}
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0)),
		ResponseMIMEType: "application/json",
	}

	resp, err := client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return "", &pipeline.ExternalServiceError{Service: "remap", Err: err}
	}

	raw := strings.TrimSpace(resp.Text())
	if raw == "" {
		return "", &pipeline.ExternalServiceError{Service: "remap", Err: fmt.Errorf("empty response from model")}
	}
	return raw, nil
}
