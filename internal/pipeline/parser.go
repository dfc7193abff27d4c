package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"google.golang.org/genai"
)

// GeminiStatementExtractor calls Gemini with the extraction prompt, an
// optional plaintext hint, and the PDF bytes inline, constrained to the
// statement response schema.
type GeminiStatementExtractor struct {
	Model        string // empty means DefaultModelName
	MaxPDFBytes  int    // zero means DefaultMaxPDFBytes
	MaxHintChars int    // zero means DefaultMaxHintChars
}

var _ StatementExtractor = (*GeminiStatementExtractor)(nil)

// ExtractStatement sends the PDF to the model and returns the parsed JSON
// output as a generic map, ready for schema validation. The size
// precondition is checked before any external call. hint may be empty;
// absence of a hint is not an error.
func (p *GeminiStatementExtractor) ExtractStatement(ctx context.Context, pdfBytes []byte, hint string) (map[string]interface{}, error) {
	maxBytes := p.MaxPDFBytes
	if maxBytes == 0 {
		maxBytes = DefaultMaxPDFBytes
	}
	if len(pdfBytes) > maxBytes {
		return nil, &SizePreconditionError{SizeBytes: len(pdfBytes), MaxBytes: maxBytes}
	}

	model := p.Model
	if model == "" {
		model = DefaultModelName
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("ExtractStatement: create genai client: %w", err)
	}

	parts := []*genai.Part{{Text: extractionPrompt}}
	if hint != "" {
		maxHint := p.MaxHintChars
		if maxHint == 0 {
			maxHint = DefaultMaxHintChars
		}
		if len(hint) > maxHint {
			hint = hint[:maxHint]
		}
		parts = append(parts, &genai.Part{Text: hintPreamble + hint})
	}
	parts = append(parts, &genai.Part{
		InlineData: &genai.Blob{
			MIMEType: "application/pdf",
			Data:     pdfBytes,
		},
	})

	contents := []*genai.Content{{Role: "user", Parts: parts}}
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0)),
		ResponseMIMEType: "application/json",
		ResponseSchema:   statementResponseSchema(),
	}

	resp, err := client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, &ExternalServiceError{Service: "extraction", Err: err}
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, &ExternalServiceError{Service: "extraction", Err: fmt.Errorf("empty response from model")}
	}

	return decodeModelJSON(rawText)
}

// decodeModelJSON parses model output into a generic map. Markdown fences
// are stripped first; output that still fails to parse gets exactly one
// repair attempt before the extraction is declared malformed.
func decodeModelJSON(raw string) (map[string]interface{}, error) {
	clean := cleanModelJSON(raw)

	var parsed map[string]interface{}
	err := json.Unmarshal([]byte(clean), &parsed)
	if err == nil {
		return parsed, nil
	}

	repaired, repairErr := jsonrepair.RepairJSON(clean)
	if repairErr == nil {
		if json.Unmarshal([]byte(repaired), &parsed) == nil {
			return parsed, nil
		}
	}

	return nil, &MalformedOutputError{Raw: truncate(raw, 1200), Err: err}
}

// cleanModelJSON strips Markdown fences and surrounding junk when the
// model ignores the no-markdown instruction.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	// Keep only the outermost object if junk remains around it.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
