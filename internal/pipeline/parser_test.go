package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain object untouched",
			input: `{"a": 1}`,
			want:  `{"a": 1}`,
		},
		{
			name:  "json fence",
			input: "```json\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "bare fence",
			input: "```\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "prose around object",
			input: "Here is the result:\n{\"a\": 1}\nHope that helps!",
			want:  `{"a": 1}`,
		},
		{
			name:  "leading and trailing whitespace",
			input: "  \n {\"a\": 1} \n ",
			want:  `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelJSON(tt.input); got != tt.want {
				t.Errorf("cleanModelJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeModelJSON(t *testing.T) {
	t.Run("valid object", func(t *testing.T) {
		got, err := decodeModelJSON(`{"statement_metadata": {}, "accounts": []}`)
		if err != nil {
			t.Fatalf("decodeModelJSON failed: %v", err)
		}
		if _, ok := got["statement_metadata"]; !ok {
			t.Error("parsed map missing statement_metadata")
		}
	})

	t.Run("fenced object", func(t *testing.T) {
		got, err := decodeModelJSON("```json\n{\"accounts\": []}\n```")
		if err != nil {
			t.Fatalf("decodeModelJSON failed: %v", err)
		}
		if _, ok := got["accounts"]; !ok {
			t.Error("parsed map missing accounts")
		}
	})

	t.Run("repairable trailing comma", func(t *testing.T) {
		got, err := decodeModelJSON(`{"a": 1,}`)
		if err != nil {
			t.Fatalf("repair should have recovered trailing comma: %v", err)
		}
		if got["a"] != float64(1) {
			t.Errorf("a = %v, want 1", got["a"])
		}
	})

	t.Run("unrecoverable output", func(t *testing.T) {
		_, err := decodeModelJSON("the model refused to answer")
		if err == nil {
			t.Fatal("expected error for non-JSON output")
		}
		var malformed *MalformedOutputError
		if !errors.As(err, &malformed) {
			t.Fatalf("expected MalformedOutputError, got %T", err)
		}
	})

	t.Run("raw diagnostics are truncated", func(t *testing.T) {
		long := "x" + strings.Repeat("y", 5000)
		_, err := decodeModelJSON(long)
		var malformed *MalformedOutputError
		if !errors.As(err, &malformed) {
			t.Fatalf("expected MalformedOutputError, got %T", err)
		}
		if len(malformed.Raw) > 1200 {
			t.Errorf("Raw length = %d, want <= 1200", len(malformed.Raw))
		}
	})
}

func TestExtractStatement_SizePrecondition(t *testing.T) {
	extractor := &GeminiStatementExtractor{MaxPDFBytes: 16}
	big := make([]byte, 17)

	_, err := extractor.ExtractStatement(context.Background(), big, "")
	if err == nil {
		t.Fatal("expected size precondition error")
	}
	var sizeErr *SizePreconditionError
	if !errors.As(err, &sizeErr) {
		t.Fatalf("expected SizePreconditionError, got %T: %v", err, err)
	}
	if sizeErr.SizeBytes != 17 || sizeErr.MaxBytes != 16 {
		t.Errorf("SizePreconditionError = %+v", sizeErr)
	}
}

func TestSettingsNewExtractor(t *testing.T) {
	t.Run("nil settings use compiled defaults", func(t *testing.T) {
		extractor := (*Settings)(nil).NewExtractor()
		if extractor.Model != "" || extractor.MaxPDFBytes != 0 || extractor.MaxHintChars != 0 {
			t.Errorf("nil settings should produce a zero extractor, got %+v", extractor)
		}
	})

	t.Run("configured values reach the extractor", func(t *testing.T) {
		s := &Settings{Model: "gemini-2.5-pro", MaxPDFBytes: 16, MaxHintChars: 9}
		extractor := s.NewExtractor()
		if extractor.Model != "gemini-2.5-pro" || extractor.MaxPDFBytes != 16 || extractor.MaxHintChars != 9 {
			t.Fatalf("extractor = %+v", extractor)
		}

		_, err := extractor.ExtractStatement(context.Background(), make([]byte, 17), "")
		var sizeErr *SizePreconditionError
		if !errors.As(err, &sizeErr) {
			t.Fatalf("expected SizePreconditionError, got %v", err)
		}
		if sizeErr.MaxBytes != 16 {
			t.Errorf("MaxBytes = %d, want the configured cap", sizeErr.MaxBytes)
		}
	})
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello", 10); got != "hello" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("hello", 3); got != "hel" {
		t.Errorf("truncate long = %q", got)
	}
}
