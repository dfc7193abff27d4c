// Command extract runs a single local PDF through the Gemini extraction and
// canonicalization stages and prints the canonical statement JSON to stdout.
// It never touches GCS or BigQuery, which makes it useful for prompt and
// schema experiments against sample statements.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dvloznov/statement-normalizer/internal/logger"
	"github.com/dvloznov/statement-normalizer/internal/pipeline"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	pdfPath := flag.String("pdf", "", "Path to a local statement PDF")
	hintPath := flag.String("hint", "", "Optional path to a plaintext hint file")
	model := flag.String("model", pipeline.DefaultModelName, "Gemini model name")
	flag.Parse()

	log := logger.New()

	if *pdfPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: extract -pdf statement.pdf [-hint notes.txt] [-model NAME]")
		os.Exit(1)
	}

	pdfBytes, err := os.ReadFile(*pdfPath)
	if err != nil {
		log.Fatal().Err(err).Str("pdf", *pdfPath).Msg("Failed to read PDF")
	}

	var hint string
	if *hintPath != "" {
		hintBytes, err := os.ReadFile(*hintPath)
		if err != nil {
			log.Fatal().Err(err).Str("hint", *hintPath).Msg("Failed to read hint file")
		}
		hint = string(hintBytes)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	extractor := &pipeline.GeminiStatementExtractor{Model: *model}

	raw, err := extractor.ExtractStatement(ctx, pdfBytes, hint)
	if err != nil {
		log.Fatal().Err(err).Msg("Extraction failed")
	}

	stmt, err := pipeline.DecodeStatement(raw)
	if err != nil {
		log.Fatal().Err(err).Msg("Model output failed schema validation")
	}

	stmt = pipeline.Canonicalize(stmt)

	out, err := json.MarshalIndent(stmt, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode statement")
	}

	fmt.Println(string(out))
}
