package main

// Ingest one resume file and print the normalized record:
//   go run ./cmd/ingest -file cv.pdf [-out record.json] [-enhance]

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"creerlio-backend/internal/extract"
	"creerlio-backend/internal/ingest"
	openai "creerlio-backend/internal/llm/openai"
	"creerlio-backend/internal/shared/config"
	"creerlio-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()

	filePath := flag.String("file", "", "Path to resume file (pdf, docx or txt)")
	outPath := flag.String("out", "", "Path to write the record JSON (optional)")
	enhance := flag.Bool("enhance", false, "Also request improvement suggestions")
	model := flag.String("model", cfg.LLMModel, "LLM model")
	flag.Parse()

	if strings.TrimSpace(*filePath) == "" {
		exitErr("file path is required")
	}

	logger, err := telemetry.Init("dev", cfg.LogLevel)
	if err != nil {
		exitErr(fmt.Sprintf("init logger: %v", err))
	}
	defer func() { _ = telemetry.Sync() }()

	data, err := os.ReadFile(*filePath)
	if err != nil {
		exitErr(fmt.Sprintf("read file: %v", err))
	}

	client, err := openai.NewClient(openai.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   *model,
		Timeout: cfg.LLMTimeout,
		Logger:  logger,
	})
	if err != nil {
		exitErr(err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	normalizer := ingest.NewNormalizer(client)
	pipeline := ingest.NewPipeline(extract.New(), normalizer, logger)
	res := pipeline.Run(ctx, data, filepath.Base(*filePath))
	if res.Err != nil {
		exitErr(fmt.Sprintf("ingest failed in %s: %v", res.FailedIn, res.Err))
	}

	out := map[string]any{"data": res.Record}
	if *enhance {
		suggestions, err := normalizer.Enhance(ctx, res.Record)
		if err != nil {
			exitErr(fmt.Sprintf("enhance: %v", err))
		}
		out["enhancements"] = suggestions
	}

	pretty, err := prettyJSON(out)
	if err != nil {
		exitErr(fmt.Sprintf("format json: %v", err))
	}
	if *outPath != "" {
		if err := os.WriteFile(*outPath, pretty, 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
	}
	if _, err := os.Stdout.Write(pretty); err != nil {
		exitErr(fmt.Sprintf("write stdout: %v", err))
	}
}

func prettyJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exitErr(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
