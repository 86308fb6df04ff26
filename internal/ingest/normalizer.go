package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"creerlio-backend/internal/llm"
)

// Normalizer turns extracted resume text into a Record through one structured
// extraction call. It holds no per-call state.
type Normalizer struct {
	client llm.StructuredClient
}

// NewNormalizer returns a Normalizer backed by client.
func NewNormalizer(client llm.StructuredClient) *Normalizer {
	return &Normalizer{client: client}
}

// Model identifies the model recorded in RawData.ParsingModel.
func (n *Normalizer) Model() string {
	return n.client.Model()
}

// Normalize extracts a Record from text. Failures of the call, unparseable
// output and top-level shape violations all return a normalization_failure.
func (n *Normalizer) Normalize(ctx context.Context, text, filename string) (Record, error) {
	raw, err := n.client.Extract(ctx, llm.ExtractRequest{
		Operation:   "normalize",
		System:      normalizeSystemPrompt,
		User:        normalizeLeadIn + text,
		Schema:      RecordSchema(),
		Temperature: llm.DeterministicTemperature,
		JSONObject:  true,
	})
	if err != nil {
		return Record{}, newError(KindNormalizationFailure, "normalization failed", err)
	}

	rec, err := decodeRecord(raw)
	if err != nil {
		return Record{}, newError(KindNormalizationFailure, "normalization failed", err)
	}
	rec.RawData = RawData{
		OriginalText: text,
		Filename:     filename,
		ParsingModel: n.client.Model(),
	}
	return rec, nil
}

// Enhance asks for improvement suggestions on rec. rec is never modified.
func (n *Normalizer) Enhance(ctx context.Context, rec Record) (Suggestions, error) {
	payload, err := json.MarshalIndent(rec.Clone(), "", "  ")
	if err != nil {
		return Suggestions{}, newError(KindEnhancementFailure, "enhancement failed", fmt.Errorf("encode record: %w", err))
	}

	raw, err := n.client.Extract(ctx, llm.ExtractRequest{
		Operation:   "enhance",
		System:      enhanceSystemPrompt,
		User:        enhanceLeadIn + string(payload),
		Temperature: llm.EnhanceTemperature,
		JSONObject:  true,
	})
	if err != nil {
		return Suggestions{}, newError(KindEnhancementFailure, "enhancement failed", err)
	}

	s, err := decodeSuggestions(raw)
	if err != nil {
		return Suggestions{}, newError(KindEnhancementFailure, "enhancement failed", err)
	}
	return s, nil
}
