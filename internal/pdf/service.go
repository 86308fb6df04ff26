package pdf

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"creerlio-backend/internal/businesses"
	"creerlio-backend/internal/resumes"
	"creerlio-backend/internal/shared/storage/object"
	"creerlio-backend/internal/shared/telemetry"
)

// Renderer turns an HTML page into PDF bytes.
type Renderer interface {
	RenderHTMLToPDF(ctx context.Context, html string, paper Paper) ([]byte, error)
}

// ResumeSource loads stored resumes.
type ResumeSource interface {
	Get(ctx context.Context, id string) (resumes.Resume, error)
}

// BusinessSource loads business profiles.
type BusinessSource interface {
	Get(ctx context.Context, id string) (businesses.Business, error)
}

// Document is a generated PDF and, when a store is configured, where it was kept.
type Document struct {
	Bytes      []byte
	StorageKey string
}

// Service generates PDFs for resumes and business profiles.
type Service struct {
	Renderer   Renderer
	Store      object.Store
	Resumes    ResumeSource
	Businesses BusinessSource
	Paper      Paper
	now        func() time.Time
}

// NewService constructs a Service printing on paper.
func NewService(renderer Renderer, store object.Store, resumes ResumeSource, businesses BusinessSource, paper Paper) *Service {
	return &Service{
		Renderer:   renderer,
		Store:      store,
		Resumes:    resumes,
		Businesses: businesses,
		Paper:      paper,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ResumePDF renders the stored resume id.
func (s *Service) ResumePDF(ctx context.Context, id string) (Document, error) {
	res, err := s.Resumes.Get(ctx, id)
	if err != nil {
		return Document{}, err
	}
	html, err := ResumeHTML(res.Record)
	if err != nil {
		return Document{}, err
	}
	return s.render(ctx, "resume", id, html)
}

// BusinessPDF renders the business profile id.
func (s *Service) BusinessPDF(ctx context.Context, id string) (Document, error) {
	b, err := s.Businesses.Get(ctx, id)
	if err != nil {
		return Document{}, err
	}
	html, err := BusinessHTML(b)
	if err != nil {
		return Document{}, err
	}
	return s.render(ctx, "business", id, html)
}

func (s *Service) render(ctx context.Context, kind, id, html string) (Document, error) {
	start := time.Now()
	data, err := s.Renderer.RenderHTMLToPDF(ctx, html, s.Paper)
	if err != nil {
		return Document{}, fmt.Errorf("render %s pdf: %w", kind, err)
	}
	doc := Document{Bytes: data}

	if s.Store != nil {
		key := fmt.Sprintf("generated/%s/%s/%s.pdf", kind, id, s.now().Format("20060102T150405Z"))
		if _, err := s.Store.Put(ctx, key, "application/pdf", bytes.NewReader(data)); err != nil {
			// The caller still gets the PDF.
			telemetry.Warn("pdf.store_failed", map[string]any{"kind": kind, "id": id, "error": err})
		} else {
			doc.StorageKey = key
		}
	}

	telemetry.Info("pdf.generated", map[string]any{
		"kind":        kind,
		"id":          id,
		"bytes":       len(data),
		"paper":       s.Paper.Name,
		"storage_key": doc.StorageKey,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return doc, nil
}
