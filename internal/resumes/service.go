package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"creerlio-backend/internal/ingest"
	"creerlio-backend/internal/shared/storage/object"
	"creerlio-backend/internal/shared/telemetry"
	"creerlio-backend/internal/shared/util"
)

const defaultMaxUploadBytes = 10 << 20

// Ingester runs the ingestion pipeline over one uploaded document.
type Ingester interface {
	Ingest(ctx context.Context, data []byte, filename string) (ingest.Record, error)
}

// Enhancer produces improvement suggestions for a record.
type Enhancer interface {
	Enhance(ctx context.Context, rec ingest.Record) (ingest.Suggestions, error)
}

// Service contains business logic for resumes.
type Service struct {
	Repo     Repo
	Store    object.Store
	Pipeline Ingester
	Enhancer Enhancer
	MaxBytes int64
}

// Upload validates the file name, reads a bounded document, ingests it and
// persists the record. The original file is kept in the object store once
// ingestion succeeds and is removed again if the record cannot be saved.
func (s *Service) Upload(ctx context.Context, ownerID, filename string, r io.Reader) (Resume, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return Resume{}, fmt.Errorf("%w: filename is required", ErrInvalidInput)
	}
	if _, err := util.SanitizeFileName(filename); err != nil {
		return Resume{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	data, err := s.readBounded(r)
	if err != nil {
		return Resume{}, err
	}

	rec, err := s.Pipeline.Ingest(ctx, data, filename)
	if err != nil {
		return Resume{}, err
	}

	var storageKey string
	if s.Store != nil {
		obj, err := s.Store.Save(ctx, ownerID, filename, bytes.NewReader(data))
		if err != nil {
			return Resume{}, fmt.Errorf("store original: %w", err)
		}
		storageKey = obj.Key
	}

	now := time.Now().UTC()
	res := Resume{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Record:     rec,
		StorageKey: storageKey,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repo.Create(ctx, res); err != nil {
		s.discardOriginal(ctx, storageKey)
		return Resume{}, fmt.Errorf("save resume: %w", err)
	}

	telemetry.Info("resume.created", map[string]any{
		"resume_id": res.ID,
		"file_type": rec.FileType,
		"file_size": rec.FileSize,
	})
	return res, nil
}

func (s *Service) discardOriginal(ctx context.Context, key string) {
	if s.Store == nil || key == "" {
		return
	}
	if err := s.Store.Delete(context.WithoutCancel(ctx), key); err != nil {
		telemetry.Warn("resume.original_discard_failed", map[string]any{
			"storage_key": key,
			"error":       err.Error(),
		})
	}
}

// Get returns a stored resume.
func (s *Service) Get(ctx context.Context, id string) (Resume, error) {
	if strings.TrimSpace(id) == "" {
		return Resume{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns stored resumes, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Resume, error) {
	return s.Repo.List(ctx, limit, offset)
}

// Delete removes a stored resume and then its original upload. A failure to
// remove the upload is logged and does not fail the delete.
func (s *Service) Delete(ctx context.Context, id string) error {
	res, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.Store != nil && res.StorageKey != "" {
		if err := s.Store.Delete(ctx, res.StorageKey); err != nil {
			telemetry.Warn("resume.original_delete_failed", map[string]any{
				"resume_id":   id,
				"storage_key": res.StorageKey,
				"error":       err.Error(),
			})
		}
	}
	return nil
}

// Enhance asks for suggestions on a stored resume and saves them next to the
// record. On failure nothing is written.
func (s *Service) Enhance(ctx context.Context, id string) (Resume, error) {
	res, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Resume{}, err
	}

	suggestions, err := s.Enhancer.Enhance(ctx, res.Record)
	if err != nil {
		return Resume{}, err
	}

	res.Enhancements = &suggestions
	res.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, res); err != nil {
		return Resume{}, fmt.Errorf("save enhancements: %w", err)
	}
	return res, nil
}

func (s *Service) readBounded(r io.Reader) ([]byte, error) {
	max := s.MaxBytes
	if max <= 0 {
		max = defaultMaxUploadBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ErrTooLarge
		}
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > max {
		return nil, ErrTooLarge
	}
	return data, nil
}
