package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"creerlio-backend/internal/ingest"
)

// PGRepo implements Repo using Postgres. The full record lives in the data
// JSONB column; a few scalar columns are copied out for listing and lookups.
type PGRepo struct {
	DB *sql.DB
}

const selectResume = `
SELECT id, owner_id, storage_key, data, enhancements, created_at, updated_at
FROM resumes`

// Create inserts a new resume.
func (r *PGRepo) Create(ctx context.Context, res Resume) error {
	const query = `
INSERT INTO resumes (
    id,
    owner_id,
    name,
    email,
    original_filename,
    file_type,
    file_size,
    parsing_model,
    storage_key,
    data,
    enhancements,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	data, enhancements, err := encode(res)
	if err != nil {
		return err
	}
	rec := res.Record
	_, err = r.DB.ExecContext(
		ctx,
		query,
		res.ID,
		res.OwnerID,
		nullString(ingest.StringValue(rec.Name)),
		nullString(ingest.StringValue(rec.Email)),
		rec.OriginalFilename,
		rec.FileType,
		rec.FileSize,
		rec.RawData.ParsingModel,
		nullString(res.StorageKey),
		data,
		enhancements,
		res.CreatedAt,
		res.UpdatedAt,
	)
	return err
}

// GetByID fetches a resume by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Resume, error) {
	row := r.DB.QueryRowContext(ctx, selectResume+`
WHERE id = $1`, id)
	res, err := scanResume(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return res, nil
}

// List returns resumes newest first.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Resume, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.DB.QueryContext(ctx, selectResume+`
ORDER BY created_at DESC, id
LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Resume{}
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// Update rewrites the stored record and enhancements.
func (r *PGRepo) Update(ctx context.Context, res Resume) error {
	const query = `
UPDATE resumes
SET name = $2, email = $3, data = $4, enhancements = $5, updated_at = $6
WHERE id = $1`

	data, enhancements, err := encode(res)
	if err != nil {
		return err
	}
	result, err := r.DB.ExecContext(
		ctx,
		query,
		res.ID,
		nullString(ingest.StringValue(res.Record.Name)),
		nullString(ingest.StringValue(res.Record.Email)),
		data,
		enhancements,
		res.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// Delete removes a resume.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResume(s scanner) (Resume, error) {
	var res Resume
	var storageKey sql.NullString
	var data []byte
	var enhancements []byte
	if err := s.Scan(
		&res.ID,
		&res.OwnerID,
		&storageKey,
		&data,
		&enhancements,
		&res.CreatedAt,
		&res.UpdatedAt,
	); err != nil {
		return Resume{}, err
	}
	if storageKey.Valid {
		res.StorageKey = storageKey.String
	}
	if err := json.Unmarshal(data, &res.Record); err != nil {
		return Resume{}, fmt.Errorf("decode resume %s: %w", res.ID, err)
	}
	if len(enhancements) > 0 {
		var s ingest.Suggestions
		if err := json.Unmarshal(enhancements, &s); err != nil {
			return Resume{}, fmt.Errorf("decode enhancements %s: %w", res.ID, err)
		}
		s.Normalize()
		res.Enhancements = &s
	}
	return res, nil
}

// encode returns the data column and the enhancements column, which is nil
// (SQL NULL) until an enhancement pass succeeds.
func encode(res Resume) ([]byte, any, error) {
	data, err := json.Marshal(res.Record)
	if err != nil {
		return nil, nil, fmt.Errorf("encode record: %w", err)
	}
	if res.Enhancements == nil {
		return data, nil, nil
	}
	enhancements, err := json.Marshal(res.Enhancements)
	if err != nil {
		return nil, nil, fmt.Errorf("encode enhancements: %w", err)
	}
	return data, enhancements, nil
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
