package businesses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectBusiness = `
SELECT id, name, description, industry, website, email, phone, address, location,
       city, state, country, latitude, longitude, tags, created_at, updated_at
FROM businesses`

// Create inserts a new business.
func (r *PGRepo) Create(ctx context.Context, b Business) error {
	const query = `
INSERT INTO businesses (
    id, name, description, industry, website, email, phone, address, location,
    city, state, country, latitude, longitude, tags, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	tags, err := encodeTags(b.Tags)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		b.ID,
		b.Name,
		nullString(b.Description),
		nullString(b.Industry),
		nullString(b.Website),
		nullString(b.Email),
		nullString(b.Phone),
		nullString(b.Address),
		nullString(b.Location),
		nullString(b.City),
		nullString(b.State),
		nullString(b.Country),
		nullFloat(b.Latitude),
		nullFloat(b.Longitude),
		tags,
		b.CreatedAt,
		b.UpdatedAt,
	)
	return err
}

// GetByID fetches a business by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Business, error) {
	b, err := scanBusiness(r.DB.QueryRowContext(ctx, selectBusiness+`
WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Business{}, ErrNotFound
		}
		return Business{}, err
	}
	return b, nil
}

// Update rewrites every mutable column of b.
func (r *PGRepo) Update(ctx context.Context, b Business) error {
	const query = `
UPDATE businesses
SET name = $2, description = $3, industry = $4, website = $5, email = $6, phone = $7,
    address = $8, location = $9, city = $10, state = $11, country = $12,
    latitude = $13, longitude = $14, tags = $15, updated_at = $16
WHERE id = $1`

	tags, err := encodeTags(b.Tags)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query,
		b.ID,
		b.Name,
		nullString(b.Description),
		nullString(b.Industry),
		nullString(b.Website),
		nullString(b.Email),
		nullString(b.Phone),
		nullString(b.Address),
		nullString(b.Location),
		nullString(b.City),
		nullString(b.State),
		nullString(b.Country),
		nullFloat(b.Latitude),
		nullFloat(b.Longitude),
		tags,
		b.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes a business.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM businesses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Search matches name/description and location with ILIKE.
func (r *PGRepo) Search(ctx context.Context, f Filter) ([]Business, error) {
	f = f.normalized()
	rows, err := r.DB.QueryContext(ctx, selectBusiness+`
WHERE ($1 = '' OR name ILIKE $2 OR description ILIKE $2)
  AND ($3 = '' OR location ILIKE $4)
ORDER BY created_at, id
LIMIT $5 OFFSET $6`,
		f.Query, likePattern(f.Query),
		f.Location, likePattern(f.Location),
		f.Limit, f.Skip,
	)
	if err != nil {
		return nil, err
	}
	return collectRows(rows)
}

func (r *PGRepo) ListWithCoordinates(ctx context.Context) ([]Business, error) {
	rows, err := r.DB.QueryContext(ctx, selectBusiness+`
WHERE latitude IS NOT NULL AND longitude IS NOT NULL
ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	return collectRows(rows)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBusiness(s scanner) (Business, error) {
	var b Business
	var description, industry, website, email, phone, address, location, city, state, country sql.NullString
	var lat, lng sql.NullFloat64
	var tags []byte
	if err := s.Scan(
		&b.ID,
		&b.Name,
		&description,
		&industry,
		&website,
		&email,
		&phone,
		&address,
		&location,
		&city,
		&state,
		&country,
		&lat,
		&lng,
		&tags,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return Business{}, err
	}
	b.Description = description.String
	b.Industry = industry.String
	b.Website = website.String
	b.Email = email.String
	b.Phone = phone.String
	b.Address = address.String
	b.Location = location.String
	b.City = city.String
	b.State = state.String
	b.Country = country.String
	if lat.Valid {
		b.Latitude = &lat.Float64
	}
	if lng.Valid {
		b.Longitude = &lng.Float64
	}
	b.Tags = []string{}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &b.Tags); err != nil {
			return Business{}, fmt.Errorf("decode tags %s: %w", b.ID, err)
		}
	}
	return b, nil
}

func collectRows(rows *sql.Rows) ([]Business, error) {
	defer rows.Close()
	out := []Business{}
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func encodeTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	return b, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
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

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
