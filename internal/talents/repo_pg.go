package talents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// PGRepo implements Repo using Postgres. Skills are stored twice: as entered
// and lower-cased in skills_lower, which backs the containment search.
type PGRepo struct {
	DB *sql.DB
}

const selectTalent = `
SELECT id, name, email, phone, bio, title, location, skills, resume_id,
       latitude, longitude, created_at, updated_at
FROM talents`

func (r *PGRepo) Create(ctx context.Context, t Talent) error {
	const query = `
INSERT INTO talents (
    id, name, email, phone, bio, title, location, skills, skills_lower,
    resume_id, latitude, longitude, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	skills, err := encodeSkills(t.Skills)
	if err != nil {
		return err
	}
	lower, err := encodeSkills(lowerSkills(t.Skills))
	if err != nil {
		return err
	}
	var resumeID sql.NullString
	if t.ResumeID != nil {
		resumeID = sql.NullString{String: *t.ResumeID, Valid: true}
	}
	_, err = r.DB.ExecContext(ctx, query,
		t.ID,
		t.Name,
		nullString(t.Email),
		nullString(t.Phone),
		nullString(t.Bio),
		nullString(t.Title),
		nullString(t.Location),
		skills,
		lower,
		resumeID,
		nullFloat(t.Latitude),
		nullFloat(t.Longitude),
		t.CreatedAt,
		t.UpdatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Talent, error) {
	t, err := scanTalent(r.DB.QueryRowContext(ctx, selectTalent+`
WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Talent{}, ErrNotFound
		}
		return Talent{}, err
	}
	return t, nil
}

// Search uses jsonb containment on skills_lower so every requested skill must be present.
func (r *PGRepo) Search(ctx context.Context, f Filter) ([]Talent, error) {
	f = f.normalized()
	wanted, err := encodeSkills(f.Skills)
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx, selectTalent+`
WHERE ($1 = '' OR name ILIKE $2 OR bio ILIKE $2)
  AND ($3 = '' OR location ILIKE $4)
  AND skills_lower @> $5::jsonb
ORDER BY created_at, id
LIMIT $6 OFFSET $7`,
		f.Query, likePattern(f.Query),
		f.Location, likePattern(f.Location),
		wanted,
		f.Limit, f.Skip,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Talent{}
	for rows.Next() {
		t, err := scanTalent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTalent(s scanner) (Talent, error) {
	var t Talent
	var email, phone, bio, title, location, resumeID sql.NullString
	var lat, lng sql.NullFloat64
	var skills []byte
	if err := s.Scan(
		&t.ID,
		&t.Name,
		&email,
		&phone,
		&bio,
		&title,
		&location,
		&skills,
		&resumeID,
		&lat,
		&lng,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return Talent{}, err
	}
	t.Email = email.String
	t.Phone = phone.String
	t.Bio = bio.String
	t.Title = title.String
	t.Location = location.String
	if resumeID.Valid {
		t.ResumeID = &resumeID.String
	}
	if lat.Valid {
		t.Latitude = &lat.Float64
	}
	if lng.Valid {
		t.Longitude = &lng.Float64
	}
	t.Skills = []string{}
	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &t.Skills); err != nil {
			return Talent{}, fmt.Errorf("decode skills %s: %w", t.ID, err)
		}
	}
	return t, nil
}

func encodeSkills(skills []string) ([]byte, error) {
	if skills == nil {
		skills = []string{}
	}
	b, err := json.Marshal(skills)
	if err != nil {
		return nil, fmt.Errorf("encode skills: %w", err)
	}
	return b, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
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
