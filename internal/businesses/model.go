package businesses

import (
	"fmt"
	"strings"
	"time"
)

// Business is a business profile.
type Business struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Industry    string    `json:"industry"`
	Website     string    `json:"website"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	Location    string    `json:"location"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Country     string    `json:"country"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasCoordinates reports whether both latitude and longitude are set.
func (b Business) HasCoordinates() bool {
	return b.Latitude != nil && b.Longitude != nil
}

func (b Business) clone() Business {
	out := b
	out.Tags = append([]string{}, b.Tags...)
	if b.Latitude != nil {
		v := *b.Latitude
		out.Latitude = &v
	}
	if b.Longitude != nil {
		v := *b.Longitude
		out.Longitude = &v
	}
	return out
}

func (b *Business) validate() error {
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if b.Latitude != nil && (*b.Latitude < -90 || *b.Latitude > 90) {
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrInvalidInput)
	}
	if b.Longitude != nil && (*b.Longitude < -180 || *b.Longitude > 180) {
		return fmt.Errorf("%w: longitude must be between -180 and 180", ErrInvalidInput)
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	return nil
}

// Patch is a partial update; nil fields are left unchanged.
type Patch struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Industry    *string   `json:"industry"`
	Website     *string   `json:"website"`
	Email       *string   `json:"email"`
	Phone       *string   `json:"phone"`
	Address     *string   `json:"address"`
	Location    *string   `json:"location"`
	City        *string   `json:"city"`
	State       *string   `json:"state"`
	Country     *string   `json:"country"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	Tags        *[]string `json:"tags"`
}

// Apply copies the provided fields onto b.
func (p Patch) Apply(b *Business) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&b.Name, p.Name)
	set(&b.Description, p.Description)
	set(&b.Industry, p.Industry)
	set(&b.Website, p.Website)
	set(&b.Email, p.Email)
	set(&b.Phone, p.Phone)
	set(&b.Address, p.Address)
	set(&b.Location, p.Location)
	set(&b.City, p.City)
	set(&b.State, p.State)
	set(&b.Country, p.Country)
	if p.Latitude != nil {
		v := *p.Latitude
		b.Latitude = &v
	}
	if p.Longitude != nil {
		v := *p.Longitude
		b.Longitude = &v
	}
	if p.Tags != nil {
		b.Tags = append([]string{}, (*p.Tags)...)
	}
}

// Filter narrows a search. Query matches name or description and Location
// matches the location field, both case-insensitively.
type Filter struct {
	Query    string
	Location string
	Skip     int
	Limit    int
}

const (
	defaultLimit = 100
	maxLimit     = 100
)

func (f Filter) normalized() Filter {
	f.Query = strings.TrimSpace(f.Query)
	f.Location = strings.TrimSpace(f.Location)
	if f.Skip < 0 {
		f.Skip = 0
	}
	if f.Limit <= 0 || f.Limit > maxLimit {
		f.Limit = defaultLimit
	}
	return f
}

func (f Filter) matches(b Business) bool {
	if f.Query != "" && !containsFold(b.Name, f.Query) && !containsFold(b.Description, f.Query) {
		return false
	}
	if f.Location != "" && !containsFold(b.Location, f.Location) {
		return false
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
