package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type object map[string]json.RawMessage

// decodeRecord turns a model response into a Record. The response must be one
// JSON object whose top-level kinds match the record schema. Inside lists,
// elements of the wrong kind are dropped and scalars are coerced to strings.
// Unknown keys are ignored and missing keys take their empty value.
func decodeRecord(raw []byte) (Record, error) {
	obj, err := parseObject(raw)
	if err != nil {
		return Record{}, err
	}
	if err := recordShape.Validate(raw); err != nil {
		return Record{}, err
	}

	rec := Record{
		Name:      obj.str("name"),
		Email:     obj.str("email"),
		Phone:     obj.str("phone"),
		Address:   obj.str("address"),
		LinkedIn:  obj.str("linkedin"),
		GitHub:    obj.str("github"),
		Website:   obj.str("website"),
		Summary:   obj.str("summary"),
		Objective: obj.str("objective"),
	}
	for _, o := range obj.objects("experience") {
		rec.Experience = append(rec.Experience, Experience{
			Company:      o.str("company"),
			Title:        o.str("title"),
			StartDate:    o.str("start_date"),
			EndDate:      o.str("end_date"),
			Description:  o.str("description"),
			Achievements: o.list("achievements"),
		})
	}
	for _, o := range obj.objects("education") {
		rec.Education = append(rec.Education, Education{
			Institution: o.str("institution"),
			Degree:      o.str("degree"),
			Field:       o.str("field"),
			StartDate:   o.str("start_date"),
			EndDate:     o.str("end_date"),
			GPA:         o.str("gpa"),
		})
	}
	if skills, ok := obj.child("skills"); ok {
		rec.Skills = Skills{
			Technical: skills.list("technical"),
			Soft:      skills.list("soft"),
			Languages: skills.list("languages"),
			Tools:     skills.list("tools"),
		}
	}
	for _, o := range obj.objects("certifications") {
		rec.Certifications = append(rec.Certifications, Certification{
			Name:   o.str("name"),
			Issuer: o.str("issuer"),
			Date:   o.str("date"),
			Expiry: o.str("expiry"),
		})
	}
	for _, o := range obj.objects("projects") {
		rec.Projects = append(rec.Projects, Project{
			Name:         o.str("name"),
			Description:  o.str("description"),
			Technologies: o.list("technologies"),
			URL:          o.str("url"),
		})
	}
	for _, o := range obj.objects("languages") {
		rec.Languages = append(rec.Languages, Language{
			Language:    o.str("language"),
			Proficiency: o.str("proficiency"),
		})
	}
	for _, o := range obj.objects("awards") {
		rec.Awards = append(rec.Awards, Award{
			Title:       o.str("title"),
			Issuer:      o.str("issuer"),
			Date:        o.str("date"),
			Description: o.str("description"),
		})
	}
	rec.Normalize()
	return rec, nil
}

func decodeSuggestions(raw []byte) (Suggestions, error) {
	obj, err := parseObject(raw)
	if err != nil {
		return Suggestions{}, err
	}
	if err := suggestionsShape.Validate(raw); err != nil {
		return Suggestions{}, err
	}
	s := Suggestions{
		SuggestedSkills:       obj.list("suggested_skills"),
		Strengths:             obj.list("strengths"),
		Improvements:          obj.list("improvements"),
		ATSKeywords:           obj.list("ats_keywords"),
		CareerRecommendations: obj.list("career_recommendations"),
	}
	s.Normalize()
	return s, nil
}

func parseObject(raw []byte) (object, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("response is not a JSON object")
	}
	var obj object
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return obj, nil
}

func (o object) str(key string) *string {
	return scalar(o[key])
}

func (o object) list(key string) []string {
	raw, ok := o[key]
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		// A lone scalar stands for a one-element list.
		if s := scalar(raw); s != nil {
			return []string{*s}
		}
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := scalar(item); s != nil {
			out = append(out, *s)
		}
	}
	return out
}

func (o object) child(key string) (object, bool) {
	raw, ok := o[key]
	if !ok {
		return nil, false
	}
	var inner object
	if err := json.Unmarshal(raw, &inner); err != nil || inner == nil {
		return nil, false
	}
	return inner, true
}

func (o object) objects(key string) []object {
	raw, ok := o[key]
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]object, 0, len(items))
	for _, item := range items {
		var inner object
		if err := json.Unmarshal(item, &inner); err != nil || inner == nil {
			continue
		}
		out = append(out, inner)
	}
	return out
}

// scalar returns the trimmed text of a JSON string, number or boolean with NUL
// characters removed. null, blank strings, objects and arrays yield nil.
func scalar(raw json.RawMessage) *string {
	var v any
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return nil
	}
	var s string
	switch t := v.(type) {
	case string:
		s = strings.TrimSpace(strings.ReplaceAll(t, "\x00", ""))
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(t)
	default:
		return nil
	}
	if s == "" {
		return nil
	}
	return &s
}
