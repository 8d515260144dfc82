// Package model turns loosely-typed datastore documents into the canonical
// resume record.
package model

import (
	"strconv"
	"strings"

	"resume-api/internal/domain"
)

// NewRecord normalizes the four raw sections. Anything missing or of the
// wrong shape becomes its empty default.
func NewRecord(header, education, experience, projects any) domain.ResumeRecord {
	return domain.ResumeRecord{
		Header:     NewHeader(header),
		Education:  NewEducation(education),
		Experience: NewExperience(experience),
		Projects:   NewProjects(projects),
	}
}

// NewRecordFromMap normalizes a whole record shaped like the preview payload.
func NewRecordFromMap(m map[string]any) domain.ResumeRecord {
	return NewRecord(m["header"], m["education"], m["experience"], m["projects"])
}

func NewHeader(v any) domain.Header {
	m := asMap(v)
	return domain.Header{
		Name:        str(m["name"]),
		Email:       str(m["email"]),
		Phone:       str(m["phone"]),
		Location:    str(m["location"]),
		Tagline:     str(m["tagline"]),
		Website:     str(m["website"]),
		LinkedIn:    str(m["linkedin"]),
		GitHub:      str(m["github"]),
		LastUpdated: str(m["lastUpdated"]),
		Skills:      skills(m["skills"]),
	}
}

func NewEducation(v any) domain.Education {
	m := asMap(v)
	return domain.Education{
		University: str(m["university"]),
		Degree:     str(m["degree"]),
		Major:      str(m["major"]),
		StartDate:  str(m["startDate"]),
		EndDate:    str(m["endDate"]),
		GPA:        str(m["gpa"]),
		Coursework: strList(m["coursework"]),
	}
}

func NewExperience(v any) []domain.ExperienceEntry {
	raw := asList(v)
	out := make([]domain.ExperienceEntry, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, domain.ExperienceEntry{
			ID:          id(m),
			Title:       str(m["title"]),
			Position:    str(m["position"]),
			StartDate:   str(m["startDate"]),
			EndDate:     str(m["endDate"]),
			Description: str(m["description"]),
			Highlights:  strList(m["highlights"]),
			Location:    str(m["location"]),
			URL:         str(m["url"]),
		})
	}
	return out
}

func NewProjects(v any) []domain.ProjectEntry {
	raw := asList(v)
	out := make([]domain.ProjectEntry, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		url := str(m["url"])
		if url == "" {
			url = str(m["link"])
		}
		out = append(out, domain.ProjectEntry{
			ID:           id(m),
			Title:        str(m["title"]),
			Date:         str(m["date"]),
			EndDate:      str(m["endDate"]),
			Description:  str(m["description"]),
			Event:        str(m["event"]),
			Organization: str(m["organization"]),
			URL:          url,
			Award:        award(m["award"]),
			Highlights:   strList(m["highlights"]),
			Technologies: strList(m["technologies"]),
		})
	}
	return out
}

func id(m map[string]any) string {
	if s := str(m["_id"]); s != "" {
		return s
	}
	return str(m["id"])
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func asList(v any) []any {
	if l, ok := v.([]any); ok {
		return l
	}
	return nil
}

// str stringifies scalars. Maps, lists and nil become "".
func str(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

// strList accepts a list of scalars or a lone scalar.
func strList(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, it := range t {
			if s := strings.TrimSpace(str(it)); s != "" {
				out = append(out, str(it))
			}
		}
		return out
	case []string:
		return append([]string{}, t...)
	}
	if s := str(v); s != "" {
		return []string{s}
	}
	return []string{}
}

func award(v any) domain.Award {
	switch t := v.(type) {
	case []any:
		return domain.ListAward(strList(t)...)
	case []string:
		return domain.ListAward(t...)
	}
	return domain.ScalarAward(str(v))
}

func skills(v any) domain.Skills {
	out := domain.Skills{}
	m, ok := v.(map[string]any)
	if !ok {
		return out
	}
	for k, raw := range m {
		out[k] = strList(raw)
	}
	return out
}
