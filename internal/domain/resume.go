package domain

import (
	"encoding/json"
	"strings"
)

// ResumeRecord is the request-scoped snapshot of everything the datastore
// knows about the resume. Sections are never nil after normalization.
type ResumeRecord struct {
	Header     Header            `json:"header"`
	Education  Education         `json:"education"`
	Experience []ExperienceEntry `json:"experience"`
	Projects   []ProjectEntry    `json:"projects"`
}

// Skills maps a category key to its ordered skill list.
type Skills map[string][]string

type Header struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`
	Tagline     string `json:"tagline"`
	Website     string `json:"website"`
	LinkedIn    string `json:"linkedin"`
	GitHub      string `json:"github"`
	LastUpdated string `json:"lastUpdated"`
	Skills      Skills `json:"skills"`
}

// IsZero reports whether the header has nothing to print in the header block.
// Skills are rendered in their own section and are not considered here.
func (h Header) IsZero() bool {
	return h.Name == "" && h.Email == "" && h.Phone == "" && h.Location == "" &&
		h.Tagline == "" && h.Website == "" && h.LinkedIn == "" && h.GitHub == ""
}

type Education struct {
	University string   `json:"university"`
	Degree     string   `json:"degree"`
	Major      string   `json:"major"`
	StartDate  string   `json:"startDate"`
	EndDate    string   `json:"endDate"`
	GPA        string   `json:"gpa"`
	Coursework []string `json:"coursework"`
}

func (e Education) IsZero() bool {
	return e.University == "" && e.Degree == "" && e.Major == "" && e.StartDate == "" &&
		e.EndDate == "" && e.GPA == "" && len(e.Coursework) == 0
}

// ExperienceEntry is one job. Title holds the company, Position the role.
type ExperienceEntry struct {
	ID          string   `json:"_id,omitempty"`
	Title       string   `json:"title"`
	Position    string   `json:"position"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Description string   `json:"description"`
	Highlights  []string `json:"highlights"`
	Location    string   `json:"location"`
	URL         string   `json:"url"`
}

// IsCurrent reports whether the end date marks an ongoing position.
func (e ExperienceEntry) IsCurrent() bool {
	switch strings.ToLower(strings.TrimSpace(e.EndDate)) {
	case "present", "current", "ongoing":
		return true
	}
	return false
}

type ProjectEntry struct {
	ID           string   `json:"_id,omitempty"`
	Title        string   `json:"title"`
	Date         string   `json:"date"`
	EndDate      string   `json:"endDate"`
	Description  string   `json:"description"`
	Event        string   `json:"event"`
	Organization string   `json:"organization"`
	URL          string   `json:"url"`
	Award        Award    `json:"award"`
	Highlights   []string `json:"highlights"`
	Technologies []string `json:"technologies"`
}

// Award holds a project award that may have arrived as a single string or as
// a list of strings. Both shapes render the same way.
type Award struct {
	values []string
	list   bool
}

func ScalarAward(s string) Award {
	if s == "" {
		return Award{}
	}
	return Award{values: []string{s}}
}

func ListAward(items ...string) Award {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it != "" {
			out = append(out, it)
		}
	}
	return Award{values: out, list: true}
}

// Items returns a copy of the award values in order.
func (a Award) Items() []string {
	return append([]string{}, a.values...)
}

func (a Award) IsZero() bool { return len(a.values) == 0 }

func (a Award) String() string { return strings.Join(a.values, ", ") }

// MarshalJSON keeps the shape the award arrived in.
func (a Award) MarshalJSON() ([]byte, error) {
	if a.list {
		return json.Marshal(a.Items())
	}
	return json.Marshal(a.String())
}

// Bullets splits a free-text description on sentence periods, trims each
// fragment, drops empties, and appends the pre-split highlights.
func Bullets(description string, highlights []string) []string {
	out := SplitSentences(description)
	for _, h := range highlights {
		if strings.TrimSpace(h) != "" {
			out = append(out, h)
		}
	}
	return out
}

func SplitSentences(description string) []string {
	var out []string
	for _, frag := range strings.Split(description, ".") {
		if s := strings.TrimSpace(frag); s != "" {
			out = append(out, s)
		}
	}
	return out
}
