package latex

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"resume-api/internal/domain"
)

const (
	entrySpacer  = `\vspace{0.2 cm}`
	contactSep   = `\kern 5.0 pt%`
	titleDivider = ` \textbar\ `
)

// dateRange joins start and end with an en dash. A lone date is returned by
// itself and two empty dates give an empty string.
func dateRange(start, end string) string {
	switch {
	case start == "" && end == "":
		return ""
	case start == "":
		return end
	case end == "":
		return start
	}
	return start + " – " + end
}

// HeaderSection renders the name, tagline and contact line.
func HeaderSection(h domain.Header, l Layout) []string {
	if h.IsZero() {
		return nil
	}
	var b lines
	b.blank()
	b.add(`    \begin{header}`)
	b.addf(`        \fontsize{%d pt}{%d pt}\selectfont %s`, l.NameSize, l.NameSize, Escape(h.Name))
	b.blank()
	b.add(`        \normalsize`, "        ")
	if h.Tagline != "" {
		b.addf(`        \textit{%s}`, Escape(h.Tagline))
	}
	b.add("        ")

	contacts := headerContacts(h)
	for i, c := range contacts {
		if i < len(contacts)-1 {
			b.add("        "+c+"%", "        "+contactSep, `        \AND%`, "        "+contactSep)
			continue
		}
		b.add("        " + c)
	}
	if h.LastUpdated != "" {
		b.add(`        \placelastupdatedtext`)
	}
	b.add(`    \end{header}`)
	b.blank()
	b.add(`    \vspace{5 pt - 0.3 cm}`)
	return b.lines()
}

func headerContacts(h domain.Header) []string {
	var items []string
	if h.Location != "" {
		items = append(items, `\mbox{`+Escape(h.Location)+`}`)
	}
	if h.Email != "" {
		items = append(items, link("mailto:"+h.Email, h.Email))
	}
	if h.Phone != "" {
		items = append(items, link("tel:"+telTarget(h.Phone), h.Phone))
	}
	for _, u := range []string{h.Website, h.LinkedIn, h.GitHub} {
		if u != "" {
			items = append(items, urlLink(u))
		}
	}
	return items
}

func telTarget(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == '+' {
			return r
		}
		return -1
	}, phone)
}

// EducationSection renders the single education entry.
func EducationSection(e domain.Education, _ Layout) []string {
	if e.IsZero() {
		return nil
	}
	var b lines
	b.blank()
	b.add(`\section{Education}`)
	b.add(`        \begin{twocolentry}{`)
	b.add("            " + Escape(dateRange(e.StartDate, e.EndDate)))
	b.add("        }")

	title := `            \textbf{` + Escape(e.University) + `}`
	switch {
	case e.Degree != "" && e.Major != "":
		title += " -- " + Escape(e.Degree) + " in " + Escape(e.Major)
	case e.Degree != "":
		title += " -- " + Escape(e.Degree)
	}
	b.add(title + `\end{twocolentry}`)

	if e.GPA != "" {
		b.blank()
		b.addf(`        GPA: \textbf{%s}/\textbf{4.0}`, Escape(e.GPA))
	}
	if len(e.Coursework) > 0 {
		b.blank()
		b.add(`        \vspace{0.10 cm}`, `        \begin{onecolentry}`, `            \begin{highlights}`)
		b.add(`                \item \textbf{Coursework:} ` + Escape(strings.Join(e.Coursework, ", ")))
		b.add(`            \end{highlights}`, `        \end{onecolentry}`)
	}
	return b.lines()
}

// ExperienceSection renders every experience entry with spacers between them.
func ExperienceSection(entries []domain.ExperienceEntry, _ Layout) []string {
	if len(entries) == 0 {
		return nil
	}
	var b lines
	b.blank()
	b.add(`\section{Experience}`)
	for i, e := range entries {
		if i > 0 {
			b.blank()
			b.add("    " + entrySpacer)
			b.blank()
		}
		b.add(`    \begin{twocolentry}{`)
		b.add("        " + Escape(dateRange(e.StartDate, e.EndDate)))
		b.add("    }")

		var parts []string
		if e.Position != "" {
			parts = append(parts, Escape(e.Position))
		}
		if e.Title != "" {
			company := Escape(e.Title)
			if e.URL != "" {
				company = `\hrefWithoutArrow{` + EnsureProtocol(e.URL) + `}{` + company + `}`
			}
			parts = append(parts, company)
		}
		if e.Location != "" {
			parts = append(parts, Escape(e.Location))
		}
		b.add(`        \textbf{` + strings.Join(parts, titleDivider) + `}\end{twocolentry}`)

		bullets := domain.Bullets(e.Description, e.Highlights)
		if len(bullets) == 0 {
			continue
		}
		b.blank()
		b.add(`    \vspace{0.10 cm}`, `    \begin{onecolentry}`, `        \begin{highlights}`)
		for _, item := range bullets {
			b.add(`            \item ` + Escape(item))
		}
		b.add(`        \end{highlights}`, `    \end{onecolentry}`)
	}
	return b.lines()
}

// ProjectsSection renders every project entry with spacers between them.
func ProjectsSection(entries []domain.ProjectEntry, _ Layout) []string {
	if len(entries) == 0 {
		return nil
	}
	var b lines
	b.blank()
	b.add(`\section{Projects}`)
	for i, p := range entries {
		if i > 0 {
			b.blank()
			b.add("        " + entrySpacer)
			b.blank()
		}
		b.add(`        \begin{twocolentry}{`)
		b.add("            " + Escape(dateRange(p.Date, p.EndDate)))
		b.add("        }")
		b.add(projectTitle(p) + `\end{twocolentry}`)

		bullets := domain.Bullets(p.Description, p.Highlights)
		if len(bullets) == 0 {
			continue
		}
		b.add(`        \vspace{0.10 cm}`, `        \begin{onecolentry}`, `            \begin{highlights}`)
		for _, item := range bullets {
			b.add(`                \item ` + Escape(item))
		}
		b.add(`            \end{highlights}`, `        \end{onecolentry}`)
	}
	return b.lines()
}

func projectTitle(p domain.ProjectEntry) string {
	var sb strings.Builder
	sb.WriteString(`            \textbf{` + Escape(p.Title) + `}`)
	extra := []string{p.Event, p.Organization, p.Award.String(), strings.Join(p.Technologies, ", ")}
	for _, e := range extra {
		if e != "" {
			sb.WriteString(titleDivider + Escape(e))
		}
	}
	if p.URL != "" {
		sb.WriteString(titleDivider + urlLink(p.URL))
	}
	return sb.String()
}

// skillLabels fixes the display label and order of the well-known categories.
// Both snake_case and camelCase keys are accepted.
var skillLabels = map[string]struct {
	rank  int
	label string
}{
	"languages":       {0, "Languages"},
	"web_development": {1, "Web Development"},
	"webDevelopment":  {1, "Web Development"},
	"ai_ml":           {2, "AI/ML"},
	"aiML":            {2, "AI/ML"},
	"cloud_data":      {3, "Cloud & Data"},
	"cloudData":       {3, "Cloud & Data"},
	"tools":           {4, "Tools"},
}

// SkillLabel returns the display label for a category key.
func SkillLabel(key string) string {
	if known, ok := skillLabels[key]; ok {
		return known.label
	}
	return cases.Title(language.English).String(splitKey(key))
}

// splitKey turns snake_case, kebab-case and camelCase keys into words.
func splitKey(key string) string {
	var sb strings.Builder
	prevLower := false
	for _, r := range key {
		switch {
		case r == '_' || r == '-':
			sb.WriteRune(' ')
			prevLower = false
			continue
		case unicode.IsUpper(r) && prevLower:
			sb.WriteRune(' ')
		}
		sb.WriteRune(r)
		prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// orderedSkillKeys lists the non-empty categories: known ones first in their
// fixed order, then the rest alphabetically.
func orderedSkillKeys(skills domain.Skills) []string {
	keys := make([]string, 0, len(skills))
	for k, v := range skills {
		if len(v) > 0 {
			keys = append(keys, k)
		}
	}
	rank := func(k string) int {
		if known, ok := skillLabels[k]; ok {
			return known.rank
		}
		return len(skillLabels)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := rank(keys[i]), rank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})
	return keys
}

// SkillsSection renders one line per non-empty category.
func SkillsSection(skills domain.Skills, _ Layout) []string {
	keys := orderedSkillKeys(skills)
	if len(keys) == 0 {
		return nil
	}
	var b lines
	b.blank()
	b.add(`\section{Skills}`)
	b.add(`    \begin{onecolentry}`)
	for i, k := range keys {
		line := `        \textbf{` + Escape(SkillLabel(k)) + `:} ` + Escape(strings.Join(skills[k], ", "))
		if i < len(keys)-1 {
			line += ` \\`
		}
		b.add(line)
	}
	b.add(`    \end{onecolentry}`)
	return b.lines()
}
