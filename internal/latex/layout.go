package latex

import (
	"math"
	"strconv"
	"strings"

	"resume-api/internal/domain"
)

// Spacing bases in centimetres, scaled by line spacing outside compact mode.
const (
	sectionTopBase    = 0.3
	sectionBottomBase = 0.2
	itemBase          = 0.05

	compactSectionTop    = "0.15 cm"
	compactSectionBottom = "0.1 cm"
	compactItem          = "0.03 cm"
)

// Layout is the set of derived measurements every renderer shares.
type Layout struct {
	FontSize      int
	Margins       float64
	SectionTop    string
	SectionBottom string
	ItemSpacing   string
	SectionSize   string
	NameSize      int
}

// NewLayout derives layout measurements from settings, filling defaults.
func NewLayout(s domain.RenderSettings) Layout {
	s = s.Normalize()
	l := Layout{
		FontSize:    s.FontSize,
		Margins:     s.Margins,
		SectionSize: `\large`,
		NameSize:    25,
	}
	if s.CompactMode {
		l.SectionTop = compactSectionTop
		l.SectionBottom = compactSectionBottom
		l.ItemSpacing = compactItem
	} else {
		l.SectionTop = cm(sectionTopBase * s.LineSpacing)
		l.SectionBottom = cm(sectionBottomBase * s.LineSpacing)
		l.ItemSpacing = cm(itemBase * s.LineSpacing)
	}
	if s.FontSize <= 10 {
		l.SectionSize = `\normalsize`
	}
	switch {
	case s.FontSize < 11:
		l.NameSize = 23
	case s.FontSize > 11:
		l.NameSize = 27
	}
	return l
}

func cm(v float64) string { return num(v) + " cm" }

// num formats v with at most four decimals, keeping a trailing ".0" on
// whole numbers so "1.0" stays "1.0".
func num(v float64) string {
	r := math.Round(v*1e4) / 1e4
	s := strconv.FormatFloat(r, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
