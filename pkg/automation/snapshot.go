// Package automation drives a browser through multi-step web tasks chosen
// one action at a time by a planner.
package automation

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RefAttr marks interactive elements in a captured page.
const (
	RefAttr   = "data-agent-ref"
	ValueAttr = "data-agent-value"
)

const (
	maxElements = 150
	maxText     = 80
)

// Element is one interactive control visible to the planner.
type Element struct {
	Ref         string `json:"ref"`
	Tag         string `json:"tag"`
	Type        string `json:"type,omitempty"`
	Role        string `json:"role,omitempty"`
	Label       string `json:"label,omitempty"`
	Text        string `json:"text,omitempty"`
	Value       string `json:"value,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Href        string `json:"href,omitempty"`
}

// Page is a compact view of the current document.
type Page struct {
	URL      string    `json:"url"`
	Title    string    `json:"title"`
	Elements []Element `json:"elements"`
}

// ParsePage reads the tagged elements out of captured HTML.
func ParsePage(url, html string) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Page{}, err
	}
	page := Page{URL: url, Title: clean(doc.Find("title").First().Text())}

	labels := map[string]string{}
	doc.Find("label[for]").Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("for"); ok {
			labels[id] = clean(s.Text())
		}
	})

	doc.Find("[" + RefAttr + "]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(page.Elements) >= maxElements {
			return false
		}
		el := Element{
			Ref:         s.AttrOr(RefAttr, ""),
			Tag:         goquery.NodeName(s),
			Type:        s.AttrOr("type", ""),
			Role:        s.AttrOr("role", ""),
			Placeholder: clean(s.AttrOr("placeholder", "")),
			Href:        s.AttrOr("href", ""),
		}
		el.Label = clean(s.AttrOr("aria-label", ""))
		if el.Label == "" {
			if id, ok := s.Attr("id"); ok {
				el.Label = labels[id]
			}
		}
		if el.Label == "" {
			el.Label = clean(s.Closest("label").Text())
		}
		if el.Type != "password" {
			el.Value = clean(s.AttrOr(ValueAttr, ""))
		}
		switch el.Tag {
		case "select":
			el.Text = clean(s.Find("option[selected]").First().Text())
		case "input", "textarea":
		default:
			el.Text = clean(s.Text())
		}
		page.Elements = append(page.Elements, el)
		return true
	})
	return page, nil
}

func clean(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > maxText {
		return string(r[:maxText]) + "…"
	}
	return s
}
