// Package latex renders a resume record into LaTeX document source.
package latex

import "strings"

const backslashSentinel = "<<<BACKSLASH>>>"

var specialReplacer = strings.NewReplacer(
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"_", `\_`,
	"{", `\{`,
	"}", `\}`,
	"~", `\textasciitilde{}`,
	"^", `\textasciicircum{}`,
)

// Escape makes arbitrary text safe to place in LaTeX body text.
// Backslashes are parked on a sentinel first so the braces produced by
// their replacement are not escaped a second time.
func Escape(text string) string {
	if text == "" {
		return ""
	}
	s := strings.ReplaceAll(text, `\`, backslashSentinel)
	s = specialReplacer.Replace(s)
	return strings.ReplaceAll(s, backslashSentinel, `\textbackslash{}`)
}
