package latex

import (
	"fmt"
	"strings"
)

// lines accumulates document source one line at a time.
type lines struct {
	buf []string
}

func (l *lines) add(s ...string) {
	l.buf = append(l.buf, s...)
}

func (l *lines) addf(format string, args ...any) {
	l.buf = append(l.buf, fmt.Sprintf(format, args...))
}

func (l *lines) blank() {
	l.buf = append(l.buf, "")
}

func (l *lines) lines() []string {
	return l.buf
}

func join(sections ...[]string) string {
	var all []string
	for _, s := range sections {
		all = append(all, s...)
	}
	return strings.Join(all, "\n")
}
