package forecast

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	compactDate = regexp.MustCompile(`^\d{8}$`)
	ymdDate     = regexp.MustCompile(`^(\d{4})[-/](\d{2})[-/](\d{2})`)
)

// textualLayouts covers RFC-822-style dates from feed pubDate fields.
var textualLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 2 Jan 2006",
	"2 Jan 2006",
}

// CanonicalDate normalizes provider-native date strings to YYYY-MM-DD:
// 8-digit compact, slash or dash delimited, ISO datetime prefixes, and
// RFC-822-style textual dates. Anything else is returned as-is rather
// than fabricated.
func CanonicalDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if compactDate.MatchString(s) {
		return fmt.Sprintf("%s-%s-%s", s[0:4], s[4:6], s[6:8])
	}
	if m := ymdDate.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3])
	}
	for _, layout := range textualLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}
