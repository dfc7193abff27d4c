package pipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var dmyPattern = regexp.MustCompile(`^(\d{1,2})[\/\-](\d{1,2})[\/\-](\d{2,4})$`)

// Layouts tried by the generic fallback parse, most specific first.
var fallbackLayouts = []string{
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006/01/02",
	"02.01.2006",
	time.RFC3339,
}

// NormalizeDate converts heterogeneous statement date strings to
// YYYY-MM-DD. Nil or blank input yields nil; already-ISO strings pass
// through; D/M/Y and D-M-Y forms are zero-padded (2-digit years are
// 2000s); anything else is tried against common calendar layouts and, if
// still unparseable, returned unchanged. The function never fails, so
// downstream consumers must tolerate non-ISO strings as a degraded case.
func NormalizeDate(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}

	if isISODate(t) {
		return &t
	}

	if m := dmyPattern.FindStringSubmatch(t); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year := m[3]
		if len(year) == 2 {
			year = "20" + year
		}
		iso := fmt.Sprintf("%s-%02d-%02d", year, month, day)
		return &iso
	}

	for _, layout := range fallbackLayouts {
		if parsed, err := time.Parse(layout, t); err == nil {
			iso := parsed.Format("2006-01-02")
			return &iso
		}
	}

	return &t
}

func isISODate(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	for i, r := range s {
		if i == 4 || i == 7 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
