// Package timeparsing turns user-supplied time expressions into concrete
// instants for log and list filters.
//
// Parsing is layered: compact durations first (6h, 2d, 1w), then absolute
// timestamps (RFC3339 or YYYY-MM-DD), then natural language ("yesterday",
// "30 minutes ago") through the when library.
package timeparsing

import (
	"fmt"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// compactRe matches compact duration syntax: an optional minus sign, an
// amount, and a unit (hours, days, weeks, months, years).
var compactRe = regexp.MustCompile(`^(-?)(\d+)([hdwmy])$`)

var (
	nlpOnce   sync.Once
	nlpParser *when.Parser
)

func nlp() *when.Parser {
	nlpOnce.Do(func() {
		nlpParser = when.New(nil)
		nlpParser.Add(en.All...)
		nlpParser.Add(common.All...)
	})
	return nlpParser
}

// ParseSince resolves a --since expression against now. Compact durations
// count backwards: "6h" and "-6h" both mean six hours ago.
func ParseSince(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time expression")
	}

	if m := compactRe.FindStringSubmatch(s); m != nil {
		amount, err := strconv.Atoi(m[2])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid duration amount: %q", m[2])
		}
		return shiftBack(now, amount, m[3]), nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, now.Location()); err == nil {
		return t, nil
	}

	r, err := nlp().Parse(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %q: %w", s, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("unrecognized time expression: %q", s)
	}
	return r.Time, nil
}

// IsCompactDuration reports whether s is compact duration syntax. Used to
// validate estimate strings like "2d" without resolving them.
func IsCompactDuration(s string) bool {
	return compactRe.MatchString(s)
}

func shiftBack(base time.Time, amount int, unit string) time.Time {
	switch unit {
	case "h":
		return base.Add(-time.Duration(amount) * time.Hour)
	case "d":
		return base.AddDate(0, 0, -amount)
	case "w":
		return base.AddDate(0, 0, -amount*7)
	case "m":
		return base.AddDate(0, -amount, 0)
	case "y":
		return base.AddDate(-amount, 0, 0)
	default:
		return base
	}
}
