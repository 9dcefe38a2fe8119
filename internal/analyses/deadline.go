package analyses

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ResolvedDeadline carries the scheduling date for a task deadline.
// Display always preserves the original expression; Resolved is false
// when the fallback of resolution time + 7 days was substituted.
type ResolvedDeadline struct {
	Date     time.Time
	Resolved bool
	Display  string
}

var (
	isoPattern      = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	relativePattern = regexp.MustCompile(`^(\d{1,3})(?:\s*일)?(?:\s*(?:후|이내|내|안에))?$`)
	monthDayPattern = regexp.MustCompile(`^(\d{1,2})\s*월\s*(\d{1,2})\s*일$`)
	shortPattern    = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})$`)
)

// ResolveDeadline maps a free-text deadline expression to a concrete
// date. The grammar is tried in a fixed order: ISO date, relative day
// count, month-day phrase, MM/DD. Unrecognized text falls back to
// now + 7 days with Resolved set to false. Never fails.
func ResolveDeadline(expr string, now time.Time) ResolvedDeadline {
	display := expr
	trimmed := strings.TrimSpace(expr)

	if m := isoPattern.FindStringSubmatch(trimmed); m != nil {
		if date, err := time.ParseInLocation("2006-01-02", trimmed, time.UTC); err == nil {
			return ResolvedDeadline{Date: date, Resolved: true, Display: display}
		}
	}

	if m := relativePattern.FindStringSubmatch(trimmed); m != nil {
		days, err := strconv.Atoi(m[1])
		if err == nil {
			return ResolvedDeadline{Date: now.AddDate(0, 0, days), Resolved: true, Display: display}
		}
	}

	if m := monthDayPattern.FindStringSubmatch(trimmed); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		if validMonthDay(month, day) {
			date := time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, time.UTC)
			return ResolvedDeadline{Date: date, Resolved: true, Display: display}
		}
	}

	if m := shortPattern.FindStringSubmatch(trimmed); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		if validMonthDay(month, day) {
			date := time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, time.UTC)
			return ResolvedDeadline{Date: date, Resolved: true, Display: display}
		}
	}

	return ResolvedDeadline{Date: now.AddDate(0, 0, 7), Resolved: false, Display: display}
}

func validMonthDay(month, day int) bool {
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}
