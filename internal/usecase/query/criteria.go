package query

import (
	"strings"
	"time"

	"github.com/simaogato/moneymaster-backend/internal/domain"
)

// Period names a relative date window
type Period string

const (
	PeriodAll   Period = "all"
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Criteria selects transactions. Zero values and "all" mean no filter on
// that dimension; unrecognised kind or period values are ignored too.
type Criteria struct {
	Type       string
	CategoryID int64
	WalletID   int64
	Period     Period
	StartDate  *time.Time
	EndDate    *time.Time
}

// window is a half-open [from, to) time range; a zero bound is open
type window struct {
	from time.Time
	to   time.Time
}

func (w window) contains(t time.Time) bool {
	if !w.from.IsZero() && t.Before(w.from) {
		return false
	}
	if !w.to.IsZero() && !t.Before(w.to) {
		return false
	}
	return true
}

// periodWindow resolves a named period relative to now. ok is false for
// "all" and unknown names.
func periodWindow(p Period, now time.Time) (window, bool) {
	loc := now.Location()
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, loc)
	tomorrow := midnight.AddDate(0, 0, 1)

	switch Period(strings.ToLower(string(p))) {
	case PeriodToday:
		return window{from: midnight, to: tomorrow}, true
	case PeriodWeek:
		return window{from: now.AddDate(0, 0, -7), to: tomorrow}, true
	case PeriodMonth:
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return window{from: start, to: start.AddDate(0, 1, 0)}, true
	case PeriodYear:
		start := time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		return window{from: start, to: start.AddDate(1, 0, 0)}, true
	}
	return window{}, false
}

// rangeWindow builds the inclusive date range window. Both bounds cover
// their whole day. ok is false when neither bound is set.
func rangeWindow(start, end *time.Time) (window, bool) {
	if start == nil && end == nil {
		return window{}, false
	}
	var w window
	if start != nil {
		y, m, d := start.Date()
		w.from = time.Date(y, m, d, 0, 0, 0, 0, start.Location())
	}
	if end != nil {
		y, m, d := end.Date()
		w.to = time.Date(y, m, d, 0, 0, 0, 0, end.Location()).AddDate(0, 0, 1)
	}
	return w, true
}

func kindFilter(kind string) (domain.TransactionType, bool) {
	t := domain.TransactionType(strings.ToLower(kind))
	return t, t.Valid()
}
