package report

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"balancehealth/internal/domain/score"
)

// Views selectable on the progress page (form field "results").
const (
	ViewLast      = "row_data"
	ViewLastWeek  = "row_data_lastweek"
	ViewLastMonth = "row_data_lastmonth"
	ViewAll       = "all"
)

// Window lengths of the relative views.
const (
	WeekWindow  = 7 * 24 * time.Hour
	MonthWindow = 28 * 24 * time.Hour
)

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SortByDateDesc returns a copy of rows, newest date first. Equal dates keep input order.
func SortByDateDesc(rows []score.Row) []score.Row {
	out := append([]score.Row(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// Last returns every row dated on the most recent date present (ties included).
func Last(rows []score.Row) []score.Row {
	if len(rows) == 0 {
		return []score.Row{}
	}
	latest := lo.MaxBy(rows, func(a, b score.Row) bool { return a.Date.After(b.Date) }).Date
	return lo.Filter(rows, func(r score.Row, _ int) bool { return r.Date.Equal(latest) })
}

// LastWeek returns rows dated strictly after today minus 7 days.
func LastWeek(rows []score.Row, today time.Time) []score.Row {
	return since(rows, Day(today).Add(-WeekWindow))
}

// LastMonth returns rows dated strictly after today minus 28 days.
func LastMonth(rows []score.Row, today time.Time) []score.Row {
	return since(rows, Day(today).Add(-MonthWindow))
}

func since(rows []score.Row, cutoff time.Time) []score.Row {
	return lo.Filter(rows, func(r score.Row, _ int) bool { return r.Date.After(cutoff) })
}

// Select applies a view to rows and sorts the result newest first.
// Unknown view names select every row.
func Select(view string, rows []score.Row, today time.Time) []score.Row {
	switch view {
	case ViewLast:
		return SortByDateDesc(Last(rows))
	case ViewLastWeek:
		return SortByDateDesc(LastWeek(rows, today))
	case ViewLastMonth:
		return SortByDateDesc(LastMonth(rows, today))
	default:
		return SortByDateDesc(rows)
	}
}

// ViewTitle is the heading shown for a view.
func ViewTitle(view string) string {
	switch view {
	case ViewLast:
		return "Last session"
	case ViewLastWeek:
		return "Last week"
	case ViewLastMonth:
		return "Last month"
	default:
		return "All results"
	}
}
