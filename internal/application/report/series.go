package report

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"balancehealth/internal/domain/activity"
	"balancehealth/internal/domain/score"
)

// DailyWindowDays is the number of days shown by the daily-count chart.
const DailyWindowDays = 7

// SignalLimit is the number of recent attempts drawn in the signal grid.
const SignalLimit = 7

// Completion labels used by the breakdown charts.
const (
	LabelCompleted    = "Completed"
	LabelNotCompleted = "Not completed"
)

// DayCount is the number of attempts on one calendar day.
type DayCount struct {
	Date  time.Time
	Count int
}

// DailyCounts counts feet-together attempts per day over the last DailyWindowDays
// of the range from the first attempt to today. Days without attempts count zero.
// Returns ErrNoData when there are no feet-together rows.
func DailyCounts(rows []score.Row, today time.Time) ([]DayCount, error) {
	feet := lo.Filter(rows, func(r score.Row, _ int) bool { return r.Kind == activity.KindFeetTogether })
	if len(feet) == 0 {
		return nil, ErrNoData
	}
	counts := lo.CountValuesBy(feet, func(r score.Row) time.Time { return r.Date })

	first := lo.MinBy(feet, func(a, b score.Row) bool { return a.Date.Before(b.Date) }).Date
	end := Day(today)
	if latest := lo.MaxBy(feet, func(a, b score.Row) bool { return a.Date.After(b.Date) }).Date; latest.After(end) {
		end = latest
	}
	start := end.AddDate(0, 0, -(DailyWindowDays - 1))
	if first.After(start) {
		start = first
	}

	var out []DayCount
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, DayCount{Date: d, Count: counts[d]})
	}
	return out, nil
}

// CompletionCount is the completed/not-completed split of one activity.
type CompletionCount struct {
	Activity     string
	Completed    int
	NotCompleted int
}

// CompletionBreakdown groups rows by activity and completion, activities in first-seen order.
func CompletionBreakdown(rows []score.Row) []CompletionCount {
	names := lo.Uniq(lo.Map(rows, func(r score.Row, _ int) string { return r.ActivityName }))
	grouped := lo.GroupBy(rows, func(r score.Row) string { return r.ActivityName })
	return lo.Map(names, func(name string, _ int) CompletionCount {
		group := grouped[name]
		done := lo.CountBy(group, func(r score.Row) bool { return r.Completed })
		return CompletionCount{Activity: name, Completed: done, NotCompleted: len(group) - done}
	})
}

// Node is one level of the activity → date → completion breakdown.
type Node struct {
	Label    string
	Count    int
	Children []Node
}

// Hierarchy builds the three-level breakdown: activity (first-seen order),
// date (oldest first), completion (completed first). Empty branches are omitted.
func Hierarchy(rows []score.Row) []Node {
	names := lo.Uniq(lo.Map(rows, func(r score.Row, _ int) string { return r.ActivityName }))
	byActivity := lo.GroupBy(rows, func(r score.Row) string { return r.ActivityName })

	return lo.Map(names, func(name string, _ int) Node {
		group := byActivity[name]
		byDate := lo.GroupBy(group, func(r score.Row) time.Time { return r.Date })
		dates := lo.Keys(byDate)
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

		activityNode := Node{Label: name, Count: len(group)}
		for _, d := range dates {
			dayRows := byDate[d]
			done := lo.CountBy(dayRows, func(r score.Row) bool { return r.Completed })
			dateNode := Node{Label: d.Format(score.DateLayout), Count: len(dayRows)}
			if done > 0 {
				dateNode.Children = append(dateNode.Children, Node{Label: LabelCompleted, Count: done})
			}
			if len(dayRows)-done > 0 {
				dateNode.Children = append(dateNode.Children, Node{Label: LabelNotCompleted, Count: len(dayRows) - done})
			}
			activityNode.Children = append(activityNode.Children, dateNode)
		}
		return activityNode
	})
}

// Signal is the raw sample sequence of one attempt.
type Signal struct {
	Title     string
	Date      time.Time
	Completed bool
	Samples   []float64
}

// ForActivity returns the rows of one activity, newest first.
func ForActivity(rows []score.Row, label string) []score.Row {
	return SortByDateDesc(lo.Filter(rows, func(r score.Row, _ int) bool { return r.ActivityName == label }))
}

// SignalSeries returns the raw samples of up to limit most recent attempts of an activity.
// Each title is the activity label followed by the date.
func SignalSeries(rows []score.Row, label string, limit int) []Signal {
	recent := ForActivity(rows, label)
	if limit >= 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	return lo.Map(recent, func(r score.Row, _ int) Signal {
		return Signal{
			Title:     r.ActivityName + " " + r.DateString(),
			Date:      r.Date,
			Completed: r.Completed,
			Samples:   r.Samples,
		}
	})
}

// TrendPoint is one attempt's average and maximum value.
type TrendPoint struct {
	Date time.Time
	Avg  float64
	Max  float64
}

// AverageTrend returns the activity's attempts oldest first as avg/max points.
func AverageTrend(rows []score.Row, label string) []TrendPoint {
	ofActivity := lo.Filter(rows, func(r score.Row, _ int) bool { return r.ActivityName == label })
	sort.SliceStable(ofActivity, func(i, j int) bool { return ofActivity[i].Date.Before(ofActivity[j].Date) })
	return lo.Map(ofActivity, func(r score.Row, _ int) TrendPoint {
		return TrendPoint{Date: r.Date, Avg: r.Avg, Max: r.Max}
	})
}
