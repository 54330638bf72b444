package report

import (
	"errors"
	"math"

	"github.com/samber/lo"

	"balancehealth/internal/domain/activity"
	"balancehealth/internal/domain/score"
)

// ErrNoData reports an aggregation over zero rows.
var ErrNoData = errors.New("no activity results")

// PercentageOrder is the display order of completion percentages.
var PercentageOrder = []activity.Kind{
	activity.KindFeetTogether,
	activity.KindInstep,
	activity.KindTandem,
	activity.KindOneFoot,
}

// KindPercentage is the completion rate of one activity.
// HasData is false when the activity has no rows; Value is then meaningless.
type KindPercentage struct {
	Kind      activity.Kind
	Label     string
	Completed int
	Total     int
	Value     float64
	HasData   bool
}

// Percentage returns round(100*completed/total, 2) for kind.
// Returns ErrNoData when kind has no rows.
func Percentage(rows []score.Row, kind activity.Kind) (float64, error) {
	p := percentageOf(rows, kind)
	if !p.HasData {
		return 0, ErrNoData
	}
	return p.Value, nil
}

// Percentages returns one entry per known activity in PercentageOrder.
func Percentages(rows []score.Row) []KindPercentage {
	return lo.Map(PercentageOrder, func(k activity.Kind, _ int) KindPercentage {
		return percentageOf(rows, k)
	})
}

func percentageOf(rows []score.Row, kind activity.Kind) KindPercentage {
	ofKind := lo.Filter(rows, func(r score.Row, _ int) bool { return r.Kind == kind })
	completed := lo.CountBy(ofKind, func(r score.Row) bool { return r.Completed })
	p := KindPercentage{
		Kind:      kind,
		Label:     kind.Label(),
		Completed: completed,
		Total:     len(ofKind),
	}
	if p.Total == 0 {
		return p
	}
	p.HasData = true
	p.Value = round2(100 * float64(completed) / float64(p.Total))
	return p
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
