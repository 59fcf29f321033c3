// Package stats reduces task rows into labelled series for dashboards and
// charts. Every reducer is pure: the caller filters rows, the reducer groups
// and orders them. An empty grouping is reported as ErrNoData rather than an
// empty series.
package stats

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/employeest/employeest-api/internal/models"
)

// ErrNoData is returned when a rollup has nothing to group.
var ErrNoData = errors.New("no data")

// Point is one bucket of a rollup.
type Point struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// Series is an ordered list of buckets.
type Series []Point

func (s Series) Labels() []string {
	labels := make([]string, len(s))
	for i, p := range s {
		labels[i] = p.Label
	}
	return labels
}

func (s Series) Values() []int64 {
	values := make([]int64, len(s))
	for i, p := range s {
		values[i] = p.Value
	}
	return values
}

// StatusCount is one row of a GROUP BY status query.
type StatusCount struct {
	Status models.TaskStatus
	Count  int64
}

// Sample is a timestamped value; Value is the story points for sums and 1
// for counts.
type Sample struct {
	At    time.Time
	Value int64
}

// StatusDistribution orders status counts by status name. Statuses that
// appear more than once are merged.
func StatusDistribution(rows []StatusCount) (Series, error) {
	totals := make(map[models.TaskStatus]int64, len(rows))
	for _, r := range rows {
		if r.Count <= 0 {
			continue
		}
		totals[r.Status] += r.Count
	}
	if len(totals) == 0 {
		return nil, ErrNoData
	}

	series := make(Series, 0, len(totals))
	for status, count := range totals {
		series = append(series, Point{Label: string(status), Value: count})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Label < series[j].Label })
	return series, nil
}

// WeekLabel formats the ISO week containing t, e.g. "2024-W07".
func WeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// MonthLabel formats the calendar month containing t, e.g. "2024-02".
func MonthLabel(t time.Time) string {
	return t.Format("2006-01")
}

// WeeklySum sums sample values per ISO week, ascending.
func WeeklySum(samples []Sample) (Series, error) {
	return bucket(samples, WeekLabel)
}

// MonthlySum sums sample values per calendar month, ascending.
func MonthlySum(samples []Sample) (Series, error) {
	return bucket(samples, MonthLabel)
}

// MonthlyCount counts samples per calendar month, ascending.
func MonthlyCount(times []time.Time) (Series, error) {
	samples := make([]Sample, len(times))
	for i, t := range times {
		samples[i] = Sample{At: t, Value: 1}
	}
	return bucket(samples, MonthLabel)
}

// Labels produced by WeekLabel and MonthLabel sort lexically in time order.
func bucket(samples []Sample, label func(time.Time) string) (Series, error) {
	if len(samples) == 0 {
		return nil, ErrNoData
	}

	totals := make(map[string]int64)
	for _, s := range samples {
		totals[label(s.At.UTC())] += s.Value
	}

	series := make(Series, 0, len(totals))
	for l, v := range totals {
		series = append(series, Point{Label: l, Value: v})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Label < series[j].Label })
	return series, nil
}

// Since returns the lower bound of a trailing window ending at now.
func Since(now time.Time, window time.Duration) time.Time {
	return now.Add(-window)
}
