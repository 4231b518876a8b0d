package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/now"

	types "github.com/yungbote/peptide-insights-backend/internal/domain"
	pkgerrors "github.com/yungbote/peptide-insights-backend/internal/pkg/errors"
)

type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

const (
	DefaultPeriod     = PeriodMonthly
	DefaultTrendLimit = 12
	MaxTrendLimit     = 1000
)

// ParsePeriod accepts daily, weekly or monthly. Empty selects DefaultPeriod;
// anything else is an invalid argument rather than a silent default.
func ParsePeriod(raw string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(raw))) {
	case "":
		return DefaultPeriod, nil
	case PeriodDaily:
		return PeriodDaily, nil
	case PeriodWeekly:
		return PeriodWeekly, nil
	case PeriodMonthly:
		return PeriodMonthly, nil
	}
	return "", fmt.Errorf("unknown trend period %q (want daily, weekly or monthly): %w", raw, pkgerrors.ErrInvalidArgument)
}

// ValidateLimit rejects negative and oversized bucket counts. Zero is valid
// and yields an empty series.
func ValidateLimit(limit int) error {
	if limit < 0 {
		return fmt.Errorf("trend limit must not be negative, got %d: %w", limit, pkgerrors.ErrInvalidArgument)
	}
	if limit > MaxTrendLimit {
		return fmt.Errorf("trend limit must be at most %d, got %d: %w", MaxTrendLimit, limit, pkgerrors.ErrInvalidArgument)
	}
	return nil
}

type TrendPoint struct {
	Period        string    `json:"period"`
	Start         time.Time `json:"start"`
	Count         int       `json:"count"`
	AverageRating float64   `json:"averageRating"`
}

var bucketClock = &now.Config{WeekStartDay: time.Monday, TimeLocation: time.UTC}

// Truncate returns the UTC start of the bucket containing t. Weeks start on
// Monday, matching ISO 8601.
func (p Period) Truncate(t time.Time) time.Time {
	n := bucketClock.With(t.UTC())
	switch p {
	case PeriodDaily:
		return n.BeginningOfDay()
	case PeriodWeekly:
		return n.BeginningOfWeek()
	default:
		return n.BeginningOfMonth()
	}
}

// Add moves a bucket start by k buckets.
func (p Period) Add(start time.Time, k int) time.Time {
	switch p {
	case PeriodDaily:
		return start.AddDate(0, 0, k)
	case PeriodWeekly:
		return start.AddDate(0, 0, 7*k)
	default:
		return start.AddDate(0, k, 0)
	}
}

// Label formats a bucket start: 2006-01-02, 2006-W01 (ISO week) or 2006-01.
func (p Period) Label(start time.Time) string {
	switch p {
	case PeriodDaily:
		return start.Format("2006-01-02")
	case PeriodWeekly:
		y, w := start.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", y, w)
	default:
		return start.Format("2006-01")
	}
}

// TrendWindow is the half-open creation-time range [from, to) covered by the
// most recent limit buckets ending with the bucket that contains at.
func TrendWindow(p Period, limit int, at time.Time) (from, to time.Time) {
	current := p.Truncate(at)
	to = p.Add(current, 1)
	if limit <= 0 {
		return to, to
	}
	return p.Add(current, -(limit - 1)), to
}

// Trend buckets active experiences into the most recent limit periods ending
// at the bucket containing at. Empty buckets are kept; the result is oldest
// first.
func Trend(exps []*types.Experience, p Period, limit int, at time.Time) []TrendPoint {
	if limit <= 0 {
		return []TrendPoint{}
	}
	from, to := TrendWindow(p, limit, at)

	tallies := make([]tally, limit)
	index := make(map[int64]int, limit)
	starts := make([]time.Time, limit)
	for i := 0; i < limit; i++ {
		starts[i] = p.Add(from, i)
		index[starts[i].Unix()] = i
	}

	for _, e := range exps {
		if e == nil || !e.IsActive {
			continue
		}
		created := e.CreatedAt.UTC()
		if created.Before(from) || !created.Before(to) {
			continue
		}
		i, ok := index[p.Truncate(created).Unix()]
		if !ok {
			continue
		}
		tallies[i].add(e)
	}

	out := make([]TrendPoint, limit)
	for i := range tallies {
		out[i] = TrendPoint{
			Period:        p.Label(starts[i]),
			Start:         starts[i],
			Count:         tallies[i].count,
			AverageRating: tallies[i].rating.value(),
		}
	}
	return out
}
