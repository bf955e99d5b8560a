package domain

import "time"

// TimeRange limits admin views to recently created orders
type TimeRange string

const (
	RangeToday TimeRange = "today"
	RangeWeek  TimeRange = "week"
	RangeMonth TimeRange = "month"
	RangeAll   TimeRange = "all"
)

func (r TimeRange) Valid() bool {
	switch r {
	case RangeToday, RangeWeek, RangeMonth, RangeAll:
		return true
	}
	return false
}

func (r *TimeRange) UnmarshalJSON(data []byte) error {
	v, err := unmarshalEnum(data, "time range", func(v string) bool { return TimeRange(v).Valid() })
	if err != nil {
		return err
	}
	*r = TimeRange(v)
	return nil
}

// Contains reports whether t falls inside the range ending at now. "today" compares calendar
// dates in loc; week and month are rolling 7 and 30 day windows.
func (r TimeRange) Contains(t, now time.Time, loc *time.Location) bool {
	switch r {
	case RangeToday:
		return SameDay(t, now, loc)
	case RangeWeek:
		return !t.Before(now.Add(-7 * 24 * time.Hour))
	case RangeMonth:
		return !t.Before(now.Add(-30 * 24 * time.Hour))
	}
	return true
}

// SameDay reports whether a and b share a calendar date in loc
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
