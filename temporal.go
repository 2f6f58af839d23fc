package kuzu

import (
	"fmt"
	"time"
)

const (
	secondsPerDay = 24 * 60 * 60
	microsPerDay  = int64(secondsPerDay) * 1000000
)

// Date is a calendar date without a time of day. Binding a Date always uses
// the engine's DATE type, whatever the member is called.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the date on which t falls, in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String renders d as YYYY-MM-DD.
func (d Date) String() string {
	return d.Time().Format("2006-01-02")
}

// Interval is the engine's INTERVAL: months and days are kept apart from the
// sub-day part because their length is calendar dependent.
type Interval struct {
	Months int32
	Days   int32
	Micros int64
}

// IntervalFromDuration converts d, truncated to microseconds. Whole days are
// kept in Micros so the conversion is exact.
func IntervalFromDuration(d time.Duration) Interval {
	return Interval{Micros: d.Microseconds()}
}

// Duration approximates i, counting a month as 30 days.
func (i Interval) Duration() time.Duration {
	days := int64(i.Months)*30 + int64(i.Days)
	return time.Duration(days*microsPerDay+i.Micros) * time.Microsecond
}

// String renders i the way the engine displays intervals.
func (i Interval) String() string {
	return fmt.Sprintf("%d months %d days %d us", i.Months, i.Days, i.Micros)
}

// InternalID identifies a node or relationship inside the engine.
type InternalID struct {
	TableID uint64
	Offset  uint64
}

// String renders the id as table:offset.
func (id InternalID) String() string {
	return fmt.Sprintf("%d:%d", id.TableID, id.Offset)
}

// DaysFromTime converts the calendar date of t to days since the Unix epoch.
func DaysFromTime(t time.Time) int32 {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int32(midnight.Unix() / secondsPerDay)
}

// TimeFromDays converts days since the Unix epoch to midnight UTC.
func TimeFromDays(days int32) time.Time {
	return time.Unix(int64(days)*secondsPerDay, 0).UTC()
}

// TicksFromTime converts t to ticks since the epoch in the unit of the
// timestamp precision tag.
func TicksFromTime(t time.Time, tag DataType) (int64, error) {
	switch tag {
	case TypeTimestampSec:
		return t.Unix(), nil
	case TypeTimestampMs:
		return t.UnixMilli(), nil
	case TypeTimestamp, TypeTimestampTz:
		return t.UnixMicro(), nil
	case TypeTimestampNs:
		// UnixNano is undefined outside roughly 1678..2262.
		if t.Year() < 1678 || t.Year() > 2261 {
			return 0, errorf(ErrOutOfRange, "%s cannot be represented as TIMESTAMP_NS", t.Format(time.RFC3339))
		}
		return t.UnixNano(), nil
	}
	return 0, mismatchError("TIMESTAMP", tag)
}

// TimeFromTicks is the inverse of TicksFromTime. The result is in UTC.
func TimeFromTicks(ticks int64, tag DataType) (time.Time, error) {
	switch tag {
	case TypeTimestampSec:
		return time.Unix(ticks, 0).UTC(), nil
	case TypeTimestampMs:
		return time.UnixMilli(ticks).UTC(), nil
	case TypeTimestamp, TypeTimestampTz:
		return time.UnixMicro(ticks).UTC(), nil
	case TypeTimestampNs:
		return time.Unix(0, ticks).UTC(), nil
	}
	return time.Time{}, mismatchError("TIMESTAMP", tag)
}
