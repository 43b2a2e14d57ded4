// Package datetime converts between elapsed seconds since the Unix epoch and
// civil calendar fields using integer-only day-count arithmetic. The forward
// and inverse day transforms are exact over the supported domain (years at or
// after 1970); leap years fall out of the day-count algorithm and leap
// seconds are not modelled.
package datetime

import "fmt"

// EpochYear is the first supported civil year.
const EpochYear = 1970

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour

	// Day count of 1970-01-01 within the 400-year era arithmetic.
	epochDayOffset = 719468
	daysPerEra     = 146097
)

// Civil holds a broken-down calendar timestamp.
type Civil struct {
	Year   int64
	Month  uint8
	Day    uint8
	Hour   uint8
	Minute uint8
	Second uint8
}

// String renders the timestamp as "YYYY/MM/DD HH:MM:SS".
func (c Civil) String() string {
	return fmt.Sprintf("%04d/%02d/%02d %02d:%02d:%02d", c.Year, c.Month, c.Day, c.Hour, c.Minute, c.Second)
}

// DaysFromCivil returns the day count since 1970-01-01 for a civil date.
// Dates before the epoch year are out of domain.
func DaysFromCivil(year int64, month, day uint8) (int64, error) {
	if year < EpochYear {
		return 0, fmt.Errorf("datetime: year %d precedes epoch year %d", year, EpochYear)
	}
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("datetime: month %d out of range", month)
	}
	if day < 1 || day > 31 {
		return 0, fmt.Errorf("datetime: day %d out of range", day)
	}
	y := year
	if month <= 2 {
		y--
	}
	era := y / 400
	yoe := y - era*400
	var mp int64
	if month > 2 {
		mp = int64(month) - 3
	} else {
		mp = int64(month) + 9
	}
	doy := (153*mp+2)/5 + int64(day) - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*daysPerEra + doe - epochDayOffset, nil
}

// CivilFromDays is the exact inverse of DaysFromCivil.
func CivilFromDays(days int64) (year int64, month, day uint8) {
	z := days + epochDayOffset
	era := z / daysPerEra
	doe := z - era*daysPerEra
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d := doy - (153*mp+2)/5 + 1
	var m int64
	if mp < 10 {
		m = mp + 3
	} else {
		m = mp - 9
	}
	if m <= 2 {
		y++
	}
	return y, uint8(m), uint8(d)
}

// FromTimestamp splits an elapsed-seconds timestamp into civil fields. The
// time-of-day fields come from the within-day remainder.
func FromTimestamp(secs uint64) Civil {
	days := int64(secs / secondsPerDay)
	rem := secs % secondsPerDay
	year, month, day := CivilFromDays(days)
	return Civil{
		Year:   year,
		Month:  month,
		Day:    day,
		Hour:   uint8(rem / secondsPerHour),
		Minute: uint8((rem % secondsPerHour) / secondsPerMinute),
		Second: uint8(rem % secondsPerMinute),
	}
}

// ToTimestamp converts civil fields back to elapsed seconds.
func ToTimestamp(c Civil) (uint64, error) {
	days, err := DaysFromCivil(c.Year, c.Month, c.Day)
	if err != nil {
		return 0, err
	}
	return uint64(days)*secondsPerDay +
		uint64(c.Hour)*secondsPerHour +
		uint64(c.Minute)*secondsPerMinute +
		uint64(c.Second), nil
}
