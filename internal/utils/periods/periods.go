package periods

import "time"

// ISODate is the wire format for period boundaries.
const ISODate = "2006-01-02"

// Range is a canonical reporting period with inclusive boundaries.
type Range struct {
	From time.Time `json:"-"`
	To   time.Time `json:"-"`
}

// FromISO returns the lower boundary as an ISO date string.
func (r Range) FromISO() string { return r.From.Format(ISODate) }

// ToISO returns the upper boundary as an ISO date string.
func (r Range) ToISO() string { return r.To.Format(ISODate) }

// LastMonth returns the previous calendar month relative to ref.
func LastMonth(ref time.Time) Range {
	firstOfThis := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	from := firstOfThis.AddDate(0, -1, 0)
	to := firstOfThis.AddDate(0, 0, -1)
	return Range{From: from, To: to}
}

// LastQuarter returns the previous calendar quarter relative to ref.
func LastQuarter(ref time.Time) Range {
	quarterStartMonth := time.Month(((int(ref.Month())-1)/3)*3 + 1)
	firstOfThisQuarter := time.Date(ref.Year(), quarterStartMonth, 1, 0, 0, 0, 0, time.UTC)
	from := firstOfThisQuarter.AddDate(0, -3, 0)
	to := firstOfThisQuarter.AddDate(0, 0, -1)
	return Range{From: from, To: to}
}

// CurrentYear returns the current calendar year relative to ref.
func CurrentYear(ref time.Time) Range {
	return Range{
		From: time.Date(ref.Year(), time.January, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(ref.Year(), time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// LastYear returns the previous calendar year relative to ref.
func LastYear(ref time.Time) Range {
	return Range{
		From: time.Date(ref.Year()-1, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(ref.Year()-1, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// Canonical returns the named ranges callers can select from when requesting
// reports.
func Canonical(ref time.Time) map[string]Range {
	return map[string]Range{
		"lastMonth":   LastMonth(ref),
		"lastQuarter": LastQuarter(ref),
		"currentYear": CurrentYear(ref),
		"lastYear":    LastYear(ref),
	}
}
