// Package cron parses extended cron expressions into immutable schedules
// and generates the ascending sequence of instants that match them.
//
// An expression has 4, 5, 6 or 7 whitespace separated fields. The canonical
// form carries all seven:
//
//	<seconds> <minutes> <hours> <day-of-week> <day-of-month> <month> <year>
//
// Shorter forms omit the high resolution fields, which take defaults:
//
//	<seconds> <minutes> <hours> <day-of-month> <month> <year>   (day-of-week = *)
//	<minutes> <hours> <day-of-month> <month> <year>             (seconds = 0, day-of-week = *)
//	<hours> <day-of-month> <month> <year>                       (seconds = minutes = 0, day-of-week = *)
//
// Example usage:
//
//	sched, err := cron.Parse("0 0 12,16 25 dec 2018-2019")
//	if err != nil {
//	    return err
//	}
//	for t := range sched.Generate(time.UTC, start) {
//	    fmt.Println(t)
//	}
//
// A candidate instant is accepted only when BOTH the day-of-week and the
// day-of-month fields contain it. This differs from POSIX cron, which ORs the
// two fields when both are restricted.
package cron

import "fmt"

// FieldKind identifies one of the seven schedule fields.
// The numeric order matches the canonical token order of an expression.
type FieldKind int

const (
	Seconds FieldKind = iota
	Minutes
	Hours
	DayOfWeek
	DayOfMonth
	Month
	Year
)

// fieldCount is the number of fields in a canonical expression.
const fieldCount = 7

// Kinds lists all field kinds in canonical expression order.
var Kinds = [fieldCount]FieldKind{Seconds, Minutes, Hours, DayOfWeek, DayOfMonth, Month, Year}

type bounds struct {
	min, max int
}

var kindBounds = [fieldCount]bounds{
	Seconds:    {0, 59},
	Minutes:    {0, 59},
	Hours:      {0, 23},
	DayOfWeek:  {0, 6},
	DayOfMonth: {1, 31},
	Month:      {1, 12},
	Year:       {1900, 3000},
}

var kindNames = [fieldCount]string{
	Seconds:    "seconds",
	Minutes:    "minutes",
	Hours:      "hours",
	DayOfWeek:  "day-of-week",
	DayOfMonth: "day-of-month",
	Month:      "month",
	Year:       "year",
}

// Min returns the smallest legal value for the kind.
func (k FieldKind) Min() int { return kindBounds[k].min }

// Max returns the largest legal value for the kind.
func (k FieldKind) Max() int { return kindBounds[k].max }

// Valid reports whether k is one of the seven declared kinds.
func (k FieldKind) Valid() bool { return k >= Seconds && k <= Year }

// InBounds reports whether v lies within the kind's inclusive bound.
func (k FieldKind) InBounds(v int) bool {
	return v >= k.Min() && v <= k.Max()
}

func (k FieldKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
	return kindNames[k]
}
