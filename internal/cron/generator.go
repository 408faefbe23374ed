package cron

import (
	"slices"
	"time"
)

// Cursor levels, coarsest first.
const (
	levelYear = iota
	levelMonth
	levelDay
	levelHour
	levelMinute
	levelSecond
	levelCount
)

// levelKinds maps a cursor level to the field it walks.
var levelKinds = [levelCount]FieldKind{Year, Month, DayOfMonth, Hours, Minutes, Seconds}

// cursor is a position in the schedule: one index per level into the
// schedule's value lists. It is a plain value; transitions return a new one.
type cursor struct {
	idx [levelCount]int
	// days is the day-of-month list valid for the current year and month.
	// It aliases a read-only slice owned by the Schedule.
	days []int
}

func (s *Schedule) list(level int, c *cursor) []int {
	if level == levelDay {
		return c.days
	}
	return s.values[levelKinds[level]]
}

func (s *Schedule) value(level int, c *cursor) int {
	return s.list(level, c)[c.idx[level]]
}

// daysFor returns the day-of-month values that exist in the cursor's month.
func (s *Schedule) daysFor(c *cursor) []int {
	year := s.values[Year][c.idx[levelYear]]
	month := s.values[Month][c.idx[levelMonth]]
	return s.daysByLength[daysIn(year, time.Month(month))]
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// seek positions c at the earliest raw candidate whose fields are not before
// target, walking from the coarsest level down. A level matched exactly keeps
// the lower levels bound to target; any larger value releases them to their
// first entry.
func (s *Schedule) seek(c *cursor, level int, target [levelCount]int, tight bool) bool {
	if level == levelCount {
		return true
	}
	if level == levelDay {
		c.days = s.daysFor(c)
	}
	values := s.list(level, c)
	i := 0
	if tight {
		i, _ = slices.BinarySearch(values, target[level])
	}
	for ; i < len(values); i++ {
		c.idx[level] = i
		if s.seek(c, level+1, target, tight && values[i] == target[level]) {
			return true
		}
	}
	return false
}

// advance moves c to the next raw candidate, odometer style: the finest level
// that can step does so and every finer level resets. Month and year changes
// recompute the day list and skip months with no usable day. ok is false once
// the year list is exhausted.
func (s *Schedule) advance(c cursor) (cursor, bool) {
	for level := levelSecond; level >= levelDay; level-- {
		if c.idx[level]+1 < len(s.list(level, &c)) {
			c.idx[level]++
			return c, true
		}
		c.idx[level] = 0
	}
	for {
		if c.idx[levelMonth]+1 < len(s.values[Month]) {
			c.idx[levelMonth]++
		} else {
			if c.idx[levelYear]+1 >= len(s.values[Year]) {
				return c, false
			}
			c.idx[levelMonth] = 0
			c.idx[levelYear]++
		}
		c.days = s.daysFor(&c)
		if len(c.days) > 0 {
			return c, true
		}
	}
}

// endOfDay moves the time-of-day levels to their last entries so the next
// advance carries into the following day.
func (s *Schedule) endOfDay(c cursor) cursor {
	for level := levelHour; level < levelCount; level++ {
		c.idx[level] = len(s.list(level, &c)) - 1
	}
	return c
}

// acceptDay is the day predicate: day-of-week AND day-of-month must both hold.
func (s *Schedule) acceptDay(c *cursor) bool {
	year := s.value(levelYear, c)
	month := s.value(levelMonth, c)
	day := s.value(levelDay, c)
	weekday := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Weekday()
	return s.fields[DayOfWeek].Contains(int(weekday)) && s.fields[DayOfMonth].Contains(day)
}

// instant resolves c in loc. exists is false when the wall clock time is
// skipped in loc, such as inside a daylight saving gap.
func (s *Schedule) instant(c *cursor, loc *time.Location) (t time.Time, exists bool) {
	var v [levelCount]int
	for level := range v {
		v[level] = s.value(level, c)
	}
	t = time.Date(v[levelYear], time.Month(v[levelMonth]), v[levelDay], v[levelHour], v[levelMinute], v[levelSecond], 0, loc)
	exists = t.Year() == v[levelYear] && int(t.Month()) == v[levelMonth] && t.Day() == v[levelDay] &&
		t.Hour() == v[levelHour] && t.Minute() == v[levelMinute] && t.Second() == v[levelSecond]
	return t, exists
}

// Iterator is a single pull-based walk over a Schedule. It is not safe for
// concurrent use and cannot be rewound; call Schedule.Iterator again instead.
type Iterator struct {
	sched *Schedule
	loc   *time.Location
	start time.Time

	c       cursor
	last    time.Time
	started bool
	emitted bool
	done    bool
}

// Iterator returns a fresh walk starting at start (inclusive) in loc.
// A nil loc means UTC.
func (s *Schedule) Iterator(loc *time.Location, start time.Time) *Iterator {
	if loc == nil {
		loc = time.UTC
	}
	return &Iterator{sched: s, loc: loc, start: start}
}

// Next returns the next matching instant. ok is false when the sequence has
// ended, after which every call returns false.
func (it *Iterator) Next() (time.Time, bool) {
	if it.done {
		return time.Time{}, false
	}

	var ok bool
	if !it.started {
		it.started = true
		it.c, ok = it.first()
	} else {
		it.c, ok = it.sched.advance(it.c)
	}

	for ok {
		if !it.sched.acceptDay(&it.c) {
			it.c, ok = it.sched.advance(it.sched.endOfDay(it.c))
			continue
		}
		t, exists := it.sched.instant(&it.c, it.loc)
		if exists && !t.Before(it.start) && (!it.emitted || t.After(it.last)) {
			it.last, it.emitted = t, true
			return t, true
		}
		it.c, ok = it.sched.advance(it.c)
	}

	it.done = true
	return time.Time{}, false
}

func (it *Iterator) first() (cursor, bool) {
	local := it.start.In(it.loc)
	target := [levelCount]int{
		levelYear:   local.Year(),
		levelMonth:  int(local.Month()),
		levelDay:    local.Day(),
		levelHour:   local.Hour(),
		levelMinute: local.Minute(),
		levelSecond: local.Second(),
	}
	var c cursor
	if !it.sched.seek(&c, levelYear, target, true) {
		return c, false
	}
	return c, true
}
