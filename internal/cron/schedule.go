package cron

import (
	"iter"
	"strings"
	"time"
)

// Schedule is the immutable aggregate of seven parsed field sets.
// It holds no generation state, so one Schedule can drive any number of
// concurrent sequences.
type Schedule struct {
	expression string
	fields     [fieldCount]ValueSet
	values     [fieldCount][]int

	// daysByLength[n] holds the day-of-month values usable in a month of n days.
	daysByLength [32][]int
}

// Parse expands and parses expression. Every field is validated eagerly, so a
// returned Schedule can always generate.
func Parse(expression string) (*Schedule, error) {
	tokens, err := Expand(expression)
	if err != nil {
		return nil, err
	}

	var fields [fieldCount]ValueSet
	for i, kind := range Kinds {
		set, err := ParseField(tokens[i], kind)
		if err != nil {
			return nil, err
		}
		fields[i] = set
	}
	return newSchedule(expression, fields), nil
}

// MustParse is like Parse but panics on error. Intended for expressions
// known at compile time.
func MustParse(expression string) *Schedule {
	s, err := Parse(expression)
	if err != nil {
		panic(err)
	}
	return s
}

// New assembles a Schedule from already parsed sets given in canonical order.
func New(fields [fieldCount]ValueSet) (*Schedule, error) {
	tokens := make([]string, fieldCount)
	for i, kind := range Kinds {
		if fields[i] == nil || fields[i].Kind() != kind {
			return nil, &TokenSyntaxError{Kind: kind, Token: "<missing>"}
		}
		tokens[i] = fields[i].String()
	}
	return newSchedule(strings.Join(tokens, " "), fields), nil
}

func newSchedule(expression string, fields [fieldCount]ValueSet) *Schedule {
	s := &Schedule{expression: expression, fields: fields}
	for i, f := range fields {
		s.values[i] = f.Values()
	}
	for n := 28; n <= 31; n++ {
		for _, d := range s.values[DayOfMonth] {
			if d <= n {
				s.daysByLength[n] = append(s.daysByLength[n], d)
			}
		}
	}
	return s
}

// Expression returns the text the schedule was parsed from.
func (s *Schedule) Expression() string { return s.expression }

// Field returns the parsed set for kind.
func (s *Schedule) Field(kind FieldKind) ValueSet { return s.fields[kind] }

// String renders the canonical seven field form.
func (s *Schedule) String() string {
	parts := make([]string, fieldCount)
	for i, f := range s.fields {
		parts[i] = f.String()
	}
	return strings.Join(parts, " ")
}

// Generate returns the lazy ascending sequence of instants at or after start
// that satisfy every field, evaluated in loc. A nil loc means UTC.
// Each range over the result starts a fresh walk.
func (s *Schedule) Generate(loc *time.Location, start time.Time) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		it := s.Iterator(loc, start)
		for {
			t, ok := it.Next()
			if !ok || !yield(t) {
				return
			}
		}
	}
}

// Next returns the first matching instant strictly after after.
// ok is false when the year field is exhausted.
func (s *Schedule) Next(loc *time.Location, after time.Time) (time.Time, bool) {
	it := s.Iterator(loc, after)
	for {
		t, ok := it.Next()
		if !ok {
			return time.Time{}, false
		}
		if t.After(after) {
			return t, true
		}
	}
}

// Take collects at most n elements of seq.
func Take(seq iter.Seq[time.Time], n int) []time.Time {
	if n <= 0 {
		return nil
	}
	out := make([]time.Time, 0, n)
	for t := range seq {
		out = append(out, t)
		if len(out) == n {
			break
		}
	}
	return out
}

// Until yields the elements of seq strictly before end.
func Until(seq iter.Seq[time.Time], end time.Time) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		for t := range seq {
			if !t.Before(end) || !yield(t) {
				return
			}
		}
	}
}
