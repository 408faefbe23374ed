package cron

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseField_Shapes(t *testing.T) {
	tests := []struct {
		name  string
		token string
		kind  FieldKind
		want  []int
	}{
		{name: "scalar", token: "25", kind: Seconds, want: []int{25}},
		{name: "range with step", token: "0-10/2", kind: Seconds, want: []int{0, 2, 4, 6, 8, 10}},
		{name: "plain range", token: "3-6", kind: Hours, want: []int{3, 4, 5, 6}},
		{name: "step not reaching end", token: "1-10/4", kind: DayOfMonth, want: []int{1, 5, 9}},
		{name: "wildcard", token: "*", kind: DayOfWeek, want: []int{0, 1, 2, 3, 4, 5, 6}},
		{name: "wildcard with step", token: "*/15", kind: Minutes, want: []int{0, 15, 30, 45}},
		{name: "month name", token: "dec", kind: Month, want: []int{12}},
		{name: "month name upper case", token: "JAN", kind: Month, want: []int{1}},
		{name: "month name range", token: "jan-jun", kind: Month, want: []int{1, 2, 3, 4, 5, 6}},
		{name: "month name range with step", token: "jan-jun/2", kind: Month, want: []int{1, 3, 5}},
		{name: "day name", token: "Wed", kind: DayOfWeek, want: []int{3}},
		{name: "day name range", token: "mon-fri", kind: DayOfWeek, want: []int{1, 2, 3, 4, 5}},
		{name: "sunday is zero", token: "sun", kind: DayOfWeek, want: []int{0}},
		{name: "mixed name and number", token: "1-mar", kind: Month, want: []int{1, 2, 3}},
		{name: "list", token: "12,16", kind: Hours, want: []int{12, 16}},
		{name: "overlapping list", token: "0-2,0-10/2", kind: Seconds, want: []int{0, 1, 2, 4, 6, 8, 10}},
		{name: "unsorted list", token: "30,5,17", kind: Minutes, want: []int{5, 17, 30}},
		{name: "year range", token: "2018-2019", kind: Year, want: []int{2018, 2019}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := ParseField(tt.token, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, set.Kind())
			assert.Equal(t, tt.want, set.Values())
		})
	}
}

func TestParseField_Variants(t *testing.T) {
	set, err := ParseField("25", Seconds)
	require.NoError(t, err)
	want, err := NewScalar(Seconds, 25)
	require.NoError(t, err)
	assert.Equal(t, want, set)

	set, err = ParseField("0-10/2", Seconds)
	require.NoError(t, err)
	r, ok := set.(Range)
	require.True(t, ok, "expected Range, got %T", set)
	assert.Equal(t, 0, r.Start())
	assert.Equal(t, 10, r.End())
	assert.Equal(t, 2, r.Step())
	assert.False(t, r.Contains(3))

	set, err = ParseField("1,2-3", Minutes)
	require.NoError(t, err)
	c, ok := set.(Composite)
	require.True(t, ok, "expected Composite, got %T", set)
	assert.Len(t, c.Children(), 2)
}

func TestParseField_Errors(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		kind   FieldKind
		target any
	}{
		{name: "list outside seconds bound", token: "80,90", kind: Seconds, target: new(*BoundsError)},
		{name: "reversed range", token: "10-5", kind: Seconds, target: new(*BoundsError)},
		{name: "day of month above 31", token: "32", kind: DayOfMonth, target: new(*BoundsError)},
		{name: "day of month zero", token: "0", kind: DayOfMonth, target: new(*BoundsError)},
		{name: "zero step", token: "0-10/0", kind: Seconds, target: new(*BoundsError)},
		{name: "range end out of bound", token: "20-25", kind: Hours, target: new(*BoundsError)},
		{name: "year before bound", token: "1899", kind: Year, target: new(*BoundsError)},
		{name: "huge number", token: "99999999999999999999999", kind: Year, target: new(*BoundsError)},
		{name: "empty token", token: "", kind: Minutes, target: new(*TokenSyntaxError)},
		{name: "step without range", token: "5/2", kind: Minutes, target: new(*TokenSyntaxError)},
		{name: "wildcard range", token: "*-5", kind: Minutes, target: new(*TokenSyntaxError)},
		{name: "negative step", token: "1-5/-1", kind: Minutes, target: new(*TokenSyntaxError)},
		{name: "trailing comma", token: "1,", kind: Minutes, target: new(*TokenSyntaxError)},
		{name: "question mark", token: "?", kind: DayOfWeek, target: new(*TokenSyntaxError)},
		{name: "name on numeric field", token: "jan", kind: Hours, target: new(*TokenSyntaxError)},
		{name: "unknown month", token: "foo", kind: Month, target: new(*NameResolutionError)},
		{name: "long month name", token: "june", kind: Month, target: new(*NameResolutionError)},
		{name: "unknown day in range", token: "mon-xyz", kind: DayOfWeek, target: new(*NameResolutionError)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := ParseField(tt.token, tt.kind)
			require.Error(t, err)
			assert.Nil(t, set)
			assert.ErrorIs(t, err, ErrInvalidExpression)
			assert.True(t, errors.As(err, tt.target), "unexpected error type %T: %v", err, err)
		})
	}
}

func TestParseField_ErrorMessages(t *testing.T) {
	_, err := ParseField("32", DayOfMonth)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "day-of-month")
	assert.Contains(t, err.Error(), "32")

	_, err = ParseField("10-5", Seconds)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"10-5"`)
}

func TestParseField_ContainsMatchesValues(t *testing.T) {
	tokens := map[FieldKind][]string{
		Seconds:    {"*", "25", "0-10/2", "0-2,0-10/2", "*/7", "59"},
		Minutes:    {"*/15", "5,17,30", "1-58/3"},
		Hours:      {"*", "0", "23", "8-18/5,12"},
		DayOfWeek:  {"*", "mon-fri", "sun,sat", "0-6/2"},
		DayOfMonth: {"*", "31", "1-31/10", "1,15,28-31"},
		Month:      {"*", "jan-jun/2", "dec", "feb,apr-may"},
		Year:       {"2018-2019", "1900", "3000", "2000-2100/4"},
	}

	for kind, list := range tokens {
		for _, token := range list {
			set, err := ParseField(token, kind)
			require.NoError(t, err, "%s %q", kind, token)

			values := set.Values()
			for i := 1; i < len(values); i++ {
				assert.Less(t, values[i-1], values[i], "%s %q not strictly ascending", kind, token)
			}
			for v := kind.Min(); v <= kind.Max(); v++ {
				assert.Equal(t, slices.Contains(values, v), set.Contains(v),
					"%s %q: Contains(%d) disagrees with Values()", kind, token, v)
			}
		}
	}
}

func TestValueSet_String(t *testing.T) {
	tests := []struct {
		token string
		kind  FieldKind
		want  string
	}{
		{"*", Minutes, "*"},
		{"*/5", Minutes, "*/5"},
		{"0-59", Minutes, "*"},
		{"1-5", DayOfWeek, "1-5"},
		{"jan-jun/2", Month, "1-6/2"},
		{"12,16", Hours, "12,16"},
		{"wed", DayOfWeek, "3"},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			set, err := ParseField(tt.token, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, set.String())
		})
	}
}

func TestNewComposite_RejectsMixedKinds(t *testing.T) {
	sec, err := NewScalar(Seconds, 1)
	require.NoError(t, err)
	minute, err := NewScalar(Minutes, 1)
	require.NoError(t, err)

	_, err = NewComposite(Seconds, sec, minute)
	assert.ErrorIs(t, err, ErrInvalidExpression)
}

func TestComposite_ValuesAreCopies(t *testing.T) {
	set, err := ParseField("1,2,3", Hours)
	require.NoError(t, err)

	values := set.Values()
	values[0] = 42
	assert.Equal(t, []int{1, 2, 3}, set.Values())
}
