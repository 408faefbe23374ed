package cron

import (
	"errors"
	"strconv"
	"strings"

	"github.com/wasilibs/go-re2"
)

// itemPattern matches one comma separated item: a start that is "*", a number
// or a name, an optional "-end" and an optional "/step".
var itemPattern = re2.MustCompile(`^(\*|[0-9]+|[A-Za-z]+)(?:-([0-9]+|[A-Za-z]+))?(?:/([0-9]+))?$`)

// Name tables are read-only after package initialization.
var (
	monthNames = map[string]int{
		"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
		"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
	}
	dayNames = map[string]int{
		"sun": 0, "mon": 1, "tue": 2, "wed": 3, "thu": 4, "fri": 5, "sat": 6,
	}
)

// ParseField converts one field token into a ValueSet for kind.
//
// Accepted item shapes are "*", "*/S", "N", "A-B" and "A-B/S". Month and
// day-of-week also accept three letter names wherever a number is accepted.
// A token containing commas becomes a Composite of its items.
func ParseField(token string, kind FieldKind) (ValueSet, error) {
	if !kind.Valid() {
		return nil, &TokenSyntaxError{Kind: kind, Token: token}
	}

	items := strings.Split(token, ",")
	if len(items) == 1 {
		return parseItem(token, kind)
	}

	children := make([]ValueSet, 0, len(items))
	for _, item := range items {
		child, err := parseItem(item, kind)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return NewComposite(kind, children...)
}

func parseItem(item string, kind FieldKind) (ValueSet, error) {
	m := itemPattern.FindStringSubmatch(item)
	if m == nil {
		return nil, &TokenSyntaxError{Kind: kind, Token: item}
	}
	first, last, step := m[1], m[2], m[3]

	if first == "*" {
		if last != "" {
			return nil, &TokenSyntaxError{Kind: kind, Token: item}
		}
		r := fullRange(kind)
		if step == "" {
			return r, nil
		}
		s, err := parseStep(item, step, kind)
		if err != nil {
			return nil, err
		}
		return NewRange(kind, r.start, r.end, s)
	}

	start, err := resolveValue(item, first, kind)
	if err != nil {
		return nil, err
	}

	if last == "" {
		// A step needs a range to walk.
		if step != "" {
			return nil, &TokenSyntaxError{Kind: kind, Token: item}
		}
		if !kind.InBounds(start) {
			return nil, outOfBounds(kind, item, start)
		}
		return Scalar{kind: kind, value: start}, nil
	}

	end, err := resolveValue(item, last, kind)
	if err != nil {
		return nil, err
	}
	s := 1
	if step != "" {
		if s, err = parseStep(item, step, kind); err != nil {
			return nil, err
		}
	}

	r, err := NewRange(kind, start, end, s)
	if err != nil {
		var be *BoundsError
		if errors.As(err, &be) {
			be.Token = item
		}
		return nil, err
	}
	return r, nil
}

// resolveValue turns a numeric or named item part into its integer value.
func resolveValue(item, part string, kind FieldKind) (int, error) {
	if part[0] >= '0' && part[0] <= '9' {
		v, err := strconv.Atoi(part)
		if err != nil {
			return 0, &BoundsError{Kind: kind, Token: item, Reason: "value " + part + " is not representable"}
		}
		return v, nil
	}

	var names map[string]int
	switch kind {
	case Month:
		names = monthNames
	case DayOfWeek:
		names = dayNames
	default:
		return 0, &TokenSyntaxError{Kind: kind, Token: item}
	}

	v, ok := names[strings.ToLower(part)]
	if !ok {
		return 0, &NameResolutionError{Kind: kind, Name: part}
	}
	return v, nil
}

func parseStep(item, step string, kind FieldKind) (int, error) {
	s, err := strconv.Atoi(step)
	if err != nil {
		return 0, &BoundsError{Kind: kind, Token: item, Reason: "step " + step + " is not representable"}
	}
	if s <= 0 {
		return 0, &BoundsError{Kind: kind, Token: item, Reason: "step " + step + " must be positive"}
	}
	return s, nil
}
