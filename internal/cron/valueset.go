package cron

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ValueSet is the set of accepted values for one schedule field.
// It is a closed union of Scalar, Range and Composite; all variants are
// immutable once constructed.
type ValueSet interface {
	// Kind returns the field kind the set was validated against.
	Kind() FieldKind
	// Values returns the accepted values in strictly ascending order.
	Values() []int
	// Contains reports whether v is an accepted value.
	Contains(v int) bool
	// String renders the set in expression syntax.
	String() string

	valueSet()
}

// Scalar accepts exactly one value.
type Scalar struct {
	kind  FieldKind
	value int
}

// NewScalar returns a Scalar for v, failing if v is outside the kind's bound.
func NewScalar(kind FieldKind, v int) (Scalar, error) {
	if !kind.InBounds(v) {
		return Scalar{}, outOfBounds(kind, strconv.Itoa(v), v)
	}
	return Scalar{kind: kind, value: v}, nil
}

func (s Scalar) Kind() FieldKind     { return s.kind }
func (s Scalar) Value() int          { return s.value }
func (s Scalar) Values() []int       { return []int{s.value} }
func (s Scalar) Contains(v int) bool { return v == s.value }
func (s Scalar) String() string      { return strconv.Itoa(s.value) }
func (Scalar) valueSet()             {}

// Range accepts start, start+step, start+2*step, ... up to end inclusive.
type Range struct {
	kind             FieldKind
	start, end, step int
}

// NewRange validates and returns a Range. Both endpoints must lie within the
// kind's bound, start must not exceed end and step must be positive.
func NewRange(kind FieldKind, start, end, step int) (Range, error) {
	token := fmt.Sprintf("%d-%d/%d", start, end, step)
	if !kind.InBounds(start) {
		return Range{}, outOfBounds(kind, token, start)
	}
	if !kind.InBounds(end) {
		return Range{}, outOfBounds(kind, token, end)
	}
	if start > end {
		return Range{}, &BoundsError{Kind: kind, Token: token, Reason: fmt.Sprintf("range start %d is after end %d", start, end)}
	}
	if step <= 0 {
		return Range{}, &BoundsError{Kind: kind, Token: token, Reason: fmt.Sprintf("step %d must be positive", step)}
	}
	return Range{kind: kind, start: start, end: end, step: step}, nil
}

// fullRange spans the whole bound of kind with step 1.
func fullRange(kind FieldKind) Range {
	return Range{kind: kind, start: kind.Min(), end: kind.Max(), step: 1}
}

func (r Range) Kind() FieldKind { return r.kind }
func (r Range) Start() int      { return r.start }
func (r Range) End() int        { return r.end }
func (r Range) Step() int       { return r.step }

func (r Range) Values() []int {
	values := make([]int, 0, (r.end-r.start)/r.step+1)
	for v := r.start; v <= r.end; v += r.step {
		values = append(values, v)
	}
	return values
}

func (r Range) Contains(v int) bool {
	return v >= r.start && v <= r.end && (v-r.start)%r.step == 0
}

func (r Range) String() string {
	if r.start == r.kind.Min() && r.end == r.kind.Max() {
		if r.step == 1 {
			return "*"
		}
		return "*/" + strconv.Itoa(r.step)
	}
	s := strconv.Itoa(r.start) + "-" + strconv.Itoa(r.end)
	if r.step != 1 {
		s += "/" + strconv.Itoa(r.step)
	}
	return s
}

func (Range) valueSet() {}

// Composite is the union of its children. The merged value list is computed
// once at construction: sorted and free of duplicates.
type Composite struct {
	kind     FieldKind
	children []ValueSet
	values   []int
}

// NewComposite unions children, which must all share kind.
func NewComposite(kind FieldKind, children ...ValueSet) (Composite, error) {
	if len(children) == 0 {
		return Composite{}, &TokenSyntaxError{Kind: kind, Token: ""}
	}
	var values []int
	for _, child := range children {
		if child.Kind() != kind {
			return Composite{}, fmt.Errorf("composite %s set cannot hold a %s child: %w", kind, child.Kind(), ErrInvalidExpression)
		}
		values = append(values, child.Values()...)
	}
	slices.Sort(values)
	return Composite{
		kind:     kind,
		children: slices.Clone(children),
		values:   slices.Compact(values),
	}, nil
}

func (c Composite) Kind() FieldKind      { return c.kind }
func (c Composite) Children() []ValueSet { return slices.Clone(c.children) }
func (c Composite) Values() []int        { return slices.Clone(c.values) }

func (c Composite) Contains(v int) bool {
	_, found := slices.BinarySearch(c.values, v)
	return found
}

func (c Composite) String() string {
	parts := make([]string, len(c.children))
	for i, child := range c.children {
		parts[i] = child.String()
	}
	return strings.Join(parts, ",")
}

func (Composite) valueSet() {}
