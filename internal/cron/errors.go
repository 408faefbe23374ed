package cron

import (
	"errors"
	"fmt"
)

// ErrInvalidExpression matches every parse failure produced by this package.
// Use errors.As with the concrete types below for details.
var ErrInvalidExpression = errors.New("invalid cron expression")

// GrammarError reports an expression whose token count is not 4, 5, 6 or 7.
type GrammarError struct {
	Expression string
	Tokens     int
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("invalid cron expression %q: expected 4 to 7 fields, got %d", e.Expression, e.Tokens)
}

func (e *GrammarError) Is(target error) bool { return target == ErrInvalidExpression }

// TokenSyntaxError reports a field token that matches none of the accepted shapes.
type TokenSyntaxError struct {
	Kind  FieldKind
	Token string
}

func (e *TokenSyntaxError) Error() string {
	return fmt.Sprintf("invalid %s token %q: unrecognized syntax", e.Kind, e.Token)
}

func (e *TokenSyntaxError) Is(target error) bool { return target == ErrInvalidExpression }

// BoundsError reports a value outside the field bound, a reversed range or
// a non-positive step.
type BoundsError struct {
	Kind   FieldKind
	Token  string
	Reason string
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("invalid %s token %q: %s", e.Kind, e.Token, e.Reason)
}

func (e *BoundsError) Is(target error) bool { return target == ErrInvalidExpression }

// NameResolutionError reports an alphabetic month or day-of-week token that is
// not a known three letter abbreviation.
type NameResolutionError struct {
	Kind FieldKind
	Name string
}

func (e *NameResolutionError) Error() string {
	return fmt.Sprintf("invalid %s token: unknown name %q", e.Kind, e.Name)
}

func (e *NameResolutionError) Is(target error) bool { return target == ErrInvalidExpression }

func outOfBounds(kind FieldKind, token string, v int) *BoundsError {
	return &BoundsError{
		Kind:   kind,
		Token:  token,
		Reason: fmt.Sprintf("value %d outside [%d, %d]", v, kind.Min(), kind.Max()),
	}
}
