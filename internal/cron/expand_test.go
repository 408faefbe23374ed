package cron

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		want       [7]string
	}{
		{
			name:       "seven tokens used as is",
			expression: "1 2 3 wed 4 5 2020",
			want:       [7]string{"1", "2", "3", "wed", "4", "5", "2020"},
		},
		{
			name:       "six tokens default day of week",
			expression: "0 0 12,16 25 dec 2018-2019",
			want:       [7]string{"0", "0", "12,16", "*", "25", "dec", "2018-2019"},
		},
		{
			name:       "five tokens default seconds",
			expression: "15 16 31 * 2018",
			want:       [7]string{"0", "15", "16", "*", "31", "*", "2018"},
		},
		{
			name:       "four tokens default seconds and minutes",
			expression: "16 31 * 2018",
			want:       [7]string{"0", "0", "16", "*", "31", "*", "2018"},
		},
		{
			name:       "extra whitespace",
			expression: "  0\t15   16 31 *\n2018 ",
			want:       [7]string{"0", "15", "16", "*", "31", "*", "2018"},
		},
		{
			name:       "full width digits and no-break spaces",
			expression: "\uff10 \uff11\uff15\u00a016 31 * 2018",
			want:       [7]string{"0", "15", "16", "*", "31", "*", "2018"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(tt.expression)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpand_TokenCount(t *testing.T) {
	for _, expression := range []string{"", "1 2 3", "1 2 3 4 5 6 7 8"} {
		t.Run(expression, func(t *testing.T) {
			_, err := Expand(expression)
			require.Error(t, err)

			var grammarErr *GrammarError
			require.True(t, errors.As(err, &grammarErr))
			assert.Equal(t, expression, grammarErr.Expression)
			assert.ErrorIs(t, err, ErrInvalidExpression)
		})
	}
}
