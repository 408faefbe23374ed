package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/aatumaykin/cronex/internal/cron"
)

func TestParseCommand_Text(t *testing.T) {
	out, err := execute(t, "parse", "0 15 12 wed * oct 2018")
	require.NoError(t, err)

	assert.Contains(t, out, "canonical:  0 15 12 3 * 10 2018")
	assert.Contains(t, out, "day-of-week")
	assert.Contains(t, out, "1-31")
}

func TestParseCommand_JSON(t *testing.T) {
	out, err := execute(t, "parse", "--output", "json", "*/15 9-17 * * *")
	require.NoError(t, err)

	var desc scheduleDescription
	require.NoError(t, json.Unmarshal([]byte(out), &desc))
	assert.Equal(t, "*/15 9-17 * * *", desc.Expression)
	assert.Equal(t, "0 */15 9-17 * * * *", desc.Canonical)
	require.Len(t, desc.Fields, 7)
	assert.Equal(t, "minutes", desc.Fields[1].Kind)
	assert.Equal(t, "0,15,30,45", desc.Fields[1].Values)
	assert.Equal(t, 4, desc.Fields[1].Count)
	assert.Equal(t, "1900-3000", desc.Fields[6].Values)
}

func TestParseCommand_YAML(t *testing.T) {
	out, err := execute(t, "parse", "-o", "yaml", "0 0 12,16 25 dec 2018-2019")
	require.NoError(t, err)

	var desc scheduleDescription
	require.NoError(t, yaml.Unmarshal([]byte(out), &desc))
	assert.Equal(t, "12,16", desc.Fields[2].Values)
	assert.Equal(t, "25", desc.Fields[4].Values)
	assert.Equal(t, "12", desc.Fields[5].Values)
	assert.Equal(t, "2018,2019", desc.Fields[6].Values)
}

func TestParseCommand_Errors(t *testing.T) {
	_, err := execute(t, "parse", "1 2 3")
	require.Error(t, err)
	var grammar *cron.GrammarError
	assert.ErrorAs(t, err, &grammar)

	_, err = execute(t, "parse", "-o", "xml", "* * * * *")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestCompactValues(t *testing.T) {
	tests := []struct {
		values []int
		want   string
	}{
		{nil, ""},
		{[]int{5}, "5"},
		{[]int{1, 2}, "1,2"},
		{[]int{1, 2, 3, 5, 7, 8, 9}, "1-3,5,7-9"},
		{[]int{0, 15, 30, 45}, "0,15,30,45"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, compactValues(tt.values))
	}
}
