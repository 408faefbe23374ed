package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aatumaykin/cronex/internal/constants"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// render writes v as JSON or YAML, or calls text for the plain format.
func render(w io.Writer, format string, v any, text func(io.Writer) error) error {
	switch strings.ToLower(format) {
	case outputText, "":
		return text(w)
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf(constants.MsgErrorUnknownOutput, format)
	}
}

// compactValues renders sorted values with consecutive runs collapsed,
// e.g. [1 2 3 5 7 8 9] becomes "1-3,5,7-9".
func compactValues(values []int) string {
	var b strings.Builder
	for i := 0; i < len(values); {
		j := i
		for j+1 < len(values) && values[j+1] == values[j]+1 {
			j++
		}
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(values[i]))
		switch {
		case j == i+1:
			b.WriteByte(',')
			b.WriteString(strconv.Itoa(values[j]))
		case j > i+1:
			b.WriteByte('-')
			b.WriteString(strconv.Itoa(values[j]))
		}
		i = j + 1
	}
	return b.String()
}
