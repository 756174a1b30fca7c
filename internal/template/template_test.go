package template

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVariables(t *testing.T) {
	got := ExtractVariables("Hi {{name}}, about {{ topic }}. Bye {{name}}. {{not valid}}")
	assert.Equal(t, []string{"name", "topic"}, got)
	assert.Empty(t, ExtractVariables("no placeholders"))
}

func TestRender(t *testing.T) {
	out, err := Render("Summarize {{text}} in {{ words }} words", map[string]string{
		"text":  "the report",
		"words": "50",
		"extra": "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, "Summarize the report in 50 words", out)
}

func TestRender_ValuesAreNotExpanded(t *testing.T) {
	out, err := Render("{{a}}", map[string]string{"a": "{{b}}"})
	require.NoError(t, err)
	assert.Equal(t, "{{b}}", out)
}

func TestRender_ReportsAllMissing(t *testing.T) {
	_, err := Render("{{a}} {{b}} {{c}}", map[string]string{"b": "x"})
	var missing MissingVariablesError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"a", "c"}, missing.Names)
	assert.Equal(t, "missing template variables: a, c", err.Error())
}
