// Package template fills {{variable}} placeholders in prompt content.
package template

import (
	"fmt"
	"regexp"
	"strings"
)

var variablePattern = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)

// MissingVariablesError lists placeholders that had no value.
type MissingVariablesError struct {
	Names []string
}

func (e MissingVariablesError) Error() string {
	return fmt.Sprintf("missing template variables: %s", strings.Join(e.Names, ", "))
}

// Render replaces every placeholder in content with its value from vars.
// Values are inserted verbatim and are not themselves expanded.
func Render(content string, vars map[string]string) (string, error) {
	var missing []string
	for _, name := range ExtractVariables(content) {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", MissingVariablesError{Names: missing}
	}

	return variablePattern.ReplaceAllStringFunc(content, func(match string) string {
		name := variablePattern.FindStringSubmatch(match)[1]
		return vars[name]
	}), nil
}

// ExtractVariables returns the distinct placeholder names in order of first
// appearance.
func ExtractVariables(content string) []string {
	seen := make(map[string]bool)
	vars := []string{}
	for _, m := range variablePattern.FindAllStringSubmatch(content, -1) {
		if !seen[m[1]] {
			vars = append(vars, m[1])
			seen[m[1]] = true
		}
	}
	return vars
}
