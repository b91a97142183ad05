package template

import "strings"

// Render resolves the references between vars and then replaces every
// {{key}} token in content with the stringified value of key. A key without
// a matching token is ignored; a {{...}} token without a matching key stays
// verbatim in the output so broken templates remain inspectable instead of
// failing the whole send.
func Render(content string, vars map[string]any) string {
	resolved := Resolve(vars, DefaultMaxIterations)

	for key, value := range resolved {
		token := "{{" + key + "}}"
		content = strings.ReplaceAll(content, token, stringify(value))
	}
	return content
}
