// Package scaffold provides templates for dataset code generation.
package scaffold

import (
	"embed"
	"strings"
	"text/template"
)

//go:embed dataset/*.tmpl
var scaffoldTemplates embed.FS

// Dataset template names.
const (
	SchemaTemplate    = "schema.yml"
	TransformTemplate = "transform.py"
	TestTemplate      = "test.py"
	IndexTemplate     = "index.sql"
)

// GetDatasetTemplate returns the content of a dataset template.
func GetDatasetTemplate(name string) (string, error) {
	content, err := scaffoldTemplates.ReadFile("dataset/" + name + ".tmpl")
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// TemplateFuncs returns the template function map for scaffold templates.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"sqlIdent":  sqlIdent,
		"pyLiteral": pyLiteral,
	}
}

// sqlIdent joins identifier fragments with underscores.
// e.g., ["rent_roll", "bbl", "idx"] -> "rent_roll_bbl_idx"
func sqlIdent(parts ...string) string {
	return strings.Join(parts, "_")
}

// pyLiteral formats s as a single-quoted Python string literal.
func pyLiteral(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}
