// Package templates holds user-facing text templates shared by the CLI.
package templates

import (
	"embed"
)

//go:embed guide/*.tmpl
var guideTemplates embed.FS

// GetNextSteps returns the post-scaffold guidance template content.
// Each non-empty rendered line is one step.
func GetNextSteps() (string, error) {
	content, err := guideTemplates.ReadFile("guide/next-steps.tmpl")
	if err != nil {
		return "", err
	}
	return string(content), nil
}
