// Package fragments provides template name constants for the keyword browser
package fragments

// Template name constants
const (
	// Pages
	IndexPage = "index.html"

	// Fragments
	Suggestions = "suggestions.html"
	Blocks      = "blocks.html"
	Cloud       = "cloud.html"
	Warning     = "warning.html"
)

// GetAllTemplatePaths returns all template names for registration checks
func GetAllTemplatePaths() []string {
	return []string{
		IndexPage,
		Suggestions,
		Blocks,
		Cloud,
		Warning,
	}
}
