package pattern

import "strings"

const (
	// DatePlaceholder marks where a preset template takes the date expression.
	DatePlaceholder = "DATE_REGEX_PLACEHOLDER"

	DefaultDateFormat = "DD-MMM-YYYY"

	// DefaultPattern matches "Complete project -> _05-Mar-2024_ #Work".
	DefaultPattern = `(.+?)\s*->\s*_([\d]{1,2}-[A-Za-z]{3}-\d{4})_\s*(#[A-Za-z0-9_]+)`
)

// Preset is a named task format the user can pick instead of writing a pattern.
type Preset struct {
	Name     string `json:"name"`
	Template string `json:"template"`
	Pattern  string `json:"pattern"`
	Example  string `json:"example"`

	exampleTemplate string
}

var presetTemplates = []Preset{
	{
		Name:            "Default Arrow Format",
		Template:        `(.+?)\s*->\s*_(` + DatePlaceholder + `)_\s*(#[A-Za-z0-9_]+)`,
		exampleTemplate: "Complete project -> _DD-MMM-YYYY_ #Work",
	},
	{
		Name:            "Checkbox Format",
		Template:        `(- \[[ x]\] .+?)\s*\|\s*(` + DatePlaceholder + `)\s*(#[A-Za-z0-9_]+)`,
		exampleTemplate: "- [ ] Complete project | DD-MMM-YYYY #Work",
	},
	{
		Name:            "Colon Format",
		Template:        `(.+?)\s*:\s*(` + DatePlaceholder + `)\s*(#[A-Za-z0-9_]+)`,
		exampleTemplate: "Complete project: DD-MMM-YYYY #Work",
	},
	{
		Name:            "Due Date Format",
		Template:        `(.+?)\s*due\s*(` + DatePlaceholder + `)\s*(#[A-Za-z0-9_]+)`,
		exampleTemplate: "Complete project due DD-MMM-YYYY #Work",
	},
}

// DateExpression converts a user-facing date format such as DD-MMM-YYYY
// into a pattern fragment. Each token is replaced once.
func DateExpression(dateFormat string) string {
	expr := strings.Replace(dateFormat, "DD", `[\d]{1,2}`, 1)
	expr = strings.Replace(expr, "MMM", `[A-Za-z]{3}`, 1)
	return strings.Replace(expr, "YYYY", `\d{4}`, 1)
}

// FromDateFormat expands the date placeholder of template for dateFormat.
func FromDateFormat(dateFormat, template string) string {
	return strings.Replace(template, DatePlaceholder, DateExpression(dateFormat), 1)
}

// Presets returns the built-in formats expanded for dateFormat.
func Presets(dateFormat string) []Preset {
	if dateFormat == "" {
		dateFormat = DefaultDateFormat
	}
	out := make([]Preset, 0, len(presetTemplates))
	for _, p := range presetTemplates {
		p.Pattern = FromDateFormat(dateFormat, p.Template)
		p.Example = strings.Replace(p.exampleTemplate, DefaultDateFormat, dateFormat, 1)
		out = append(out, p)
	}
	return out
}

func PresetByName(name, dateFormat string) (Preset, bool) {
	for _, p := range Presets(dateFormat) {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// PresetForPattern finds the preset that expands to pattern, if any.
func PresetForPattern(pattern, dateFormat string) (Preset, bool) {
	for _, p := range Presets(dateFormat) {
		if p.Pattern == pattern {
			return p, true
		}
	}
	return Preset{}, false
}
