package domain

import "strings"

// Template identifies a resume PDF layout.
type Template string

const (
	// TemplateBasic is the free layout available to everyone.
	TemplateBasic Template = "BASIC"
	// TemplateModern is a premium layout with a filled header band.
	TemplateModern Template = "MODERN"
	// TemplateCreative is a premium layout with accent colors and renamed sections.
	TemplateCreative Template = "CREATIVE"
	// TemplateMinimalist is a premium layout with thin rules and muted tones.
	TemplateMinimalist Template = "MINIMALIST"
)

// Templates lists every layout in display order.
func Templates() []Template {
	return []Template{TemplateBasic, TemplateModern, TemplateCreative, TemplateMinimalist}
}

// PremiumTemplates lists the layouts gated behind an active subscription.
func PremiumTemplates() []Template {
	return []Template{TemplateModern, TemplateCreative, TemplateMinimalist}
}

// Premium reports whether the layout requires an active subscription.
func (t Template) Premium() bool {
	return t != TemplateBasic
}

// ParseTemplate maps user input to a known template, case-insensitively.
func ParseTemplate(s string) (Template, bool) {
	switch Template(strings.ToUpper(strings.TrimSpace(s))) {
	case TemplateBasic:
		return TemplateBasic, true
	case TemplateModern:
		return TemplateModern, true
	case TemplateCreative:
		return TemplateCreative, true
	case TemplateMinimalist:
		return TemplateMinimalist, true
	}
	return "", false
}

// Resume holds the answers collected during the intake conversation.
// It lives only in the conversation session and is discarded after rendering.
type Resume struct {
	Name       string
	Contact    string
	Education  string
	Experience string
	Skills     string
	Summary    string
}

// Complete reports whether every intake step has an answer.
func (r Resume) Complete() bool {
	return r.Name != "" && r.Contact != "" && r.Education != "" &&
		r.Experience != "" && r.Skills != "" && r.Summary != ""
}
