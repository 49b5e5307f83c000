package form

import (
	"html"
	"html/template"
)

// Severity of an inline alert.
type Severity string

const (
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Alert is a page-level message rendered above a form.
type Alert struct {
	Severity Severity
	Message  string
}

// RenderAlert writes a role="alert" box.  A zero Alert renders nothing and
// unknown severities render as info.
func RenderAlert(a *Alert) template.HTML {
	if a == nil || a.Message == "" {
		return ""
	}
	sev := a.Severity
	switch sev {
	case SeverityError, SeveritySuccess, SeverityInfo, SeverityWarning:
	default:
		sev = SeverityInfo
	}
	return template.HTML(`<div class="alert alert-` + string(sev) + `" role="alert">` + html.EscapeString(a.Message) + `</div>`)
}
