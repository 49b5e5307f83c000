// Package web embeds the templates, form definitions, and static assets
// served by cmd/web.
package web

import "embed"

// FS holds templates/, forms/, and static/.
//
//go:embed templates forms static
var FS embed.FS
