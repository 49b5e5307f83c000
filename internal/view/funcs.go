// internal/view/funcs.go
//
// Template helpers.  The device and browser helpers read the request info
// attached by requestinfo.Middleware and tolerate a nil value so templates
// render in tests without the middleware.
package view

import (
	"html/template"
	"strings"
	"time"

	"github.com/trueartists/account-web/internal/form"
	"github.com/trueartists/account-web/internal/requestinfo"
)

func funcMap() template.FuncMap {
	return template.FuncMap{
		"dict":    dict,
		"alert":   form.RenderAlert,
		"fields":  form.RenderFields,
		"field":   form.RenderField,
		"active":  active,
		"initial": initial,
		"year":    func() int { return time.Now().Year() },
		"device": func(i *requestinfo.RequestInfo) string {
			if i == nil {
				return "desktop"
			}
			return strings.ToLower(i.UA.Device)
		},
		"isBot": func(i *requestinfo.RequestInfo) bool { return i != nil && i.UA.IsBot },
	}
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}

// active reports whether a sidebar entry matches the current path.
func active(current, url string) bool {
	return current == url
}

// initial returns the upper-cased first rune of name, for avatar badges.
func initial(name string) string {
	for _, r := range name {
		return strings.ToUpper(string(r))
	}
	return "?"
}
