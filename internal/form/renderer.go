// internal/form/renderer.go
//
// Forms subsystem: HTML renderer.
//
// Context
//   Converts a Field plus the caller's State into safe, accessible markup.
//   Output is plain HTML with class hooks; the stylesheet and the small
//   password-toggle script live under /static.
//
// Workflow
//   •  RenderField writes one control wrapped in <div class="form-field">.
//      Each input gets id="fld-{name}".
//   •  When the State marks the field in error, the fixed `error` message is
//      shown as "Required ! <message>"; otherwise the rule's own message.
//   •  RenderFields writes every field plus the hidden CSRF input.
//   •  The caller receives template.HTML so templates do not double-escape.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"html"
	"html/template"
	"strconv"
)

// RenderFields writes every field of def followed by the CSRF input.
func RenderFields(def *Definition, st *State, csrfToken string) template.HTML {
	var buf bytes.Buffer
	buf.WriteString(`<div class="ta-form">` + "\n")
	for i := range def.Fields {
		writeField(&buf, &def.Fields[i], st)
	}
	buf.WriteString(`<input type="hidden" name="` + FieldCSRF + `" value="` + html.EscapeString(csrfToken) + `">` + "\n")
	buf.WriteString(`</div>`)
	return template.HTML(buf.String())
}

// RenderField writes one field.
func RenderField(f Field, st *State) template.HTML {
	var buf bytes.Buffer
	writeField(&buf, &f, st)
	return template.HTML(buf.String())
}

func writeField(buf *bytes.Buffer, f *Field, st *State) {
	name := html.EscapeString(f.Name)
	id := "fld-" + name
	val := st.Value(f.Name)
	msg, inError := st.Error(f.Name)

	class := "form-field"
	if inError {
		class += " has-error"
	}
	buf.WriteString(`<div class="` + class + `">` + "\n")

	buf.WriteString(`<label for="` + id + `"><b>` + html.EscapeString(f.Label) + `</b>`)
	if f.Required {
		buf.WriteString(` <span class="required" aria-hidden="true">*</span>`)
	}
	buf.WriteString(`</label>` + "\n")

	common := ` id="` + id + `" name="` + name + `"`
	if f.Required {
		common += ` required`
	}
	if f.Disabled {
		common += ` disabled`
	}
	if inError {
		common += ` aria-invalid="true" aria-describedby="` + id + `-error"`
	}
	if f.Placeholder != "" {
		common += ` placeholder="` + html.EscapeString(f.Placeholder) + `"`
	}

	switch f.Kind {
	case KindPassword:
		// Passwords are never prefilled.
		buf.WriteString(`<div class="password-toggle">` + "\n")
		buf.WriteString(`<input` + common + ` type="password" autocomplete="current-password">` + "\n")
		buf.WriteString(`<button type="button" class="toggle-visibility" data-target="` + id + `" aria-label="Show password" aria-pressed="false">Show</button>` + "\n")
		buf.WriteString(`</div>` + "\n")

	case KindSelect:
		buf.WriteString(`<select` + common + `>` + "\n")
		buf.WriteString(`<option value="">Select ` + html.EscapeString(f.Label) + `...</option>` + "\n")
		for _, o := range st.options(f) {
			sel := ""
			if o.ID == val {
				sel = ` selected`
			}
			buf.WriteString(`<option value="` + html.EscapeString(o.ID) + `"` + sel + `>` + html.EscapeString(o.Name) + `</option>` + "\n")
		}
		buf.WriteString(`</select>` + "\n")

	case KindSearch:
		list := id + "-list"
		buf.WriteString(`<input` + common + ` type="search" list="` + list + `" autocomplete="off"`)
		if val != "" {
			buf.WriteString(` value="` + html.EscapeString(val) + `"`)
		}
		buf.WriteString(`>` + "\n")
		buf.WriteString(`<datalist id="` + list + `">` + "\n")
		for _, o := range st.options(f) {
			label := o.Name
			if o.Detail != "" {
				label += " - (" + o.Detail + ")"
			}
			buf.WriteString(`<option value="` + html.EscapeString(o.ID) + `" label="` + html.EscapeString(label) + `">` + "\n")
		}
		buf.WriteString(`</datalist>` + "\n")

	case KindDate:
		buf.WriteString(`<input` + common + ` type="date" pattern="\d{4}-\d{2}-\d{2}"`)
		if val != "" {
			buf.WriteString(` value="` + html.EscapeString(val) + `"`)
		}
		buf.WriteString(`>` + "\n")

	default:
		if f.Multiline {
			rows := f.Rows
			if rows <= 0 {
				rows = 4
			}
			buf.WriteString(`<textarea` + common + ` rows="` + strconv.Itoa(rows) + `">` + html.EscapeString(val) + `</textarea>` + "\n")
			break
		}
		typ := "text"
		if f.Input != "" {
			typ = html.EscapeString(f.Input)
		}
		buf.WriteString(`<input` + common + ` type="` + typ + `"`)
		if val != "" {
			buf.WriteString(` value="` + html.EscapeString(val) + `"`)
		}
		buf.WriteString(`>` + "\n")
	}

	if inError {
		text := msg
		if f.ErrorMessage != "" {
			text = "Required ! " + f.ErrorMessage
		}
		buf.WriteString(`<span class="error" id="` + id + `-error" aria-live="polite">` + html.EscapeString(text) + `</span>` + "\n")
	}
	buf.WriteString(`</div>` + "\n")
}
