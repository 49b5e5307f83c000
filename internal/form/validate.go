// internal/form/validate.go
//
// Forms subsystem: server-side binding and validation.
//
// Context
//   When the browser posts a form, Bind copies each field into a State and
//   runs the field's rules through go-playground/validator.  The State is
//   the caller-owned container the renderer reads back, so a failed submit
//   re-renders with the visitor's input and one message per field.
//
// Notes
//   •  Disabled fields are never bound.
//   •  Passwords are not trimmed.
//   •  Dates are normalised to YYYY-MM-DD; MM/DD/YYYY is also accepted.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the canonical date value.
const DateLayout = "2006-01-02"

var dateLayouts = []string{DateLayout, "01/02/2006"}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("ta_password", validPassword); err != nil {
		panic(err)
	}
	return v
}

// validPassword requires at least six characters with at least one letter
// and one digit.
func validPassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len([]rune(s)) < 6 {
		return false
	}
	var letter, digit bool
	for _, r := range s {
		switch {
		case r < unicode.MaxASCII && unicode.IsLetter(r):
			letter = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	return letter && digit
}

// -----------------------------------------------------------------------------
// State
// -----------------------------------------------------------------------------

// State holds submitted values and per-field error messages.  An entry in
// Errors means the field is in error.
type State struct {
	Values  map[string]string
	Errors  map[string]string
	Options map[string][]Option // dynamic select/search lists by field
}

// NewState returns an empty State.
func NewState() *State {
	return &State{
		Values:  make(map[string]string),
		Errors:  make(map[string]string),
		Options: make(map[string][]Option),
	}
}

// Value returns the bound value of name.
func (s *State) Value(name string) string {
	if s == nil {
		return ""
	}
	return s.Values[name]
}

// Error returns the message for name and whether the field is in error.
func (s *State) Error(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	msg, ok := s.Errors[name]
	return msg, ok
}

// SetError marks name as in error.
func (s *State) SetError(name, msg string) { s.Errors[name] = msg }

// HasErrors reports whether any field is in error.
func (s *State) HasErrors() bool { return s != nil && len(s.Errors) > 0 }

// SetOptions supplies a select/search list at render time.
func (s *State) SetOptions(name string, opts []Option) { s.Options[name] = opts }

func (s *State) options(f *Field) []Option {
	if s != nil {
		if opts, ok := s.Options[f.Name]; ok {
			return opts
		}
	}
	return f.Options
}

// -----------------------------------------------------------------------------
// Bind
// -----------------------------------------------------------------------------

// Bind copies posted into a new State and validates every enabled field.
func Bind(def *Definition, posted url.Values) *State {
	st := NewState()

	for i := range def.Fields {
		f := &def.Fields[i]
		if f.Disabled {
			continue
		}
		raw := posted.Get(f.Name)
		if f.Kind != KindPassword {
			raw = strings.TrimSpace(raw)
		}
		st.Values[f.Name] = raw

		if f.Kind == KindDate && raw != "" {
			d, ok := parseDate(raw)
			if !ok {
				st.SetError(f.Name, message(f, "date"))
				continue
			}
			st.Values[f.Name] = d.Format(DateLayout)
		}
		if msg, ok := checkField(f, st.Values[f.Name]); !ok {
			st.SetError(f.Name, msg)
		}
	}

	// Cross-field equality runs last so both values are bound.
	for _, f := range def.Fields {
		if f.Match == "" || f.Disabled {
			continue
		}
		if _, bad := st.Errors[f.Name]; bad {
			continue
		}
		if st.Values[f.Name] != st.Values[f.Match] {
			st.SetError(f.Name, message(&f, "match"))
		}
	}
	return st
}

func checkField(f *Field, val string) (string, bool) {
	if rules := effectiveRules(f); rules != "" {
		if err := validate.Var(val, rules); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				return message(f, verrs[0].Tag()), false
			}
			return message(f, ""), false
		}
	}
	if (f.Kind == KindSelect || f.Kind == KindSearch) && val != "" && len(f.Options) > 0 {
		if !optionAllowed(f.Options, val) {
			return message(f, "oneof"), false
		}
	}
	return "", true
}

// effectiveRules prepends "required" for required fields, and "omitempty"
// for optional ones so empty input skips the other rules.
func effectiveRules(f *Field) string {
	rules := strings.TrimSpace(f.Rules)
	hasRequired := rules == "required" || strings.HasPrefix(rules, "required,")
	switch {
	case f.Required && !hasRequired && rules == "":
		return "required"
	case f.Required && !hasRequired:
		return "required," + rules
	case !f.Required && !hasRequired && rules != "" && !strings.HasPrefix(rules, "omitempty"):
		return "omitempty," + rules
	}
	return rules
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func optionAllowed(opts []Option, v string) bool {
	for _, o := range opts {
		if o.ID == v {
			return true
		}
	}
	return false
}

var defaultMessages = map[string]string{
	"required":    "This field is required.",
	"email":       "Invalid email address.",
	"date":        "Invalid date.",
	"oneof":       "Invalid selection.",
	"match":       "Values do not match.",
	"ta_password": "Password must be at least 6 characters and contain letters and digits.",
}

// message picks the field's text for tag, then the default for tag.
func message(f *Field, tag string) string {
	if msg, ok := f.Messages[tag]; ok {
		return msg
	}
	if msg, ok := defaultMessages[tag]; ok {
		return msg
	}
	return "Invalid input."
}
