// internal/form/submit.go
//
// Forms subsystem: consolidated Submit helper.
//
// Context
//   Most handlers want one call that parses the POST body, checks CSRF, and
//   binds the definition.  HandleSubmit provides that so component code stays
//   terse.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidToken means the CSRF token was missing, forged, or expired.
var ErrInvalidToken = errors.New("form: security token invalid")

// validationError wraps the bound State so callers can re-render it.
type validationError struct{ State *State }

func (validationError) Error() string { return "form validation failed" }

// HandleSubmit parses r, verifies its CSRF token against binding, and binds
// def.  The State is returned even on validation failure so the page can
// re-render with the visitor's input; check the error with IsValidationError.
func HandleSubmit(r *http.Request, def *Definition, csrf *CSRF, binding string) (*State, error) {
	if err := r.ParseForm(); err != nil {
		return NewState(), fmt.Errorf("form: parse body: %w", err)
	}
	if !csrf.Verify(r.PostForm.Get(FieldCSRF), binding) {
		return Bind(def, r.PostForm), ErrInvalidToken
	}
	st := Bind(def, r.PostForm)
	if st.HasErrors() {
		return st, validationError{State: st}
	}
	return st, nil
}

// IsValidationError reports whether err came from failed field validation.
func IsValidationError(err error) bool {
	var ve validationError
	return errors.As(err, &ve)
}
