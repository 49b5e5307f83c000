package auth

import (
	"crypto/subtle"
	"net/http"
	"net/url"
	"time"

	"github.com/trueartists/account-web/internal/form"
	"github.com/trueartists/account-web/internal/logger"
	"github.com/trueartists/account-web/internal/session"
	"github.com/trueartists/account-web/internal/social"
)

// Flow cookies live only between the redirect to Google and the callback.
const (
	cookieState = "oauth_state"
	cookieNonce = "oauth_nonce"
	cookieQuery = "oauth_query"
	googlePath  = "/login/google"
	flowTTL     = 10 * time.Minute
)

func (c *Component) startGoogle(w http.ResponseWriter, r *http.Request) {
	if c.env.Google == nil {
		http.NotFound(w, r)
		return
	}
	state, err := social.RandomString(24)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	nonce, err := social.RandomString(24)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	c.env.SetFlowCookie(w, cookieState, state, googlePath, flowTTL)
	c.env.SetFlowCookie(w, cookieNonce, nonce, googlePath, flowTTL)
	c.env.SetFlowCookie(w, cookieQuery, flowQuery(r.URL.Query()).Encode(), googlePath, flowTTL)

	http.Redirect(w, r, c.env.Google.AuthCodeURL(state, nonce), http.StatusFound)
}

func (c *Component) finishGoogle(w http.ResponseWriter, r *http.Request) {
	if c.env.Google == nil {
		http.NotFound(w, r)
		return
	}
	log := logger.FromContext(r.Context())

	cb := r.URL.Query()
	state := cookieValue(r, cookieState)
	nonce := cookieValue(r, cookieNonce)
	q, _ := url.ParseQuery(cookieValue(r, cookieQuery))
	for _, name := range []string{cookieState, cookieNonce, cookieQuery} {
		c.env.ClearFlowCookie(w, name, googlePath)
	}

	// Restore the original flow parameters so the page re-renders with them.
	q = flowQuery(q)
	r.URL.RawQuery = q.Encode()
	fail := func(reason string, err error) {
		log.Infow("google login failed", "reason", reason, "err", err)
		c.render(w, r, http.StatusOK, form.NewState(), &form.Alert{Severity: form.SeverityError, Message: msgGoogleFailed})
	}

	if cb.Get("error") != "" {
		fail("provider", nil)
		return
	}
	if state == "" || subtle.ConstantTimeCompare([]byte(state), []byte(cb.Get("state"))) != 1 {
		fail("state", nil)
		return
	}

	prof, err := c.env.Google.Exchange(r.Context(), cb.Get("code"), nonce)
	if err != nil {
		fail("exchange", err)
		return
	}

	store := session.FromContext(r.Context())
	res := store.SocialLogin(r.Context(), prof.ProviderID, prof.Email, q.Get("callback") != "")
	c.audit(r, "google", prof.Email, !res.Error)
	if res.Error {
		c.render(w, r, http.StatusOK, form.NewState(), &form.Alert{Severity: form.SeverityError, Message: msgInvalidLogin})
		return
	}
	c.env.Sessions.Rotate(w, r, store)
	user := res.Data.User
	c.redirectSignedIn(w, r, store, &user, q)
}

func cookieValue(r *http.Request, name string) string {
	ck, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return ck.Value
}
