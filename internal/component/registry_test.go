package component

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fake struct {
	name    string
	initErr error
	env     *Env
}

func (f *fake) Name() string { return f.name }
func (f *fake) Init(env *Env) error {
	f.env = env
	return f.initErr
}
func (f *fake) Routes(r chi.Router) {
	r.Get("/"+f.name, func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
}

func withRegistry(t *testing.T, cs ...Component) {
	t.Helper()
	mu.Lock()
	saved := registry
	registry = map[string]Component{}
	mu.Unlock()
	for _, c := range cs {
		Register(c)
	}
	t.Cleanup(func() {
		mu.Lock()
		registry = saved
		mu.Unlock()
	})
}

func TestAllSorted(t *testing.T) {
	withRegistry(t, &fake{name: "zeta"}, &fake{name: "alpha"}, &fake{name: "mid"})
	var names []string
	for _, c := range All() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}

func TestMount(t *testing.T) {
	a := &fake{name: "a"}
	withRegistry(t, a)

	env := &Env{Log: zap.NewNop().Sugar()}
	r := chi.NewRouter()
	require.NoError(t, Mount(r, env))
	assert.Same(t, env, a.env)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/a", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestMountInitError(t *testing.T) {
	boom := errors.New("boom")
	withRegistry(t, &fake{name: "bad", initErr: boom})

	err := Mount(chi.NewRouter(), &Env{Log: zap.NewNop().Sugar()})
	var ie *InitError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "bad", ie.Component)
	assert.ErrorIs(t, err, boom)
}

func TestFlowCookies(t *testing.T) {
	env := &Env{SecureCookies: true}
	rr := httptest.NewRecorder()
	env.SetFlowCookie(rr, "oauth_state", "abc", "/login/google", 600_000_000_000)
	env.ClearFlowCookie(rr, "oauth_nonce", "/login/google")

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 2)
	assert.Equal(t, "abc", cookies[0].Value)
	assert.Equal(t, 600, cookies[0].MaxAge)
	assert.True(t, cookies[0].Secure)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, -1, cookies[1].MaxAge)
}
