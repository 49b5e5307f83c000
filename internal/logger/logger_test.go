package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewWritesDailyFile(t *testing.T) {
	prev := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(prev) })

	dir := t.TempDir()
	l, err := New(Options{Dir: dir, Level: "debug"})
	require.NoError(t, err)
	l.Infow("hello")
	_ = l.Sync()

	_, err = os.Stat(filepath.Join(dir, time.Now().Format("2006-01-02")+".log"))
	assert.NoError(t, err)
}

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { _ = SetLevel("") })

	require.NoError(t, SetLevel("warn"))
	assert.False(t, level.Enabled(zap.InfoLevel))
	require.NoError(t, SetLevel(""))
	assert.True(t, level.Enabled(zap.InfoLevel))
	assert.Error(t, SetLevel("loud"))
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Options{Dir: t.TempDir(), Level: "loud"})
	assert.Error(t, err)
}

func TestFromContextFallsBackToGlobal(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	core, logs := observer.New(zap.InfoLevel)
	l := zap.New(core).Sugar()
	FromContext(WithContext(context.Background(), l)).Infow("scoped")
	assert.Equal(t, 1, logs.Len())
}

func TestRequestsAttachesLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	base := zap.New(core).Sugar()

	h := middleware.RequestID(Requests(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Infow("inside")
		w.WriteHeader(http.StatusTeapot)
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	require.Equal(t, 2, logs.Len())
	inside := logs.All()[0].ContextMap()
	assert.Equal(t, "/login", inside["path"])
	assert.NotEmpty(t, inside["req_id"])
	assert.EqualValues(t, http.StatusTeapot, logs.All()[1].ContextMap()["status"])
}
