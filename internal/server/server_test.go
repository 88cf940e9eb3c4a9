package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_ServesRenderedPage(t *testing.T) {
	s := New("127.0.0.1:0", func() string { return "<html>rendered</html>" })

	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	resp := rec.Result()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "<html>rendered</html>", string(body))
}

func TestServer_RendersFreshPerRequest(t *testing.T) {
	n := 0
	s := New("127.0.0.1:0", func() string {
		n++
		return "render"
	})

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		s.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	}

	assert.Equal(t, 3, n)
}

func TestServer_Healthz(t *testing.T) {
	s := New("127.0.0.1:0", func() string { return "" })

	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_UnknownPathIs404(t *testing.T) {
	s := New("127.0.0.1:0", func() string { return "" })

	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
