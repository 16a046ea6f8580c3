package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func doRequest(r *Router, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)
	return rec
}

func TestExactRoute(t *testing.T) {
	r := New(nil)
	r.GET("/api/v1/exports", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/api/v1/exports").Code)
}

func TestWildcardRoute(t *testing.T) {
	r := New(nil)
	r.GET("/api/v1/exports/*/objects", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/api/v1/exports/abc/objects").Code)
	assert.Equal(t, http.StatusNotFound, doRequest(r, http.MethodGet, "/api/v1/exports/abc/uploads").Code)
}

func TestTrailingWildcardMatchesDeepPaths(t *testing.T) {
	r := New(nil)
	r.GET("/swagger/*", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/swagger/index.html").Code)
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/swagger/doc.json").Code)
}

func TestMostSpecificWildcardWins(t *testing.T) {
	r := New(nil)
	r.GET("/api/v1/exports/*", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.GET("/api/v1/exports/*/objects", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for i := 0; i < 20; i++ {
		assert.Equal(t, http.StatusTeapot, doRequest(r, http.MethodGet, "/api/v1/exports/abc/objects").Code)
	}
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/api/v1/exports/abc").Code)
}

func TestMethodNotAllowed(t *testing.T) {
	r := New(nil)
	r.GET("/api/v1/exports", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	assert.Equal(t, http.StatusMethodNotAllowed, doRequest(r, http.MethodDelete, "/api/v1/exports").Code)
}

func TestUnknownPath(t *testing.T) {
	r := New(nil)
	assert.Equal(t, http.StatusNotFound, doRequest(r, http.MethodGet, "/nope").Code)
}
