// Copyright (c) 2025 Caarya.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/caarya/caarya-live/catalog"
	"github.com/caarya/caarya-live/testutil"
)

func newTestRouter(t *testing.T) (*http.ServeMux, string) {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	cache := catalog.NewCache(conn, cfg.CatalogTTL)

	user := testutil.CreateTestUser(t, conn, "+911234567890", "Asha")
	token := testutil.CreateTestSession(t, conn, user.ID)

	return NewRouter(conn, cfg, cache), token
}

func TestHealthEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("expected OK body, got %q", w.Body.String())
	}
}

func TestRootBanner(t *testing.T) {
	mux, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if !strings.Contains(w.Body.String(), "caarya-live") {
		t.Errorf("expected API banner, got %q", w.Body.String())
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	mux, token := newTestRouter(t)

	routes := []struct {
		method string
		path   string
	}{
		{"GET", "/pods"},
		{"GET", "/unlocks"},
		{"GET", "/spa/leads"},
		{"GET", "/spa/dashboard"},
		{"GET", "/work-reports/summary"},
		{"GET", "/members/availability"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			req := httptest.NewRequest(rt.method, rt.path, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401 without a token, got %d", w.Code)
			}

			req = httptest.NewRequest(rt.method, rt.path, nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w = httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			if w.Code == http.StatusUnauthorized {
				t.Errorf("expected the token to authenticate, got 401: %s", w.Body.String())
			}
		})
	}
}

func TestUnknownMethodRejected(t *testing.T) {
	mux, token := newTestRouter(t)

	req := httptest.NewRequest("DELETE", "/pods", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for an unregistered method, got %d", w.Code)
	}
}
