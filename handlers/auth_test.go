// Copyright (c) 2025 Caarya.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/caarya/caarya-live/auth"
	"github.com/caarya/caarya-live/middleware"
	"github.com/caarya/caarya-live/models"
	"github.com/caarya/caarya-live/testutil"
)

func TestRequestOTP(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAuthHandler(conn, cfg)

	testutil.CreateTestUser(t, conn, "+911234800001", "Asha")

	tests := []struct {
		name           string
		phone          string
		expectedStatus int
	}{
		{"allowlisted phone", "+911234800001", http.StatusOK},
		{"unknown phone", "+910000000000", http.StatusForbidden},
		{"missing phone", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/auth/request-otp",
				models.RequestOTPRequest{Phone: tt.phone}, nil)
			w := httptest.NewRecorder()
			handler.RequestOTP(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusOK {
				// The code itself must never leak into the response
				if body := w.Body.String(); strings.Contains(body, "code") {
					t.Errorf("response must not carry the OTP code: %s", body)
				}
				var count int
				if err := conn.QueryRow(`SELECT COUNT(*) FROM otp_code WHERE phone = $1`, tt.phone).Scan(&count); err != nil {
					t.Fatalf("lookup failed: %v", err)
				}
				if count != 1 {
					t.Errorf("expected 1 stored OTP, got %d", count)
				}
			}
		})
	}
}

func TestRequestOTPReplacesPreviousCode(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAuthHandler(conn, cfg)

	testutil.CreateTestUser(t, conn, "+911234800002", "Ravi")

	for i := 0; i < 2; i++ {
		req := testutil.MakeRequest("POST", "/auth/request-otp",
			models.RequestOTPRequest{Phone: "+911234800002"}, nil)
		w := httptest.NewRecorder()
		handler.RequestOTP(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)
	}

	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM otp_code WHERE phone = '+911234800002'`).Scan(&count); err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected a single live OTP per phone, got %d", count)
	}
}

func TestVerifyOTP(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAuthHandler(conn, cfg)

	user := testutil.CreateTestUser(t, conn, "+911234800003", "Meera")

	storeCode := func(phone, code string, expiresAt time.Time) {
		if _, err := conn.Exec(`DELETE FROM otp_code WHERE phone = $1`, phone); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
		hash := auth.HashOTP(phone, code, cfg.OTPSalt)
		if _, err := conn.Exec(`
			INSERT INTO otp_code (phone, code_hash, expires_at) VALUES ($1, $2, $3)
		`, phone, hash, expiresAt); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
	}

	verify := func(phone, code string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/auth/verify-otp",
			models.VerifyOTPRequest{Phone: phone, Code: code}, nil)
		w := httptest.NewRecorder()
		handler.VerifyOTP(w, req)
		return w
	}

	t.Run("correct code yields a session", func(t *testing.T) {
		storeCode("+911234800003", "482913", time.Now().Add(5*time.Minute))

		w := verify("+911234800003", "482913")
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.VerifyOTPResponse
		testutil.DecodeData(t, w, &resp)
		if resp.Token == "" {
			t.Error("expected a session token")
		}
		if resp.User.ID != user.ID {
			t.Errorf("expected user %s, got %s", user.ID, resp.User.ID)
		}

		// Stored hashed; the raw token must not be in the table
		var count int
		if err := conn.QueryRow(`SELECT COUNT(*) FROM session WHERE token_hash = $1`,
			auth.HashToken(resp.Token, cfg.SessionTokenSalt)).Scan(&count); err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		if count != 1 {
			t.Error("expected the session to be stored")
		}
		if err := conn.QueryRow(`SELECT COUNT(*) FROM session WHERE token_hash = $1`, resp.Token).Scan(&count); err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		if count != 0 {
			t.Error("raw token found in the session table")
		}
	})

	t.Run("a code is single use", func(t *testing.T) {
		storeCode("+911234800003", "482913", time.Now().Add(5*time.Minute))

		testutil.AssertStatus(t, verify("+911234800003", "482913"), http.StatusOK)
		testutil.AssertStatus(t, verify("+911234800003", "482913"), http.StatusUnauthorized)
	})

	t.Run("wrong code is rejected", func(t *testing.T) {
		storeCode("+911234800003", "482913", time.Now().Add(5*time.Minute))
		testutil.AssertStatus(t, verify("+911234800003", "111111"), http.StatusUnauthorized)
	})

	t.Run("expired code is rejected", func(t *testing.T) {
		storeCode("+911234800003", "482913", time.Now().Add(-time.Minute))
		testutil.AssertStatus(t, verify("+911234800003", "482913"), http.StatusUnauthorized)
	})

	t.Run("no code on file is rejected", func(t *testing.T) {
		testutil.AssertStatus(t, verify("+919999999999", "482913"), http.StatusUnauthorized)
	})
}

func TestLogout(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAuthHandler(conn, cfg)

	user := testutil.CreateTestUser(t, conn, "+911234800004", "Divya")
	token := testutil.CreateTestSession(t, conn, user.ID)

	req := testutil.MakeRequest("POST", "/auth/logout", nil, testutil.AuthHeader(token))
	w := httptest.NewRecorder()
	middleware.RequireAuth(conn, cfg.SessionTokenSalt, handler.Logout)(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM session WHERE token_hash = $1`,
		auth.HashToken(token, cfg.SessionTokenSalt)).Scan(&count); err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if count != 0 {
		t.Error("expected the session to be deleted")
	}

	// The deleted session no longer authenticates
	req = testutil.MakeRequest("GET", "/auth/me", nil, testutil.AuthHeader(token))
	w = httptest.NewRecorder()
	middleware.RequireAuth(conn, cfg.SessionTokenSalt, handler.Me)(w, req)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}
