// Copyright (c) 2025 Caarya.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/caarya/caarya-live/auth"
	"github.com/caarya/caarya-live/cliparse"
	"github.com/caarya/caarya-live/db"
	"github.com/caarya/caarya-live/models"
)

// SetupTestDB creates a fresh in-memory database with the full schema.
// One connection max, so every query sees the same in-memory store.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             3318,
		DatabaseURL:      ":memory:",
		DatabaseType:     "sqlite",
		SessionTokenSalt: "test-session-salt",
		OTPSalt:          "test-otp-salt",
		OTPTTL:           5 * time.Minute,
		CatalogTTL:       5 * time.Minute,
	}
}

// CreateTestUser inserts an allowlisted user and returns it
func CreateTestUser(t *testing.T, conn *sql.DB, phone, name string) models.User {
	t.Helper()

	user := models.User{
		ID:    uuid.NewString(),
		Phone: phone,
		Name:  name,
		Email: name + "@example.com",
		Role:  "member",
	}
	_, err := conn.Exec(`
		INSERT INTO allowed_user (id, phone, name, email, role)
		VALUES ($1, $2, $3, $4, $5)
	`, user.ID, user.Phone, user.Name, user.Email, user.Role)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// CreateTestSession creates a live session for a user and returns the token
func CreateTestSession(t *testing.T, conn *sql.DB, userID string) string {
	t.Helper()

	token, err := auth.GenerateSessionToken()
	if err != nil {
		t.Fatalf("Failed to generate session token: %v", err)
	}
	_, err = conn.Exec(`
		INSERT INTO session (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)
	`, auth.HashToken(token, GetTestConfig().SessionTokenSalt), userID, time.Now().Add(24*time.Hour))
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}

	return token
}

// AuthHeader builds the headers map for an authenticated request
func AuthHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// CreateTestPod inserts a pod and returns its ID
func CreateTestPod(t *testing.T, conn *sql.DB, name, crew string) string {
	t.Helper()

	podID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO pod (id, name, crew, category, stage, members, goals)
		VALUES ($1, $2, $3, 'Tech', 'Stage 1', 4, 2)
	`, podID, name, crew)
	if err != nil {
		t.Fatalf("Failed to create test pod: %v", err)
	}

	return podID
}

// CreateTestUnlockItem inserts a catalog entry and returns its ID
func CreateTestUnlockItem(t *testing.T, conn *sql.DB, itemID, tab, name, category string, position int) string {
	t.Helper()

	id := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO unlock_item (id, item_id, tab, name, category, position)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, itemID, tab, name, category, position)
	if err != nil {
		t.Fatalf("Failed to create test unlock item: %v", err)
	}

	return id
}

// CreateTestLead inserts a lead owned by the given user and returns its ID
func CreateTestLead(t *testing.T, conn *sql.DB, ownerID, startupName, status string) string {
	t.Helper()

	leadID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO lead (id, startup_name, institution, domain, startup_stage, activity_level, current_status, spa_owner)
		VALUES ($1, $2, 'IIT Delhi', 'FinTech', 'MVP', 'Active', $3, $4)
	`, leadID, startupName, status, ownerID)
	if err != nil {
		t.Fatalf("Failed to create test lead: %v", err)
	}

	return leadID
}

// SetLeadScore updates a lead's stored score directly
func SetLeadScore(t *testing.T, conn *sql.DB, leadID string, score float64) {
	t.Helper()

	if _, err := conn.Exec(`UPDATE lead SET lead_score = $1 WHERE id = $2`, score, leadID); err != nil {
		t.Fatalf("Failed to set lead score: %v", err)
	}
}

// SetLeadProofLinks replaces a lead's proof link list
func SetLeadProofLinks(t *testing.T, conn *sql.DB, leadID string, links []string) {
	t.Helper()

	raw, _ := json.Marshal(links)
	if _, err := conn.Exec(`UPDATE lead SET proof_links = $1 WHERE id = $2`, string(raw), leadID); err != nil {
		t.Fatalf("Failed to set proof links: %v", err)
	}
}

// CreateTestPOC inserts a point of contact for a lead and returns its ID
func CreateTestPOC(t *testing.T, conn *sql.DB, leadID, name string) string {
	t.Helper()

	pocID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO poc (id, lead_id, name, role) VALUES ($1, $2, $3, 'Founder')
	`, pocID, leadID, name)
	if err != nil {
		t.Fatalf("Failed to create test POC: %v", err)
	}

	return pocID
}

// CreateTestCoreProblem inserts a core problem for a pod and returns its ID
func CreateTestCoreProblem(t *testing.T, conn *sql.DB, podID, title string) string {
	t.Helper()

	problemID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO core_problem (id, pod_id, title, description)
		VALUES ($1, $2, $3, 'Test description')
	`, problemID, podID, title)
	if err != nil {
		t.Fatalf("Failed to create test core problem: %v", err)
	}

	return problemID
}

// CreateTestSolution inserts a solution with the given status and returns its ID
func CreateTestSolution(t *testing.T, conn *sql.DB, problemID, title, status string) string {
	t.Helper()

	solutionID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO solution (id, core_problem_id, title, status)
		VALUES ($1, $2, $3, $4)
	`, solutionID, problemID, title, status)
	if err != nil {
		t.Fatalf("Failed to create test solution: %v", err)
	}

	return solutionID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// DecodeData unwraps the { success, data } envelope into v and returns
// the envelope's success flag.
func DecodeData(t *testing.T, w *httptest.ResponseRecorder, v interface{}) bool {
	t.Helper()

	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}
	if v != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, v); err != nil {
			t.Fatalf("Failed to decode envelope data: %v", err)
		}
	}
	return env.Success
}
