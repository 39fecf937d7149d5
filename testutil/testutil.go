// Copyright (c) 2025 The TeamVote Authors.
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

	_ "modernc.org/sqlite"

	"github.com/teamvote/teamvote/access"
	"github.com/teamvote/teamvote/auth"
	"github.com/teamvote/teamvote/cliparse"
	"github.com/teamvote/teamvote/db"
	"github.com/teamvote/teamvote/models"
)

// SetupTestDB creates a fresh in-memory sqlite database with the full
// schema. Each test gets its own database; nothing to clean up beyond the
// registered Close.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// One connection keeps every statement on the same in-memory database
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3320,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		SessionSalt:  "test-session-salt",
		DevAuthToken: "development",
	}
}

// IdentityHeaders builds the auth header for a signed test identity.
func IdentityHeaders(cfg cliparse.Config, sub, email string) map[string]string {
	token := auth.SignIdentity(auth.Identity{Sub: sub, Email: email}, cfg.SessionSalt)
	return map[string]string{"x-authorization": token}
}

// CreateTestTeam inserts a team row directly.
func CreateTestTeam(t *testing.T, conn *sql.DB, slug, creatorSub string) {
	t.Helper()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := conn.Exec(`
		INSERT INTO team (slug, display_name, description, creator_sub, date_created, date_modified)
		VALUES ($1, $2, '', $3, $4, $4)
	`, slug, "Team "+slug, creatorSub, now)
	if err != nil {
		t.Fatalf("Failed to create test team: %v", err)
	}
}

// SeedAccess inserts a normalized access record and returns it. Missing
// id/dates are filled via access.Update; the revision starts at 1.
func SeedAccess(t *testing.T, conn *sql.DB, rec access.Record) access.Record {
	t.Helper()

	access.Update(rec.CreatorSub, &rec, rec.Team)
	if rec.Rev == "" {
		rec.Rev = "1-seed0000"
	}

	body, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Failed to encode access record: %v", err)
	}
	_, err = conn.Exec(`
		INSERT INTO access_doc (id, rev, team, email, sub, body)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rec.ID, rec.Rev, rec.Team, rec.Email, rec.Sub, string(body))
	if err != nil {
		t.Fatalf("Failed to create test access record: %v", err)
	}

	return rec
}

// SeedContestDoc inserts a contest document and returns it with id/rev set.
func SeedContestDoc(t *testing.T, conn *sql.DB, team string, contests []models.Contest) models.ContestDoc {
	t.Helper()

	doc := models.ContestDoc{
		ID:       access.NewDocID(),
		Rev:      "1-seed0000",
		Team:     team,
		Contests: contests,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to encode contest doc: %v", err)
	}
	_, err = conn.Exec(`
		INSERT INTO contest_doc (id, rev, team, body)
		VALUES ($1, $2, $3, $4)
	`, doc.ID, doc.Rev, doc.Team, string(body))
	if err != nil {
		t.Fatalf("Failed to create test contest doc: %v", err)
	}

	return doc
}

// SeedElection inserts an election document and returns it with id/rev set.
func SeedElection(t *testing.T, conn *sql.DB, team, name string) models.Election {
	t.Helper()

	now := time.Now().UTC().Format(time.RFC3339)
	doc := models.Election{
		ID:           access.NewDocID(),
		Rev:          "1-seed0000",
		Team:         team,
		Name:         name,
		DateCreated:  now,
		DateModified: now,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to encode election: %v", err)
	}
	_, err = conn.Exec(`
		INSERT INTO election_doc (id, rev, team, body)
		VALUES ($1, $2, $3, $4)
	`, doc.ID, doc.Rev, doc.Team, string(body))
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	return doc
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
