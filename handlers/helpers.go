// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/teamvote/teamvote/access"
	"github.com/teamvote/teamvote/auth"
	"github.com/teamvote/teamvote/cliparse"
	"github.com/teamvote/teamvote/middleware"
)

var errTeamNotFound = errors.New("team not found")

// callerIdentity resolves the caller or writes a 401 and returns false.
func callerIdentity(w http.ResponseWriter, r *http.Request, cfg cliparse.Config) (auth.Identity, bool) {
	id, err := auth.RequestIdentity(r, cfg.DevAuthToken, cfg.SessionSalt)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return auth.Identity{}, false
	}
	return id, true
}

// isTeamEditor reports whether the caller may edit the team: role admin or
// editor on an access record, or being the team's creator. The creator
// fallback covers the window between team creation and the creator's own
// access record landing.
func isTeamEditor(db *sql.DB, team string, id auth.Identity) (bool, error) {
	var creatorSub string
	err := db.QueryRow(`SELECT creator_sub FROM team WHERE slug = $1`, team).Scan(&creatorSub)
	if err == sql.ErrNoRows {
		return false, errTeamNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to query team: %w", err)
	}
	if creatorSub == id.Sub {
		return true, nil
	}

	var body string
	err = db.QueryRow(`
		SELECT body FROM access_doc
		WHERE team = $1 AND (sub = $2 OR email = $3)
	`, team, id.Sub, strings.ToLower(id.Email)).Scan(&body)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query access: %w", err)
	}

	var rec access.Record
	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		return false, fmt.Errorf("failed to decode access record: %w", err)
	}

	return access.RoleNum(rec.ACL) >= access.RoleNum(access.RoleEditor), nil
}

// requireTeamEditor combines the lookup with the standard responses:
// 404 for a missing team, 403 for an authenticated non-editor.
func requireTeamEditor(w http.ResponseWriter, db *sql.DB, team string, id auth.Identity) bool {
	editor, err := isTeamEditor(db, team, id)
	if err == errTeamNotFound {
		middleware.ErrorResponse(w, http.StatusNotFound, "Team not found")
		return false
	}
	if err != nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return false
	}
	if !editor {
		middleware.ErrorResponse(w, http.StatusForbidden, "Editor access required")
		return false
	}
	return true
}

func teamExists(db *sql.DB, team string) (bool, error) {
	var slug string
	err := db.QueryRow(`SELECT slug FROM team WHERE slug = $1`, team).Scan(&slug)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// newRev starts a document revision: generation 1 plus a random hash.
func newRev() string {
	hash, _ := auth.GenerateID(4)
	return "1-" + hash
}

// bumpRev increments the revision generation with a fresh hash. A
// malformed revision restarts at generation 1.
func bumpRev(rev string) string {
	gen := 0
	if num, _, found := strings.Cut(rev, "-"); found {
		gen, _ = strconv.Atoi(num)
	}
	hash, _ := auth.GenerateID(4)
	return strconv.Itoa(gen+1) + "-" + hash
}

// isUniqueViolation matches the duplicate-key errors of both drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
