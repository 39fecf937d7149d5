// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/teamvote/teamvote/access"
	"github.com/teamvote/teamvote/cliparse"
	"github.com/teamvote/teamvote/middleware"
	"github.com/teamvote/teamvote/models"
)

type ElectionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewElectionHandler(db *sql.DB, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{db: db, cfg: cfg}
}

// CreateElection handles POST /teams/election/{team}
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	team := r.PathValue("team")
	if team == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "team is required")
		return
	}

	id, ok := callerIdentity(w, r, h.cfg)
	if !ok {
		return
	}
	if !requireTeamEditor(w, h.db, team, id) {
		return
	}

	var doc models.Election
	if err := middleware.ParseJSONBody(r, &doc); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if doc.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	// The path segment wins over whatever the body claims
	doc.Team = team
	if doc.ID == "" {
		doc.ID = access.NewDocID()
	}
	doc.Rev = newRev()
	now := time.Now().UTC().Format(time.RFC3339)
	if doc.DateCreated == "" {
		doc.DateCreated = now
	}
	doc.DateModified = now

	body, err := json.Marshal(doc)
	if err != nil {
		slog.Error("failed to encode election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO election_doc (id, rev, team, body)
		VALUES ($1, $2, $3, $4)
	`, doc.ID, doc.Rev, doc.Team, string(body))

	if isUniqueViolation(err) {
		middleware.ErrorResponse(w, http.StatusConflict, "Election already exists")
		return
	}
	if err != nil {
		slog.Error("failed to insert election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	slog.Info("election created", "team", team, "election_id", doc.ID)

	middleware.JSONResponse(w, http.StatusCreated, doc)
}

// GetElections handles GET /teams/election/{team}
func (h *ElectionHandler) GetElections(w http.ResponseWriter, r *http.Request) {
	team := r.PathValue("team")
	if team == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "team is required")
		return
	}

	if _, ok := callerIdentity(w, r, h.cfg); !ok {
		return
	}

	exists, err := teamExists(h.db, team)
	if err != nil {
		slog.Error("failed to query team", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Team not found")
		return
	}

	rows, err := h.db.Query(`
		SELECT body FROM election_doc WHERE team = $1 ORDER BY id
	`, team)
	if err != nil {
		slog.Error("failed to query elections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	elections := []models.Election{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			slog.Error("failed to scan election", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		var doc models.Election
		if err := json.Unmarshal([]byte(body), &doc); err != nil {
			slog.Error("failed to decode election", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		elections = append(elections, doc)
	}

	middleware.JSONResponse(w, http.StatusOK, elections)
}
