// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/teamvote/teamvote/access"
	"github.com/teamvote/teamvote/cliparse"
	"github.com/teamvote/teamvote/middleware"
	"github.com/teamvote/teamvote/models"
)

type ContestHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewContestHandler(db *sql.DB, cfg cliparse.Config) *ContestHandler {
	return &ContestHandler{db: db, cfg: cfg}
}

// AddContests handles POST /teams/contests/{team}
func (h *ContestHandler) AddContests(w http.ResponseWriter, r *http.Request) {
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

	var doc models.ContestDoc
	if err := middleware.ParseJSONBody(r, &doc); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if msg := validateContests(doc.Contests); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	doc.Team = team
	if doc.ID == "" {
		doc.ID = access.NewDocID()
	}
	doc.Rev = newRev()

	body, err := json.Marshal(doc)
	if err != nil {
		slog.Error("failed to encode contest doc", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add contests")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO contest_doc (id, rev, team, body)
		VALUES ($1, $2, $3, $4)
	`, doc.ID, doc.Rev, doc.Team, string(body))

	if isUniqueViolation(err) {
		middleware.ErrorResponse(w, http.StatusConflict, "Contest document already exists")
		return
	}
	if err != nil {
		slog.Error("failed to insert contest doc", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add contests")
		return
	}

	slog.Info("contests added", "team", team, "doc_id", doc.ID, "count", len(doc.Contests))

	middleware.JSONResponse(w, http.StatusCreated, doc)
}

// GetContests handles GET /teams/contests/{team}
func (h *ContestHandler) GetContests(w http.ResponseWriter, r *http.Request) {
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
		SELECT body FROM contest_doc WHERE team = $1 ORDER BY id
	`, team)
	if err != nil {
		slog.Error("failed to query contest docs", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	docs := []models.ContestDoc{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			slog.Error("failed to scan contest doc", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		var doc models.ContestDoc
		if err := json.Unmarshal([]byte(body), &doc); err != nil {
			slog.Error("failed to decode contest doc", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		docs = append(docs, doc)
	}

	middleware.JSONResponse(w, http.StatusOK, docs)
}

// UpdateContest handles PUT /teams/contests/{team}/{docId}
// Full-document replacement; the revision in the body must match the
// stored one or the write is rejected with 409.
func (h *ContestHandler) UpdateContest(w http.ResponseWriter, r *http.Request) {
	team := r.PathValue("team")
	docID := r.PathValue("docId")
	if team == "" || docID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "team and docId are required")
		return
	}

	id, ok := callerIdentity(w, r, h.cfg)
	if !ok {
		return
	}
	if !requireTeamEditor(w, h.db, team, id) {
		return
	}

	var doc models.ContestDoc
	if err := middleware.ParseJSONBody(r, &doc); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if msg := validateContests(doc.Contests); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	var storedRev string
	err := h.db.QueryRow(`
		SELECT rev FROM contest_doc WHERE id = $1 AND team = $2
	`, docID, team).Scan(&storedRev)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Contest document not found")
		return
	}
	if err != nil {
		slog.Error("failed to query contest doc", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if doc.Rev != storedRev {
		middleware.ErrorResponse(w, http.StatusConflict, "Document revision conflict")
		return
	}

	doc.ID = docID
	doc.Team = team
	doc.Rev = bumpRev(storedRev)

	body, err := json.Marshal(doc)
	if err != nil {
		slog.Error("failed to encode contest doc", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update contests")
		return
	}

	_, err = h.db.Exec(`
		UPDATE contest_doc SET rev = $1, body = $2 WHERE id = $3 AND team = $4
	`, doc.Rev, string(body), docID, team)

	if err != nil {
		slog.Error("failed to update contest doc", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update contests")
		return
	}

	slog.Info("contest doc updated", "team", team, "doc_id", docID, "rev", doc.Rev)

	middleware.JSONResponse(w, http.StatusOK, doc)
}

// DeleteContest handles DELETE /teams/contests/{team}/{docId}
func (h *ContestHandler) DeleteContest(w http.ResponseWriter, r *http.Request) {
	team := r.PathValue("team")
	docID := r.PathValue("docId")
	if team == "" || docID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "team and docId are required")
		return
	}

	id, ok := callerIdentity(w, r, h.cfg)
	if !ok {
		return
	}
	if !requireTeamEditor(w, h.db, team, id) {
		return
	}

	result, err := h.db.Exec(`
		DELETE FROM contest_doc WHERE id = $1 AND team = $2
	`, docID, team)
	if err != nil {
		slog.Error("failed to delete contest doc", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete contests")
		return
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Contest document not found")
		return
	}

	slog.Info("contest doc deleted", "team", team, "doc_id", docID)

	w.WriteHeader(http.StatusNoContent)
}

// validateContests returns an error message for the first malformed
// contest, or "" when the list is acceptable. Referenda have no office, so
// they are keyed (and therefore required) by referendum title instead.
func validateContests(contests []models.Contest) string {
	if len(contests) == 0 {
		return "contests cannot be empty"
	}
	for _, c := range contests {
		if c.Type == models.TypeReferendum {
			if c.ReferendumTitle == "" {
				return "referendumTitle is required for Referendum contests"
			}
			continue
		}
		if c.Office == "" {
			return "office is required"
		}
	}
	return ""
}
