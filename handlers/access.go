// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/teamvote/teamvote/access"
	"github.com/teamvote/teamvote/cliparse"
	"github.com/teamvote/teamvote/middleware"
	"github.com/teamvote/teamvote/models"
)

type AccessHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAccessHandler(db *sql.DB, cfg cliparse.Config) *AccessHandler {
	return &AccessHandler{db: db, cfg: cfg}
}

// GetMyAccess handles GET /teams/access
// Returns the caller's access records across all teams: open invitations
// (matched by email) plus memberships (matched by sub).
func (h *AccessHandler) GetMyAccess(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(w, r, h.cfg)
	if !ok {
		return
	}

	rows, err := h.db.Query(`
		SELECT body FROM access_doc
		WHERE sub = $1 OR email = $2
		ORDER BY team
	`, id.Sub, strings.ToLower(id.Email))
	if err != nil {
		slog.Error("failed to query access", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	docs, err := scanAccessDocs(rows)
	if err != nil {
		slog.Error("failed to read access records", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, docs)
}

// GetTeamAccess handles GET /teams/access/{team}
func (h *AccessHandler) GetTeamAccess(w http.ResponseWriter, r *http.Request) {
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

	rows, err := h.db.Query(`
		SELECT body FROM access_doc WHERE team = $1 ORDER BY email
	`, team)
	if err != nil {
		slog.Error("failed to query team access", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	docs, err := scanAccessDocs(rows)
	if err != nil {
		slog.Error("failed to read access records", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, docs)
}

// AddInvite handles POST /teams/access/{team}
func (h *AccessHandler) AddInvite(w http.ResponseWriter, r *http.Request) {
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

	var rec access.Record
	if err := middleware.ParseJSONBody(r, &rec); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// A new invite never carries server-assigned state from a template
	rec.Rev = ""
	rec.Sub = ""
	if rec.Status == "" {
		rec.Status = access.StatusInvited
	}

	access.Update(id.Sub, &rec, team)

	if msg := validateRecord(rec); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	rec.Rev = newRev()

	err := insertAccessDoc(h.db, rec)
	if isUniqueViolation(err) {
		middleware.ErrorResponse(w, http.StatusConflict, "Already invited")
		return
	}
	if err != nil {
		slog.Error("failed to insert access record", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create invite")
		return
	}

	slog.Info("invite created", "team", team, "email", rec.Email, "acl", rec.ACL)

	middleware.JSONResponse(w, http.StatusCreated, rec)
}

// UpdateTeamInvite handles PUT /teams/access/{team}/{docId}
// Administrative update of an invite: role changes, revocation (acl
// "removed"), corrections. Creator and creation date are preserved from
// the stored record.
func (h *AccessHandler) UpdateTeamInvite(w http.ResponseWriter, r *http.Request) {
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

	stored, err := loadAccessDoc(h.db, docID)
	if err == sql.ErrNoRows || (err == nil && stored.Team != team) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Access record not found")
		return
	}
	if err != nil {
		slog.Error("failed to load access record", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var rec access.Record
	if err := middleware.ParseJSONBody(r, &rec); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if rec.Rev != stored.Rev {
		middleware.ErrorResponse(w, http.StatusConflict, "Document revision conflict")
		return
	}

	rec.ID = docID
	rec.CreatorSub = stored.CreatorSub
	rec.DateCreated = stored.DateCreated
	access.Update(id.Sub, &rec, team)

	if msg := validateRecord(rec); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	rec.Rev = bumpRev(stored.Rev)

	if err := updateAccessDoc(h.db, rec); err != nil {
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Already invited")
			return
		}
		slog.Error("failed to update access record", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update invite")
		return
	}

	slog.Info("invite updated", "team", team, "access_id", docID, "acl", rec.ACL, "status", rec.Status)

	middleware.JSONResponse(w, http.StatusOK, rec)
}

// UpdateMyInvite handles PUT /teams/invites/{docId}
// The invited user accepting or ignoring their own invitation. Both
// outcomes are terminal; anything else is rejected.
func (h *AccessHandler) UpdateMyInvite(w http.ResponseWriter, r *http.Request) {
	docID := r.PathValue("docId")
	if docID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "docId is required")
		return
	}

	id, ok := callerIdentity(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.UpdateInviteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Status != access.StatusAccepted && req.Status != access.StatusIgnored {
		middleware.ErrorResponse(w, http.StatusBadRequest, "status must be accepted or ignored")
		return
	}

	stored, err := loadAccessDoc(h.db, docID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Invitation not found")
		return
	}
	if err != nil {
		slog.Error("failed to load access record", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Only the invited user may answer; a miss looks like a missing doc
	if stored.Sub != id.Sub && !strings.EqualFold(stored.Email, id.Email) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Invitation not found")
		return
	}

	if stored.Status != access.StatusInvited {
		middleware.ErrorResponse(w, http.StatusConflict, "Invitation already answered")
		return
	}

	stored.Status = req.Status
	if req.Status == access.StatusAccepted {
		stored.Sub = id.Sub
	}
	access.Update(id.Sub, &stored, stored.Team)
	stored.Rev = bumpRev(stored.Rev)

	if err := updateAccessDoc(h.db, stored); err != nil {
		slog.Error("failed to update access record", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update invitation")
		return
	}

	slog.Info("invite answered", "access_id", docID, "status", stored.Status, "sub", id.Sub)

	middleware.JSONResponse(w, http.StatusOK, stored)
}

// validateRecord runs the schema validation on a normalized record and
// flattens the outcome into one client-facing message.
func validateRecord(rec access.Record) string {
	raw, err := json.Marshal(rec)
	if err != nil {
		return "invalid record"
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "invalid record"
	}

	res := access.Validate(doc)
	if res.OK() {
		return ""
	}
	if len(res.Missing) > 0 {
		return fmt.Sprintf("missing required fields: %s", strings.Join(res.Missing, ", "))
	}
	return fmt.Sprintf("invalid fields: %s", strings.Join(res.Invalid, ", "))
}

func loadAccessDoc(db *sql.DB, id string) (access.Record, error) {
	var body string
	err := db.QueryRow(`SELECT body FROM access_doc WHERE id = $1`, id).Scan(&body)
	if err != nil {
		return access.Record{}, err
	}

	var rec access.Record
	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		return access.Record{}, fmt.Errorf("failed to decode access record: %w", err)
	}
	return rec, nil
}

func updateAccessDoc(db *sql.DB, rec access.Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		UPDATE access_doc
		SET rev = $1, team = $2, email = $3, sub = $4, body = $5
		WHERE id = $6
	`, rec.Rev, rec.Team, rec.Email, rec.Sub, string(body), rec.ID)
	return err
}

func scanAccessDocs(rows *sql.Rows) ([]access.Record, error) {
	docs := []access.Record{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var rec access.Record
		if err := json.Unmarshal([]byte(body), &rec); err != nil {
			return nil, err
		}
		docs = append(docs, rec)
	}
	return docs, rows.Err()
}
