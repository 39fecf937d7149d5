// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/teamvote/teamvote/access"
	"github.com/teamvote/teamvote/cliparse"
	"github.com/teamvote/teamvote/middleware"
	"github.com/teamvote/teamvote/models"
)

type TeamHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewTeamHandler(db *sql.DB, cfg cliparse.Config) *TeamHandler {
	return &TeamHandler{db: db, cfg: cfg}
}

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// CreateTeam handles POST /teams/team
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.CreateTeamRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if !slugPattern.MatchString(req.Slug) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug must be lowercase letters, digits and dashes")
		return
	}
	if req.DisplayName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "display_name is required")
		return
	}

	now := time.Now().UTC().Format(time.RFC3339)
	team := models.Team{
		Slug:         req.Slug,
		DisplayName:  req.DisplayName,
		Description:  req.Description,
		CreatorSub:   id.Sub,
		DateCreated:  now,
		DateModified: now,
	}

	_, err := h.db.Exec(`
		INSERT INTO team (slug, display_name, description, creator_sub, date_created, date_modified)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, team.Slug, team.DisplayName, team.Description, team.CreatorSub, team.DateCreated, team.DateModified)

	if isUniqueViolation(err) {
		middleware.ErrorResponse(w, http.StatusConflict, "Team slug already taken")
		return
	}
	if err != nil {
		slog.Error("failed to insert team", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create team")
		return
	}

	// The creator gets an accepted admin access record right away so the
	// team access list is never empty
	rec := access.Blank()
	rec.Email = id.Email
	rec.Sub = id.Sub
	rec.ACL = access.RoleAdmin
	rec.Status = access.StatusAccepted
	access.Update(id.Sub, &rec, team.Slug)
	rec.Rev = newRev()

	if err := insertAccessDoc(h.db, rec); err != nil {
		// The team exists either way; the creator fallback in
		// authorization still lets them in
		slog.Warn("failed to insert creator access record", "error", err, "team", team.Slug)
	}

	slog.Info("team created", "slug", team.Slug, "creator", id.Sub)

	middleware.JSONResponse(w, http.StatusCreated, team)
}

// GetTeam handles GET /teams/team/{team}
func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerIdentity(w, r, h.cfg); !ok {
		return
	}

	slug := r.PathValue("team")
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "team is required")
		return
	}

	var team models.Team
	err := h.db.QueryRow(`
		SELECT slug, display_name, description, creator_sub, date_created, date_modified
		FROM team
		WHERE slug = $1
	`, slug).Scan(
		&team.Slug, &team.DisplayName, &team.Description,
		&team.CreatorSub, &team.DateCreated, &team.DateModified,
	)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Team not found")
		return
	}
	if err != nil {
		slog.Error("failed to query team", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, team)
}

func insertAccessDoc(db *sql.DB, rec access.Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		INSERT INTO access_doc (id, rev, team, email, sub, body)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rec.ID, rec.Rev, rec.Team, rec.Email, rec.Sub, string(body))
	return err
}
