// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/teamvote/teamvote/cliparse"
	"github.com/teamvote/teamvote/handlers"
	"github.com/teamvote/teamvote/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	teamHandler := handlers.NewTeamHandler(db, cfg)
	electionHandler := handlers.NewElectionHandler(db, cfg)
	contestHandler := handlers.NewContestHandler(db, cfg)
	accessHandler := handlers.NewAccessHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Teams
	mux.HandleFunc("POST /teams/team", middleware.WithLogging(teamHandler.CreateTeam))
	mux.HandleFunc("GET /teams/team/{team}", middleware.WithLogging(teamHandler.GetTeam))

	// Elections
	mux.HandleFunc("POST /teams/election/{team}", middleware.WithLogging(electionHandler.CreateElection))
	mux.HandleFunc("GET /teams/election/{team}", middleware.WithLogging(electionHandler.GetElections))

	// Contests
	mux.HandleFunc("POST /teams/contests/{team}", middleware.WithLogging(contestHandler.AddContests))
	mux.HandleFunc("GET /teams/contests/{team}", middleware.WithLogging(contestHandler.GetContests))
	mux.HandleFunc("PUT /teams/contests/{team}/{docId}", middleware.WithLogging(contestHandler.UpdateContest))
	mux.HandleFunc("DELETE /teams/contests/{team}/{docId}", middleware.WithLogging(contestHandler.DeleteContest))

	// Access (invitations / memberships)
	mux.HandleFunc("GET /teams/access", middleware.WithLogging(accessHandler.GetMyAccess))
	mux.HandleFunc("GET /teams/access/{team}", middleware.WithLogging(accessHandler.GetTeamAccess))
	mux.HandleFunc("POST /teams/access/{team}", middleware.WithLogging(accessHandler.AddInvite))
	mux.HandleFunc("PUT /teams/access/{team}/{docId}", middleware.WithLogging(accessHandler.UpdateTeamInvite))
	mux.HandleFunc("PUT /teams/invites/{docId}", middleware.WithLogging(accessHandler.UpdateMyInvite))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("teamvote API v1"))
	})

	return mux
}
