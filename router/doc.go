// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the TeamVote API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Teams (authenticated):

	POST /teams/team        - Create team (caller becomes creator/admin)
	GET  /teams/team/{team} - Fetch team

Elections (writes require editor rank on the team):

	POST /teams/election/{team} - Create election
	GET  /teams/election/{team} - List elections

Contests (writes require editor rank on the team):

	POST   /teams/contests/{team}         - Add contest document
	GET    /teams/contests/{team}         - List contest documents
	PUT    /teams/contests/{team}/{docId} - Replace document (rev checked)
	DELETE /teams/contests/{team}/{docId} - Delete document

Access records:

	GET  /teams/access                - Caller's invitations and memberships
	GET  /teams/access/{team}         - Team access list (editor)
	POST /teams/access/{team}         - Add invite (editor)
	PUT  /teams/access/{team}/{docId} - Update invite (editor)
	PUT  /teams/invites/{docId}       - Accept/ignore own invitation

# Handler Initialization

The router creates handler instances with dependency injection:

	teamHandler := handlers.NewTeamHandler(db, cfg)
	electionHandler := handlers.NewElectionHandler(db, cfg)
	contestHandler := handlers.NewContestHandler(db, cfg)
	accessHandler := handlers.NewAccessHandler(db, cfg)

All handlers receive the database connection and configuration.
*/
package router
