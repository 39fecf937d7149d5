// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the TeamVote API server.

TeamVote is a team election service: teams invite members by email,
editors set up elections and contests (candidate races and referenda),
and members keep a private local ballot while they decide.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	SESSION_SALT=... go run main.go

Or with flags:

	go run main.go -p 3320 -t sqlite -d teamvote.db --session-salt "..."

# Configuration

Required settings:

  - SESSION_SALT (--session-salt): Secret for identity token HMAC

Optional settings:

  - PORT (-p): Server port (default: 3320)
  - DATABASE_TYPE (-t): "sqlite" or "postgres" (default: sqlite)
  - DATABASE_URL (-d): Connection string or sqlite file path
  - DEV_AUTH_TOKEN (--dev-token): Fixed token accepted as the dev identity

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (teams, elections, contests, access)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response and document types
  - access: Access-record schema, normalization and validation
  - auth: Identity token signing and verification
  - db: Schema creation for both database backends
  - cliparse: Configuration parsing

The repository also ships the Go client side of the service:

  - client: REST resource clients with typed error results
  - store: Team-scoped client state and the local ballot
  - dateformat: Election date rendering

See package documentation for each component.
*/
package main
