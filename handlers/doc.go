// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers implements the HTTP request handlers.

# Structure

Each resource gets a handler struct with the database connection and
configuration injected:

  - TeamHandler: team creation and lookup
  - ElectionHandler: election documents
  - ContestHandler: contest documents (rev-checked replacement, deletion)
  - AccessHandler: invitations and memberships

# Authorization

Every endpoint resolves the caller via auth.RequestIdentity. Mutations on
a team additionally require editor rank, which isTeamEditor derives from
the caller's access record - or from being the team's creator, covering
the window before the creator's own access record exists.

# Revisions

Documents carry "N-xxxxxxxx" revisions. Replacement endpoints compare the
body's revision with the stored one and answer 409 on mismatch; every
successful write bumps the generation with a fresh hash.

# Error Responses

Handlers log the underlying error and answer with a generic message via
middleware.ErrorResponse. Status codes: 400 malformed input, 401 missing
identity, 403 insufficient rank, 404 unknown team/document, 409
uniqueness or revision conflict.
*/
package handlers
