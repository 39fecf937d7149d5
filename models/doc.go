// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - Team: display name, description, slug (unique key across API calls)
  - Election: team-scoped election document
  - ContestDoc: team-scoped document holding an ordered list of contests
  - Contest: one race or referendum (office, type, candidates)
  - Candidate: name, party, URL, phone, email, UI editing flag
  - MergedContest: a contest flattened out of its document with doc_id and
    doc_index tags
  - Ballot: client-only local ballot (contest key -> chosen candidate)

Documents carry Cloudant-style "_id" and "_rev" JSON fields; the revision
changes on every server-side write.

# Request Types

  - CreateTeamRequest: slug, display_name, description
  - UpdateInviteRequest: status ("accepted" or "ignored")

Election and contest writes send the document types directly. Access
records live in the access package, which owns their validation.

# Constants

Contest types:

	TypeCandidate  = "Candidate"
	TypeReferendum = "Referendum"
*/
package models
