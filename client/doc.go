// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package client provides the REST resource clients for the TeamVote API.

# Usage

	api := client.New("http://localhost:3320", token)
	docs, err := api.Contests(ctx, "acme")

One Client carries the shared plumbing (base URL, identity token, HTTP
client); the per-resource calls are methods on it: teams, elections,
contests, access records.

# Error Contract

Every call returns an explicit error instead of a sentinel body. Expected
failures are typed for errors.Is:

  - ErrUnauthorized: no/invalid identity
  - ErrForbidden: insufficient rank on the team
  - ErrNotFound: unknown team or document
  - ErrConflict: duplicate invite or stale document revision

Transport failures and unexpected statuses come back wrapped with the
server's message. Callers must handle both arms; there is no "ok" flag to
forget to check.

# Dev Authorization

Against any host other than the production host, a configured DevToken is
attached as the x-authorization header, substituting for the production
authentication mechanism during development.
*/
package client
