// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth resolves caller identity and generates tokens and ids.

# Identity Tokens

Identity tokens are HMAC-SHA256 signed and carry the caller's subject id
and email:

	token := auth.SignIdentity(auth.Identity{Sub: "u1", Email: "u1@x.com"}, salt)
	id, err := auth.VerifyIdentity(token, salt)

Since the signature is deterministic for a given salt, validation needs no
token storage.

# Request Resolution

Handlers resolve the caller in one call:

	id, err := auth.RequestIdentity(r, cfg.DevAuthToken, cfg.SessionSalt)

The x-authorization header is checked first: when it equals the configured
dev token the fixed DevIdentity is returned, which substitutes for the
production authentication mechanism during development. Otherwise the
header (or a standard Authorization bearer token) must hold a signed
identity token.

# ID Generation

Random hex IDs for revision hashes and other server-side artifacts:

	id, err := auth.GenerateID(4) // 8 hex characters

Document ids are not generated here; the access package owns those.
*/
package auth
