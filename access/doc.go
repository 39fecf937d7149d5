// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package access defines the invitation/membership document model.

An access record links a user to a team with a role (acl) and an
invitation status. Records are plain documents; this package owns their
shape, normalization and validation, and nothing else touches those
concerns.

# Lifecycle

	rec := access.Blank()              // new id, status "invited"
	access.Creating(&rec)              // strip server-assigned fields for cloning
	access.Update(sub, &rec, teamID)   // normalize before every write

Update is idempotent: it fills _id, creator_sub and date_created only when
absent, always refreshes date_modified, forces team and doc_type, and
lowercases the email.

# Validation

Validate works on the raw JSON map so unknown fields can be stripped
rather than rejected:

	var doc map[string]any
	json.Unmarshal(body, &doc)
	res := access.Validate(doc)
	if !res.OK() { ... res.Missing, res.Invalid ... }

Required fields: doc_type, email, team, acl, status. Constraints: doc_type
is the "access" constant, email is at least 6 characters, team is
non-empty, acl and status come from their enumerations.

# Roles

	admin   100
	editor   50
	user     10
	removed  math.MinInt

RoleNum feeds authorization comparisons; "removed" (or anything unknown)
ranks below every valid role and so revokes access.
*/
package access
