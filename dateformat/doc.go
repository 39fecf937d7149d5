// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package dateformat renders election dates for display. Dates are stored
// in the short "MM/dd/yy" form; this package turns them into countdowns
// and long-form dates without ever failing on bad input.
package dateformat
