// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connection and schema creation.

# Opening

Open selects the driver from the configuration:

	conn, err := db.Open(cfg)

DATABASE_TYPE "sqlite" uses modernc.org/sqlite (cgo-free, good for dev and
single-node deployments); "postgres" uses lib/pq.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

The schema is document-oriented: each *_doc table stores the full JSON body
plus the columns queries filter on.

  - team: display name, description, creator
  - access_doc: invitation/membership records (unique per team+email)
  - election_doc: election documents per team
  - contest_doc: contest documents per team (ordered contest lists)

Revisions are "N-xxxxxxxx" strings bumped on every write; a PUT carrying a
stale revision is rejected by the handlers with 409.

# Indexes

  - access_doc(team, email) unique
  - access_doc.team, access_doc.email, access_doc.sub
  - election_doc.team
  - contest_doc.team
*/
package db
