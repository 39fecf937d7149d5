// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles server configuration from CLI flags and environment.

# Precedence

CLI flags win over environment variables. A .env file loaded by the caller
(see main) only populates the environment, so it sits at the bottom.

# Settings

Required:

  - DATABASE_URL (-d): sqlite file path/DSN or PostgreSQL connection string
  - SESSION_SALT (--session-salt): secret for identity token HMAC

Optional:

  - PORT (-p): server port (default: 3320)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"
  - DEV_AUTH_TOKEN (--dev-token): shared x-authorization value accepted in
    place of a signed identity token; leave empty in production
*/
package cliparse
