// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs method, path, remote address and duration via slog.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, payload)
	middleware.ErrorResponse(w, http.StatusBadRequest, "email is required")
	err := middleware.ParseJSONBody(r, &req)

ErrorResponse wraps the message in models.ErrorResponse with the standard
status text.

# CORS

CORS wraps the whole mux and handles preflight requests. The
x-authorization header is allowed so browser clients can use dev auth.
*/
package middleware
