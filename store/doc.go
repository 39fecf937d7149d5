// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store holds team-scoped client state on top of the REST clients.

One Store serves one signed-in session. It caches the current team, its
access list, the caller's own access list, elections and contest
documents, and owns the local ballot. The session is an explicit value
passed to New; nothing here reads ambient global state.

# Loads

Load methods replace their slice of state wholesale from the server. On
failure they return the error and leave the previous value untouched, so
an empty list always means the server said so, never that a request
silently failed. Elections and contests upsert by document id during a
load, so a document is never cached twice.

# Writes

Server writes (RemoveContest, the invite operations) update the cache
only after the server confirms, keeping the cache a faithful copy of
stored state. The ballot is the exception: votes are local-only, written
to a per-team JSON file under the store's data directory, and never sent
anywhere.
*/
package store
