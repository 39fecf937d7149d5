// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/teamvote/teamvote/access"
	"github.com/teamvote/teamvote/models"
	"github.com/teamvote/teamvote/testutil"
)

func TestAddInvite(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAccessHandler(conn, cfg)

	testutil.CreateTestTeam(t, conn, "acme", "creator-1")
	creator := testutil.IdentityHeaders(cfg, "creator-1", "creator@example.com")

	invite := func(headers map[string]string, rec access.Record) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/teams/access/acme", rec, headers)
		req.SetPathValue("team", "acme")
		w := httptest.NewRecorder()
		handler.AddInvite(w, req)
		return w
	}

	t.Run("invite is normalized and stored", func(t *testing.T) {
		w := invite(creator, access.Record{Email: "New@X.com", ACL: access.RoleUser})
		testutil.AssertStatus(t, w, http.StatusCreated)

		var rec access.Record
		testutil.AssertJSON(t, w, &rec)
		if rec.Email != "new@x.com" {
			t.Errorf("email = %q, want lowercased", rec.Email)
		}
		if rec.ID == "" || rec.Rev == "" {
			t.Errorf("id/rev not assigned: %+v", rec)
		}
		if rec.Status != access.StatusInvited {
			t.Errorf("status = %q, want invited default", rec.Status)
		}
		if rec.CreatorSub != "creator-1" {
			t.Errorf("creator_sub = %q, want creator-1", rec.CreatorSub)
		}
	})

	t.Run("same email again conflicts", func(t *testing.T) {
		w := invite(creator, access.Record{Email: "new@x.com", ACL: access.RoleEditor})
		testutil.AssertStatus(t, w, http.StatusConflict)
	})

	t.Run("invalid role rejected", func(t *testing.T) {
		w := invite(creator, access.Record{Email: "other@x.com", ACL: "superadmin"})
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("non-editor forbidden", func(t *testing.T) {
		stranger := testutil.IdentityHeaders(cfg, "stranger", "stranger@example.com")
		w := invite(stranger, access.Record{Email: "friend@x.com", ACL: access.RoleUser})
		testutil.AssertStatus(t, w, http.StatusForbidden)
	})
}

func TestGetMyAccess(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAccessHandler(conn, cfg)

	testutil.CreateTestTeam(t, conn, "acme", "creator-1")
	testutil.CreateTestTeam(t, conn, "other", "creator-1")

	// One open invitation matched by email, one membership matched by sub.
	testutil.SeedAccess(t, conn, access.Record{
		Email: "me@example.com", Team: "acme",
		ACL: access.RoleUser, Status: access.StatusInvited,
		CreatorSub: "creator-1",
	})
	testutil.SeedAccess(t, conn, access.Record{
		Email: "old@example.com", Team: "other", Sub: "me-1",
		ACL: access.RoleEditor, Status: access.StatusAccepted,
		CreatorSub: "creator-1",
	})
	// Someone else's record must not leak in.
	testutil.SeedAccess(t, conn, access.Record{
		Email: "other@example.com", Team: "acme",
		ACL: access.RoleUser, Status: access.StatusInvited,
		CreatorSub: "creator-1",
	})

	req := testutil.MakeRequest("GET", "/teams/access", nil,
		testutil.IdentityHeaders(cfg, "me-1", "Me@Example.com"))
	w := httptest.NewRecorder()

	handler.GetMyAccess(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var docs []access.Record
	testutil.AssertJSON(t, w, &docs)
	if len(docs) != 2 {
		t.Fatalf("expected 2 access records, got %d: %+v", len(docs), docs)
	}
	teams := map[string]bool{}
	for _, doc := range docs {
		teams[doc.Team] = true
	}
	if !teams["acme"] || !teams["other"] {
		t.Errorf("unexpected teams in response: %+v", docs)
	}
}

func TestGetTeamAccess(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAccessHandler(conn, cfg)

	testutil.CreateTestTeam(t, conn, "acme", "creator-1")
	testutil.SeedAccess(t, conn, access.Record{
		Email: "member@example.com", Team: "acme", Sub: "member-1",
		ACL: access.RoleUser, Status: access.StatusAccepted,
		CreatorSub: "creator-1",
	})

	t.Run("editor sees the list", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/teams/access/acme", nil,
			testutil.IdentityHeaders(cfg, "creator-1", "creator@example.com"))
		req.SetPathValue("team", "acme")
		w := httptest.NewRecorder()

		handler.GetTeamAccess(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var docs []access.Record
		testutil.AssertJSON(t, w, &docs)
		if len(docs) != 1 {
			t.Errorf("expected 1 access record, got %d", len(docs))
		}
	})

	t.Run("plain member forbidden", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/teams/access/acme", nil,
			testutil.IdentityHeaders(cfg, "member-1", "member@example.com"))
		req.SetPathValue("team", "acme")
		w := httptest.NewRecorder()

		handler.GetTeamAccess(w, req)
		testutil.AssertStatus(t, w, http.StatusForbidden)
	})
}

func TestUpdateTeamInvite(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAccessHandler(conn, cfg)

	testutil.CreateTestTeam(t, conn, "acme", "creator-1")
	creator := testutil.IdentityHeaders(cfg, "creator-1", "creator@example.com")
	seeded := testutil.SeedAccess(t, conn, access.Record{
		Email: "member@example.com", Team: "acme",
		ACL: access.RoleUser, Status: access.StatusInvited,
		CreatorSub: "creator-1",
	})

	put := func(rec access.Record) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("PUT", "/teams/access/acme/"+seeded.ID, rec, creator)
		req.SetPathValue("team", "acme")
		req.SetPathValue("docId", seeded.ID)
		w := httptest.NewRecorder()
		handler.UpdateTeamInvite(w, req)
		return w
	}

	t.Run("stale revision conflicts", func(t *testing.T) {
		stale := seeded
		stale.Rev = "0-stale000"
		testutil.AssertStatus(t, put(stale), http.StatusConflict)
	})

	t.Run("role change keeps provenance", func(t *testing.T) {
		update := seeded
		update.ACL = access.RoleEditor
		w := put(update)
		testutil.AssertStatus(t, w, http.StatusOK)

		var rec access.Record
		testutil.AssertJSON(t, w, &rec)
		if rec.ACL != access.RoleEditor {
			t.Errorf("acl = %q, want editor", rec.ACL)
		}
		if rec.CreatorSub != seeded.CreatorSub || rec.DateCreated != seeded.DateCreated {
			t.Errorf("provenance not preserved: %+v", rec)
		}
		if rec.Rev == seeded.Rev {
			t.Errorf("revision not bumped")
		}
	})

	t.Run("unknown document", func(t *testing.T) {
		req := testutil.MakeRequest("PUT", "/teams/access/acme/teams:nope", seeded, creator)
		req.SetPathValue("team", "acme")
		req.SetPathValue("docId", "teams:nope")
		w := httptest.NewRecorder()

		handler.UpdateTeamInvite(w, req)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestUpdateMyInvite(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAccessHandler(conn, cfg)

	testutil.CreateTestTeam(t, conn, "acme", "creator-1")
	seeded := testutil.SeedAccess(t, conn, access.Record{
		Email: "invitee@example.com", Team: "acme",
		ACL: access.RoleUser, Status: access.StatusInvited,
		CreatorSub: "creator-1",
	})

	answer := func(headers map[string]string, status string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("PUT", "/teams/invites/"+seeded.ID,
			models.UpdateInviteRequest{Status: status}, headers)
		req.SetPathValue("docId", seeded.ID)
		w := httptest.NewRecorder()
		handler.UpdateMyInvite(w, req)
		return w
	}

	invitee := testutil.IdentityHeaders(cfg, "invitee-1", "Invitee@Example.com")

	t.Run("only accept or ignore", func(t *testing.T) {
		testutil.AssertStatus(t, answer(invitee, "invited"), http.StatusBadRequest)
	})

	t.Run("someone else's invitation looks missing", func(t *testing.T) {
		other := testutil.IdentityHeaders(cfg, "other-1", "other@example.com")
		testutil.AssertStatus(t, answer(other, access.StatusAccepted), http.StatusNotFound)
	})

	t.Run("accepting claims the record", func(t *testing.T) {
		w := answer(invitee, access.StatusAccepted)
		testutil.AssertStatus(t, w, http.StatusOK)

		var rec access.Record
		testutil.AssertJSON(t, w, &rec)
		if rec.Status != access.StatusAccepted {
			t.Errorf("status = %q, want accepted", rec.Status)
		}
		if rec.Sub != "invitee-1" {
			t.Errorf("sub = %q, want invitee-1", rec.Sub)
		}
	})

	t.Run("answered invitations are terminal", func(t *testing.T) {
		testutil.AssertStatus(t, answer(invitee, access.StatusIgnored), http.StatusConflict)
	})
}
