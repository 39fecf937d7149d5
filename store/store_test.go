// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/teamvote/teamvote/access"
	"github.com/teamvote/teamvote/auth"
	"github.com/teamvote/teamvote/client"
	"github.com/teamvote/teamvote/models"
	"github.com/teamvote/teamvote/router"
	"github.com/teamvote/teamvote/testutil"
)

// newTestStore runs the real router against an in-memory database and
// returns a store signed in as the given identity.
func newTestStore(t *testing.T, sub, email string) (*Store, *sql.DB) {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()

	srv := httptest.NewServer(router.NewRouter(conn, cfg))
	t.Cleanup(srv.Close)

	token := auth.SignIdentity(auth.Identity{Sub: sub, Email: email}, cfg.SessionSalt)
	api := client.New(srv.URL, token)

	return New(api, Session{Sub: sub, Email: email}, t.TempDir()), conn
}

func TestLoadCurrent(t *testing.T) {
	s, conn := newTestStore(t, "user-1", "one@example.com")
	testutil.CreateTestTeam(t, conn, "acme", "owner-1")

	if err := s.LoadCurrent(context.Background(), "acme"); err != nil {
		t.Fatalf("LoadCurrent failed: %v", err)
	}
	if s.Current().Slug != "acme" || s.Current().CreatorSub != "owner-1" {
		t.Errorf("unexpected current team: %+v", s.Current())
	}

	// A failed load keeps the previous team in place.
	err := s.LoadCurrent(context.Background(), "no-such-team")
	if !errors.Is(err, client.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if s.Current().Slug != "acme" {
		t.Errorf("failed load clobbered current team: %+v", s.Current())
	}
}

func TestLoadTeamContestsUpsert(t *testing.T) {
	s, conn := newTestStore(t, "owner-1", "owner@example.com")
	testutil.CreateTestTeam(t, conn, "acme", "owner-1")
	doc := testutil.SeedContestDoc(t, conn, "acme", []models.Contest{
		{Office: "President", Type: models.TypeCandidate},
	})

	if err := s.LoadCurrent(context.Background(), "acme"); err != nil {
		t.Fatalf("LoadCurrent failed: %v", err)
	}
	// Two loads must not duplicate the document.
	for range 2 {
		if err := s.LoadTeamContests(context.Background()); err != nil {
			t.Fatalf("LoadTeamContests failed: %v", err)
		}
	}
	if len(s.Contests()) != 1 {
		t.Fatalf("expected 1 contest doc, got %d", len(s.Contests()))
	}
	if s.Contests()[0].ID != doc.ID {
		t.Errorf("expected doc %s, got %s", doc.ID, s.Contests()[0].ID)
	}
}

func TestMergeContests(t *testing.T) {
	s, conn := newTestStore(t, "owner-1", "owner@example.com")
	testutil.CreateTestTeam(t, conn, "acme", "owner-1")
	docA := testutil.SeedContestDoc(t, conn, "acme", []models.Contest{
		{Office: "President", Type: models.TypeCandidate},
		{Office: "Treasurer", Type: models.TypeCandidate},
	})
	docB := testutil.SeedContestDoc(t, conn, "acme", []models.Contest{
		{Type: models.TypeReferendum, ReferendumTitle: "New Bylaws"},
	})

	if err := s.LoadCurrent(context.Background(), "acme"); err != nil {
		t.Fatalf("LoadCurrent failed: %v", err)
	}
	if err := s.LoadTeamContests(context.Background()); err != nil {
		t.Fatalf("LoadTeamContests failed: %v", err)
	}

	merged := s.MergeContests()
	if len(merged) != 3 {
		t.Fatalf("expected 3 merged contests, got %d", len(merged))
	}
	byDoc := map[string][]int{}
	for _, m := range merged {
		byDoc[m.DocID] = append(byDoc[m.DocID], m.DocIndex)
	}
	if got := byDoc[docA.ID]; len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("doc A indexes = %v, want [0 1]", got)
	}
	if got := byDoc[docB.ID]; len(got) != 1 || got[0] != 0 {
		t.Errorf("doc B indexes = %v, want [0]", got)
	}
}

func TestRemoveContest(t *testing.T) {
	s, conn := newTestStore(t, "owner-1", "owner@example.com")
	testutil.CreateTestTeam(t, conn, "acme", "owner-1")
	doc := testutil.SeedContestDoc(t, conn, "acme", []models.Contest{
		{Office: "President", Type: models.TypeCandidate},
		{Office: "Treasurer", Type: models.TypeCandidate},
	})

	ctx := context.Background()
	if err := s.LoadCurrent(ctx, "acme"); err != nil {
		t.Fatalf("LoadCurrent failed: %v", err)
	}
	if err := s.LoadTeamContests(ctx); err != nil {
		t.Fatalf("LoadTeamContests failed: %v", err)
	}

	// Stale office name: nothing changes.
	err := s.RemoveContest(ctx, doc.ID, 0, "Treasurer")
	if err == nil {
		t.Fatal("expected error for stale office, got nil")
	}
	if len(s.Contests()[0].Contests) != 2 {
		t.Fatalf("stale remove changed the cache")
	}

	// Removing one of two splices the document and keeps it cached.
	if err := s.RemoveContest(ctx, doc.ID, 0, "President"); err != nil {
		t.Fatalf("RemoveContest failed: %v", err)
	}
	cached := s.Contests()[0]
	if len(cached.Contests) != 1 || cached.Contests[0].Office != "Treasurer" {
		t.Fatalf("unexpected contests after remove: %+v", cached.Contests)
	}
	if cached.Rev == doc.Rev {
		t.Errorf("revision not bumped after update")
	}

	// Removing the last contest deletes the whole document.
	if err := s.RemoveContest(ctx, cached.ID, 0, "Treasurer"); err != nil {
		t.Fatalf("RemoveContest (last) failed: %v", err)
	}
	if len(s.Contests()) != 0 {
		t.Errorf("expected empty contest cache, got %d docs", len(s.Contests()))
	}
}

func TestRemoveContestForbiddenKeepsCache(t *testing.T) {
	s, conn := newTestStore(t, "stranger", "stranger@example.com")
	testutil.CreateTestTeam(t, conn, "acme", "owner-1")
	doc := testutil.SeedContestDoc(t, conn, "acme", []models.Contest{
		{Office: "President", Type: models.TypeCandidate},
	})

	ctx := context.Background()
	if err := s.LoadCurrent(ctx, "acme"); err != nil {
		t.Fatalf("LoadCurrent failed: %v", err)
	}
	if err := s.LoadTeamContests(ctx); err != nil {
		t.Fatalf("LoadTeamContests failed: %v", err)
	}

	err := s.RemoveContest(ctx, doc.ID, 0, "President")
	if !errors.Is(err, client.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(s.Contests()) != 1 {
		t.Errorf("rejected remove changed the cache")
	}
}

func TestIsUserEditor(t *testing.T) {
	tests := []struct {
		name    string
		current models.Team
		access  []access.Record
		sub     string
		want    bool
	}{
		{
			name: "no team loaded",
			sub:  "user-1",
			want: false,
		},
		{
			name:    "editor on team",
			current: models.Team{Slug: "acme", CreatorSub: "owner-1"},
			access:  []access.Record{{Team: "acme", ACL: access.RoleEditor}},
			sub:     "user-1",
			want:    true,
		},
		{
			name:    "admin on team",
			current: models.Team{Slug: "acme", CreatorSub: "owner-1"},
			access:  []access.Record{{Team: "acme", ACL: access.RoleAdmin}},
			sub:     "user-1",
			want:    true,
		},
		{
			name:    "plain user",
			current: models.Team{Slug: "acme", CreatorSub: "owner-1"},
			access:  []access.Record{{Team: "acme", ACL: access.RoleUser}},
			sub:     "user-1",
			want:    false,
		},
		{
			name:    "editor on another team only",
			current: models.Team{Slug: "acme", CreatorSub: "owner-1"},
			access:  []access.Record{{Team: "other", ACL: access.RoleAdmin}},
			sub:     "user-1",
			want:    false,
		},
		{
			name:    "creator without access record",
			current: models.Team{Slug: "acme", CreatorSub: "owner-1"},
			sub:     "owner-1",
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(nil, Session{Sub: tt.sub}, t.TempDir())
			s.current = tt.current
			s.access = tt.access
			if got := s.IsUserEditor(); got != tt.want {
				t.Errorf("IsUserEditor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSendTeamInvite(t *testing.T) {
	s, conn := newTestStore(t, "owner-1", "owner@example.com")
	testutil.CreateTestTeam(t, conn, "acme", "owner-1")

	ctx := context.Background()
	if err := s.LoadCurrent(ctx, "acme"); err != nil {
		t.Fatalf("LoadCurrent failed: %v", err)
	}
	if err := s.LoadTeamAccess(ctx); err != nil {
		t.Fatalf("LoadTeamAccess failed: %v", err)
	}
	before := len(s.TeamAccess()) // the creator's own record

	// A new email creates exactly one record.
	sent, err := s.SendTeamInvite(ctx, access.Record{
		Email: "New@X.com", ACL: access.RoleUser,
	})
	if err != nil || !sent {
		t.Fatalf("SendTeamInvite failed: sent=%v err=%v", sent, err)
	}
	if len(s.TeamAccess()) != before+1 {
		t.Fatalf("expected %d access records, got %d", before+1, len(s.TeamAccess()))
	}
	var invited access.Record
	for _, doc := range s.TeamAccess() {
		if doc.Email == "new@x.com" {
			invited = doc
		}
	}
	if invited.ID == "" || invited.Status != access.StatusInvited {
		t.Fatalf("unexpected invited record: %+v", invited)
	}

	// The same email again dispatches to update: still one record.
	sent, err = s.SendTeamInvite(ctx, access.Record{
		Email: "new@x.com", ACL: access.RoleEditor,
	})
	if err != nil || !sent {
		t.Fatalf("SendTeamInvite (update) failed: sent=%v err=%v", sent, err)
	}
	if len(s.TeamAccess()) != before+1 {
		t.Fatalf("duplicate invite created a second record")
	}
	for _, doc := range s.TeamAccess() {
		if doc.Email == "new@x.com" && doc.ACL != access.RoleEditor {
			t.Errorf("role not updated: %+v", doc)
		}
	}
}

func TestUpdateInvite(t *testing.T) {
	s, conn := newTestStore(t, "invitee-1", "invitee@example.com")
	testutil.CreateTestTeam(t, conn, "acme", "owner-1")
	testutil.SeedAccess(t, conn, access.Record{
		Email:      "invitee@example.com",
		Team:       "acme",
		ACL:        access.RoleUser,
		Status:     access.StatusInvited,
		CreatorSub: "owner-1",
	})

	ctx := context.Background()
	if err := s.LoadAccess(ctx); err != nil {
		t.Fatalf("LoadAccess failed: %v", err)
	}
	if len(s.Access()) != 1 {
		t.Fatalf("expected 1 access record, got %d", len(s.Access()))
	}

	// No invitation for an unknown team.
	done, err := s.UpdateInvite(ctx, "other", access.StatusAccepted)
	if err != nil || done {
		t.Fatalf("UpdateInvite(other) = %v, %v; want false, nil", done, err)
	}

	done, err = s.UpdateInvite(ctx, "acme", access.StatusAccepted)
	if err != nil || !done {
		t.Fatalf("UpdateInvite failed: done=%v err=%v", done, err)
	}
	got := s.Access()[0]
	if got.Status != access.StatusAccepted {
		t.Errorf("status = %q, want accepted", got.Status)
	}
	if got.Sub != "invitee-1" {
		t.Errorf("sub = %q, want invitee-1", got.Sub)
	}

	// Accepting twice hits the terminal-status rule on the server.
	_, err = s.UpdateInvite(ctx, "acme", access.StatusAccepted)
	if !errors.Is(err, client.ErrConflict) {
		t.Errorf("expected ErrConflict on second accept, got %v", err)
	}
}

func TestVotes(t *testing.T) {
	s := New(nil, Session{Sub: "user-1"}, t.TempDir())
	s.current = models.Team{Slug: "acme"}

	office := models.Contest{Office: "President", Type: models.TypeCandidate}
	referendum := models.Contest{
		Type:            models.TypeReferendum,
		Office:          "ignored",
		ReferendumTitle: "New Bylaws",
	}

	if err := s.AddVote(office, models.Candidate{Name: "Ada"}); err != nil {
		t.Fatalf("AddVote failed: %v", err)
	}
	if err := s.AddVote(referendum, models.Candidate{Name: "Yes"}); err != nil {
		t.Fatalf("AddVote failed: %v", err)
	}

	if got := s.Local().Votes["President"].Name; got != "Ada" {
		t.Errorf("office vote = %q, want Ada", got)
	}
	// Referenda key by title, not office.
	if got := s.Local().Votes["New Bylaws"].Name; got != "Yes" {
		t.Errorf("referendum vote = %q, want Yes", got)
	}
	if _, ok := s.Local().Votes["ignored"]; ok {
		t.Errorf("referendum vote keyed by office")
	}

	// A second store over the same directory sees the saved ballot.
	s2 := New(nil, Session{Sub: "user-1"}, s.dataDir)
	s2.current = models.Team{Slug: "acme"}
	s2.LoadLocal()
	if len(s2.Local().Votes) != 2 {
		t.Fatalf("reloaded ballot has %d votes, want 2", len(s2.Local().Votes))
	}

	if err := s2.RemoveVote("President"); err != nil {
		t.Fatalf("RemoveVote failed: %v", err)
	}
	if _, ok := s2.Local().Votes["President"]; ok {
		t.Errorf("vote not removed")
	}
}

func TestLoadLocalCorrupt(t *testing.T) {
	dir := t.TempDir()
	s := New(nil, Session{Sub: "user-1"}, dir)
	s.current = models.Team{Slug: "acme"}

	if err := os.WriteFile(filepath.Join(dir, "acme.json"), []byte("{nope"), 0o600); err != nil {
		t.Fatal(err)
	}
	s.LoadLocal()
	if s.Local().Votes == nil || len(s.Local().Votes) != 0 {
		t.Errorf("corrupt ballot should load as empty, got %+v", s.Local())
	}
}

func TestAddBlankCandidate(t *testing.T) {
	s := New(nil, Session{Sub: "user-1"}, t.TempDir())
	s.contests = []models.ContestDoc{{
		ID:   "teams:doc1",
		Team: "acme",
		Contests: []models.Contest{
			{Office: "President", Type: models.TypeCandidate},
		},
	}}

	s.AddBlankCandidate("teams:doc1", 0)
	cands := s.Contests()[0].Contests[0].Candidates
	if len(cands) != 1 || !cands[0].Editing {
		t.Fatalf("expected one editing candidate, got %+v", cands)
	}

	s.SetCandidateEditing("teams:doc1", 0, 0, false)
	if s.Contests()[0].Contests[0].Candidates[0].Editing {
		t.Errorf("editing flag not cleared")
	}

	// Unknown addresses are no-ops.
	s.AddBlankCandidate("teams:nope", 0)
	s.AddBlankCandidate("teams:doc1", 5)
	s.SetCandidateEditing("teams:doc1", 0, 5, true)
	if len(s.Contests()[0].Contests[0].Candidates) != 1 {
		t.Errorf("out-of-range mutation changed the cache")
	}
}
