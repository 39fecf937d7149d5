// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"

	"github.com/teamvote/teamvote/access"
	"github.com/teamvote/teamvote/client"
	"github.com/teamvote/teamvote/models"
)

// Session identifies the local user. It is passed in explicitly so the
// store never depends on ambient global state.
type Session struct {
	Sub   string
	Email string
}

// Store is the single source of truth for team-scoped client state. It
// caches server documents and owns the local ballot. Like the UI loop it
// serves, it is not safe for concurrent use.
type Store struct {
	api     *client.Client
	session Session
	dataDir string

	current    models.Team
	teamAccess []access.Record // for the current team
	access     []access.Record // for the current user
	elections  []models.Election
	contests   []models.ContestDoc
	local      models.Ballot
}

func New(api *client.Client, session Session, dataDir string) *Store {
	return &Store{
		api:     api,
		session: session,
		dataDir: dataDir,
		local:   models.Ballot{Votes: map[string]models.Candidate{}},
	}
}

// Accessors. Loads replace these wholesale; on failure the previous
// known-good value stays in place and the error is returned, so "empty"
// and "failed" are distinguishable.

func (s *Store) Current() models.Team          { return s.current }
func (s *Store) Access() []access.Record       { return s.access }
func (s *Store) TeamAccess() []access.Record   { return s.teamAccess }
func (s *Store) Elections() []models.Election  { return s.elections }
func (s *Store) Contests() []models.ContestDoc { return s.contests }
func (s *Store) Local() models.Ballot          { return s.local }

// LoadCurrent makes the named team the current one.
func (s *Store) LoadCurrent(ctx context.Context, slug string) error {
	team, err := s.api.Team(ctx, slug)
	if err != nil {
		return err
	}
	s.current = team
	return nil
}

// LoadTeamAccess replaces the current team's access list from the server.
func (s *Store) LoadTeamAccess(ctx context.Context) error {
	docs, err := s.api.TeamAccess(ctx, s.current.Slug)
	if err != nil {
		return err
	}
	s.teamAccess = docs
	return nil
}

// LoadAccess replaces the caller's own access list: open invitations as
// well as teams where the caller already has access.
func (s *Store) LoadAccess(ctx context.Context) error {
	docs, err := s.api.MyAccess(ctx)
	if err != nil {
		return err
	}
	s.access = docs
	return nil
}

// LoadTeamElections clears the election cache and repopulates it.
func (s *Store) LoadTeamElections(ctx context.Context) error {
	s.elections = s.elections[:0]
	docs, err := s.api.Elections(ctx, s.current.Slug)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		s.upsertElection(doc)
	}
	return nil
}

// LoadTeamContests clears the contest cache and repopulates it.
func (s *Store) LoadTeamContests(ctx context.Context) error {
	s.contests = s.contests[:0]
	docs, err := s.api.Contests(ctx, s.current.Slug)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		s.upsertContestDoc(doc)
	}
	return nil
}

// IsUserEditor reports whether the local user may edit the current team:
// an admin or editor access record, or being the team's creator. The
// creator fallback covers a fresh team whose owner access record has not
// arrived from the server yet. Fails closed when no team is loaded.
func (s *Store) IsUserEditor() bool {
	if s.current.Slug == "" {
		return false
	}
	for _, doc := range s.access {
		if doc.Team != s.current.Slug {
			continue
		}
		if doc.ACL == access.RoleAdmin || doc.ACL == access.RoleEditor {
			return true
		}
	}
	return s.session.Sub != "" && s.session.Sub == s.current.CreatorSub
}

// MergeContests flattens every contest document into one sequence, each
// contest tagged with its owning document id and index within it. Order
// follows the cache.
func (s *Store) MergeContests() []models.MergedContest {
	merged := []models.MergedContest{}
	for _, doc := range s.contests {
		for i, c := range doc.Contests {
			merged = append(merged, models.MergedContest{
				Contest:  c,
				DocID:    doc.ID,
				DocIndex: i,
			})
		}
	}
	return merged
}

// upsertElection inserts or replaces by document id, never duplicating.
func (s *Store) upsertElection(doc models.Election) {
	for i := range s.elections {
		if s.elections[i].ID == doc.ID {
			s.elections[i] = doc
			return
		}
	}
	s.elections = append(s.elections, doc)
}

func (s *Store) upsertContestDoc(doc models.ContestDoc) {
	for i := range s.contests {
		if s.contests[i].ID == doc.ID {
			s.contests[i] = doc
			return
		}
	}
	s.contests = append(s.contests, doc)
}

// setAccessDoc upserts into the caller's own access list.
func (s *Store) setAccessDoc(doc access.Record) {
	for i := range s.access {
		if s.access[i].ID == doc.ID {
			s.access[i] = doc
			return
		}
	}
	s.access = append(s.access, doc)
}

// setTeamAccessDoc upserts into the current team's access list.
func (s *Store) setTeamAccessDoc(doc access.Record) {
	for i := range s.teamAccess {
		if s.teamAccess[i].ID == doc.ID {
			s.teamAccess[i] = doc
			return
		}
	}
	s.teamAccess = append(s.teamAccess, doc)
}
