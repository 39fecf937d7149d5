// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/teamvote/teamvote/models"
)

// The local ballot never leaves this machine. It is persisted per team,
// keyed by the team slug, and re-saved after every vote change.

// AddVote records the local user's choice for a contest, replacing any
// earlier choice for the same contest.
func (s *Store) AddVote(contest models.Contest, candidate models.Candidate) error {
	if s.local.Votes == nil {
		s.local.Votes = map[string]models.Candidate{}
	}
	s.local.Votes[models.BallotKey(contest)] = candidate
	return s.saveLocal()
}

// RemoveVote clears the choice for a contest key. Clearing an absent key
// is a no-op, but the ballot is re-saved either way.
func (s *Store) RemoveVote(key string) error {
	delete(s.local.Votes, key)
	return s.saveLocal()
}

// LoadLocal reads the current team's ballot from disk. A missing or
// unreadable ballot yields an empty one: losing local votes is preferable
// to blocking the user on corrupt state.
func (s *Store) LoadLocal() {
	s.local = models.Ballot{Votes: map[string]models.Candidate{}}
	raw, err := os.ReadFile(s.localPath())
	if err != nil {
		return
	}
	var ballot models.Ballot
	if err := json.Unmarshal(raw, &ballot); err != nil || ballot.Votes == nil {
		return
	}
	s.local = ballot
}

func (s *Store) saveLocal() error {
	raw, err := json.Marshal(s.local)
	if err != nil {
		return fmt.Errorf("encoding ballot: %w", err)
	}
	if err := os.MkdirAll(s.dataDir, 0o700); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	if err := os.WriteFile(s.localPath(), raw, 0o600); err != nil {
		return fmt.Errorf("saving ballot: %w", err)
	}
	return nil
}

func (s *Store) localPath() string {
	return filepath.Join(s.dataDir, s.current.Slug+".json")
}
