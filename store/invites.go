// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"strings"

	"github.com/teamvote/teamvote/access"
)

// SendTeamInvite creates or updates an invitation on the current team,
// dispatching on the record's natural key: a record carrying an id, or
// one whose email already appears in the team's access list, updates the
// existing document; anything else creates a new one.
func (s *Store) SendTeamInvite(ctx context.Context, rec access.Record) (bool, error) {
	rec.Email = strings.ToLower(rec.Email)
	if rec.ID == "" {
		for _, doc := range s.teamAccess {
			if doc.Email != rec.Email {
				continue
			}
			// Same email, existing record: update it, carrying over
			// whatever the caller left unset.
			merged := doc
			if rec.ACL != "" {
				merged.ACL = rec.ACL
			}
			if rec.Status != "" {
				merged.Status = rec.Status
			}
			rec = merged
			break
		}
	}
	if rec.ID != "" {
		return s.UpdateTeamInvite(ctx, rec)
	}
	return s.AddTeamInvite(ctx, rec)
}

// AddTeamInvite creates a new invitation on the current team. Returns
// false without calling the server when the record already carries an id;
// that record belongs to UpdateTeamInvite.
func (s *Store) AddTeamInvite(ctx context.Context, rec access.Record) (bool, error) {
	if rec.ID != "" {
		return false, nil
	}
	rec.Team = s.current.Slug
	stored, err := s.api.AddInvite(ctx, rec)
	if err != nil {
		return false, err
	}
	s.setTeamAccessDoc(stored)
	return true, nil
}

// UpdateTeamInvite replaces an existing invitation on the current team.
// Returns false without calling the server when the record has no id.
func (s *Store) UpdateTeamInvite(ctx context.Context, rec access.Record) (bool, error) {
	if rec.ID == "" {
		return false, nil
	}
	rec.Team = s.current.Slug
	stored, err := s.api.UpdateTeamInvite(ctx, rec)
	if err != nil {
		return false, err
	}
	s.setTeamAccessDoc(stored)
	return true, nil
}

// UpdateInvite answers the local user's own invitation to the given team
// with "accepted" or "ignored". The invitation must already be in the
// caller's loaded access list.
func (s *Store) UpdateInvite(ctx context.Context, teamID, status string) (bool, error) {
	for _, doc := range s.access {
		if doc.Team != teamID {
			continue
		}
		stored, err := s.api.UpdateInvite(ctx, doc.ID, status)
		if err != nil {
			return false, err
		}
		s.setAccessDoc(stored)
		return true, nil
	}
	return false, nil
}
