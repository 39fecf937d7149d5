// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/teamvote/teamvote/models"
)

// RemoveContest removes one contest, addressed by owning document id and
// index within it. The office name guards against a stale view: if the
// contest at that index is no longer the named one, nothing is changed.
// Removing the last contest of a document deletes the whole document.
// The cache is only touched after the server confirms the write.
func (s *Store) RemoveContest(ctx context.Context, docID string, docIndex int, office string) error {
	var doc models.ContestDoc
	pos := -1
	for i, d := range s.contests {
		if d.ID == docID {
			doc = d
			pos = i
			break
		}
	}
	if pos < 0 {
		return fmt.Errorf("contest document %s not loaded", docID)
	}
	if docIndex < 0 || docIndex >= len(doc.Contests) {
		return fmt.Errorf("contest index %d out of range for document %s", docIndex, docID)
	}
	if models.BallotKey(doc.Contests[docIndex]) != office {
		return fmt.Errorf("contest %q no longer at index %d of document %s", office, docIndex, docID)
	}

	if len(doc.Contests) == 1 {
		if err := s.api.DeleteContest(ctx, s.current.Slug, docID); err != nil {
			slog.Warn("contest delete rejected", "doc_id", docID, "error", err)
			return err
		}
		s.contests = slices.Delete(s.contests, pos, pos+1)
		return nil
	}

	update := doc
	update.Contests = slices.Delete(slices.Clone(doc.Contests), docIndex, docIndex+1)
	stored, err := s.api.UpdateContest(ctx, s.current.Slug, update)
	if err != nil {
		slog.Warn("contest update rejected", "doc_id", docID, "error", err)
		return err
	}
	s.contests[pos] = stored
	return nil
}

// AddBlankCandidate appends an empty candidate in editing state to the
// addressed contest. Cache-only; the edit is sent to the server when the
// candidate form is saved.
func (s *Store) AddBlankCandidate(docID string, docIndex int) {
	for i := range s.contests {
		if s.contests[i].ID != docID {
			continue
		}
		if docIndex < 0 || docIndex >= len(s.contests[i].Contests) {
			return
		}
		c := &s.contests[i].Contests[docIndex]
		c.Candidates = append(c.Candidates, models.Candidate{Editing: true})
		return
	}
}

// SetCandidateEditing flips the editing flag on one candidate. Cache-only.
func (s *Store) SetCandidateEditing(docID string, docIndex, candIndex int, editing bool) {
	for i := range s.contests {
		if s.contests[i].ID != docID {
			continue
		}
		if docIndex < 0 || docIndex >= len(s.contests[i].Contests) {
			return
		}
		cands := s.contests[i].Contests[docIndex].Candidates
		if candIndex < 0 || candIndex >= len(cands) {
			return
		}
		cands[candIndex].Editing = editing
		return
	}
}
