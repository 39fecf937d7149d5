// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"context"
	"net/url"

	"github.com/teamvote/teamvote/models"
)

// CreateElection creates an election in the document's team and returns
// the stored document (id and revision assigned by the server).
func (c *Client) CreateElection(ctx context.Context, doc models.Election) (models.Election, error) {
	var out models.Election
	err := c.do(ctx, "POST", "/teams/election/"+url.PathEscape(doc.Team), doc, &out)
	return out, err
}

// Elections fetches the elections of a team.
func (c *Client) Elections(ctx context.Context, team string) ([]models.Election, error) {
	var out []models.Election
	err := c.do(ctx, "GET", "/teams/election/"+url.PathEscape(team), nil, &out)
	return out, err
}

// AddContests stores a new contest document for a team.
func (c *Client) AddContests(ctx context.Context, team string, doc models.ContestDoc) (models.ContestDoc, error) {
	var out models.ContestDoc
	err := c.do(ctx, "POST", "/teams/contests/"+url.PathEscape(team), doc, &out)
	return out, err
}

// Contests fetches the contest documents of a team.
func (c *Client) Contests(ctx context.Context, team string) ([]models.ContestDoc, error) {
	var out []models.ContestDoc
	err := c.do(ctx, "GET", "/teams/contests/"+url.PathEscape(team), nil, &out)
	return out, err
}

// UpdateContest replaces an existing contest document. The document's
// revision must match the stored one; a stale revision comes back as
// ErrConflict.
func (c *Client) UpdateContest(ctx context.Context, team string, doc models.ContestDoc) (models.ContestDoc, error) {
	var out models.ContestDoc
	err := c.do(ctx, "PUT", "/teams/contests/"+url.PathEscape(team)+"/"+url.PathEscape(doc.ID), doc, &out)
	return out, err
}

// DeleteContest deletes a whole contest document.
func (c *Client) DeleteContest(ctx context.Context, team, docID string) error {
	return c.do(ctx, "DELETE", "/teams/contests/"+url.PathEscape(team)+"/"+url.PathEscape(docID), nil, nil)
}
