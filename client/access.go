// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"context"
	"net/url"

	"github.com/teamvote/teamvote/access"
	"github.com/teamvote/teamvote/models"
)

// MyAccess fetches the caller's access records: open invitations as well
// as teams where the caller already has access.
func (c *Client) MyAccess(ctx context.Context) ([]access.Record, error) {
	var out []access.Record
	err := c.do(ctx, "GET", "/teams/access", nil, &out)
	return out, err
}

// TeamAccess fetches the access records of a team. Requires editor rank.
func (c *Client) TeamAccess(ctx context.Context, team string) ([]access.Record, error) {
	var out []access.Record
	err := c.do(ctx, "GET", "/teams/access/"+url.PathEscape(team), nil, &out)
	return out, err
}

// AddInvite creates an invitation in the record's team. A duplicate email
// within the team comes back as ErrConflict.
func (c *Client) AddInvite(ctx context.Context, rec access.Record) (access.Record, error) {
	var out access.Record
	err := c.do(ctx, "POST", "/teams/access/"+url.PathEscape(rec.Team), rec, &out)
	return out, err
}

// UpdateTeamInvite replaces an existing invitation (role change,
// revocation, correction). The record's revision must match.
func (c *Client) UpdateTeamInvite(ctx context.Context, rec access.Record) (access.Record, error) {
	var out access.Record
	err := c.do(ctx, "PUT", "/teams/access/"+url.PathEscape(rec.Team)+"/"+url.PathEscape(rec.ID), rec, &out)
	return out, err
}

// UpdateInvite answers the caller's own invitation with "accepted" or
// "ignored" and returns the updated record.
func (c *Client) UpdateInvite(ctx context.Context, docID, status string) (access.Record, error) {
	var out access.Record
	req := models.UpdateInviteRequest{Status: status}
	err := c.do(ctx, "PUT", "/teams/invites/"+url.PathEscape(docID), req, &out)
	return out, err
}
