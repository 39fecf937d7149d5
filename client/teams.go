// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"context"
	"net/url"

	"github.com/teamvote/teamvote/models"
)

// CreateTeam creates a team; the caller becomes its creator and first
// admin.
func (c *Client) CreateTeam(ctx context.Context, req models.CreateTeamRequest) (models.Team, error) {
	var out models.Team
	err := c.do(ctx, "POST", "/teams/team", req, &out)
	return out, err
}

// Team fetches one team by slug.
func (c *Client) Team(ctx context.Context, slug string) (models.Team, error) {
	var out models.Team
	err := c.do(ctx, "GET", "/teams/team/"+url.PathEscape(slug), nil, &out)
	return out, err
}
