// Package github fetches public profile data from the GitHub REST API
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"golang.org/x/time/rate"

	"github.com/bravo68web/folio/internal/config"
	"github.com/bravo68web/folio/internal/domain/models"
	apperrors "github.com/bravo68web/folio/pkg/errors"
)

// Client wraps the GitHub API client with rate limiting
type Client struct {
	client      *github.Client
	rateLimiter *rate.Limiter
}

// NewClient creates a new GitHub client from configuration. An empty token
// uses the unauthenticated API.
func NewClient(cfg *config.GitHubConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := github.NewClient(&http.Client{Timeout: timeout})
	if cfg.Token != "" {
		client = client.WithAuthToken(cfg.Token)
	}

	limit := rate.Limit(cfg.RatePerSecond)
	if cfg.RatePerSecond <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		client:      client,
		rateLimiter: rate.NewLimiter(limit, burst),
	}
}

// WithBaseURL points the client at another API root, such as a test server
func (c *Client) WithBaseURL(raw string) (*Client, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	c.client.BaseURL = u
	return c, nil
}

// FetchProfile gets the public profile of username
func (c *Client) FetchProfile(ctx context.Context, username string) (*models.Profile, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	user, _, err := c.client.Users.Get(ctx, username)
	if err != nil {
		var ghErr *github.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
			return nil, apperrors.NotFound("github user "+username, apperrors.ErrNotFound)
		}
		return nil, apperrors.Upstream("github", fmt.Errorf("fetch user: %w", err))
	}

	return &models.Profile{
		Login:       user.GetLogin(),
		Name:        user.GetName(),
		AvatarURL:   user.GetAvatarURL(),
		HTMLURL:     user.GetHTMLURL(),
		Bio:         user.GetBio(),
		Company:     user.GetCompany(),
		Location:    user.GetLocation(),
		PublicRepos: user.GetPublicRepos(),
		PublicGists: user.GetPublicGists(),
		Followers:   user.GetFollowers(),
		Following:   user.GetFollowing(),
		CreatedAt:   user.GetCreatedAt().Time,
		FetchedAt:   time.Now(),
	}, nil
}
