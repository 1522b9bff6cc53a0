// Package repository talks to the GitHub API for the repository the action
// runs in: deployments, commit comparisons, pull requests, and user names.
package repository

import (
	"context"
	"fmt"

	gogithub "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"

	"github.com/zuplo/github-action-slack-notify-build/internal/config"
)

const defaultAPIURL = "https://api.github.com"

// Client wraps the GitHub client for a single owner/repo.
type Client struct {
	gh    *gogithub.Client
	owner string
	repo  string
}

// NewClient creates a Client from the given configuration.
func NewClient(cfg config.GitHub) (*Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	tc := oauth2.NewClient(context.Background(), ts)
	client := gogithub.NewClient(tc)

	// Support GitHub Enterprise by overriding the base URL. The runner
	// exports GITHUB_API_URL, which differs from api.github.com on GHES.
	if cfg.APIURL != "" && cfg.APIURL != defaultAPIURL {
		var err error
		client, err = client.WithEnterpriseURLs(cfg.APIURL, cfg.APIURL)
		if err != nil {
			return nil, fmt.Errorf("configuring GitHub enterprise URLs: %w", err)
		}
	}

	return &Client{gh: client, owner: cfg.Owner, repo: cfg.Repo}, nil
}
