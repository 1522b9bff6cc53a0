// Package linear resolves ticket references against the Linear GraphQL API.
package linear

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shurcooL/graphql"

	"github.com/zuplo/github-action-slack-notify-build/models"
)

const apiURL = "https://api.linear.app/graphql"

// Client is a thin client for the Linear GraphQL API. Only the issue lookup
// needed for ticket resolution is implemented.
type Client struct {
	gql *graphql.Client
}

// NewClient returns a Client authenticated with the given personal API key.
func NewClient(apiKey string) *Client {
	return newClient(apiURL, apiKey)
}

func newClient(endpoint, apiKey string) *Client {
	httpClient := &http.Client{
		Transport: &apiKeyTransport{key: apiKey},
		Timeout:   15 * time.Second,
	}
	return &Client{gql: graphql.NewClient(endpoint, httpClient)}
}

// Issue looks up a ticket by its human identifier (e.g. "ZUP-421").
// Identifiers that merely look like tickets resolve to an error, which the
// caller records as a soft failure.
func (c *Client) Issue(ctx context.Context, identifier string) (*models.Ticket, error) {
	var q struct {
		Issue struct {
			Identifier graphql.String
			Title      graphql.String
			URL        graphql.String
		} `graphql:"issue(id: $id)"`
	}
	vars := map[string]any{
		"id": graphql.String(identifier),
	}
	if err := c.gql.Query(ctx, &q, vars); err != nil {
		return nil, fmt.Errorf("linear: issue %s: %w", identifier, err)
	}
	return &models.Ticket{
		Identifier: string(q.Issue.Identifier),
		Title:      string(q.Issue.Title),
		URL:        string(q.Issue.URL),
	}, nil
}

// apiKeyTransport sets the Linear Authorization header. Personal API keys
// are sent bare, without a Bearer prefix.
type apiKeyTransport struct {
	key string
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", t.key)
	return http.DefaultTransport.RoundTrip(clone)
}
