package repository

import (
	"context"
	"fmt"

	gogithub "github.com/google/go-github/v68/github"

	"github.com/zuplo/github-action-slack-notify-build/models"
)

// PullRequestsForCommit returns the pull requests associated with a commit.
func (c *Client) PullRequestsForCommit(ctx context.Context, sha string) ([]models.PullRequest, error) {
	prs, _, err := c.gh.PullRequests.ListPullRequestsWithCommit(ctx, c.owner, c.repo, sha, &gogithub.ListOptions{
		PerPage: 100,
	})
	if err != nil {
		return nil, fmt.Errorf("listing pull requests for commit %s: %w", sha, err)
	}

	out := make([]models.PullRequest, 0, len(prs))
	for _, pr := range prs {
		out = append(out, convertPullRequest(pr))
	}
	return out, nil
}

// PullRequest returns a single pull request by number. Used to follow
// "(#N)" back-references in pull request titles.
func (c *Client) PullRequest(ctx context.Context, number int) (*models.PullRequest, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		return nil, fmt.Errorf("getting pull request #%d: %w", number, err)
	}
	converted := convertPullRequest(pr)
	return &converted, nil
}

// DisplayName resolves a user handle to the profile display name, falling
// back to the handle when the profile has none.
func (c *Client) DisplayName(ctx context.Context, login string) (string, error) {
	u, _, err := c.gh.Users.Get(ctx, login)
	if err != nil {
		return "", fmt.Errorf("getting user %s: %w", login, err)
	}
	if name := u.GetName(); name != "" {
		return name, nil
	}
	return login, nil
}

func convertPullRequest(pr *gogithub.PullRequest) models.PullRequest {
	return models.PullRequest{
		Number:     pr.GetNumber(),
		Title:      pr.GetTitle(),
		Body:       pr.GetBody(),
		URL:        pr.GetHTMLURL(),
		HeadBranch: pr.GetHead().GetRef(),
		BaseBranch: pr.GetBase().GetRef(),
		Author:     pr.GetUser().GetLogin(),
	}
}
