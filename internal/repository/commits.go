package repository

import (
	"context"
	"fmt"

	gogithub "github.com/google/go-github/v68/github"

	"github.com/zuplo/github-action-slack-notify-build/models"
)

// CommitsBetween returns the commits in the base→head comparison, excluding
// merge commits. A failed comparison is soft at the call site: the caller
// proceeds with an empty commit list.
func (c *Client) CommitsBetween(ctx context.Context, base, head string) ([]models.Commit, error) {
	cmp, _, err := c.gh.Repositories.CompareCommits(ctx, c.owner, c.repo, base, head, &gogithub.ListOptions{
		PerPage: 100,
	})
	if err != nil {
		return nil, fmt.Errorf("comparing %s...%s: %w", base, head, err)
	}

	commits := make([]models.Commit, 0, len(cmp.Commits))
	for _, rc := range cmp.Commits {
		commit := models.Commit{SHA: rc.GetSHA(), Parents: len(rc.Parents)}
		if commit.IsMerge() {
			continue
		}
		commits = append(commits, commit)
	}
	return commits, nil
}
