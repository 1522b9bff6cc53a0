package repository

import (
	"context"
	"fmt"

	gogithub "github.com/google/go-github/v68/github"

	"github.com/zuplo/github-action-slack-notify-build/models"
)

const (
	// maxDeployments bounds how far back the resolver looks for a prior
	// successful deployment.
	maxDeployments = 100
	// maxStatuses bounds the status history inspected per deployment.
	maxStatuses = 10
)

// LastSuccessfulDeployment returns the successful deployment with the latest
// creation timestamp for the environment, or nil when none exists. The
// caller treats an error the same as "no prior deployment".
func (c *Client) LastSuccessfulDeployment(ctx context.Context, environment string) (*models.Deployment, error) {
	deployments, _, err := c.gh.Repositories.ListDeployments(ctx, c.owner, c.repo, &gogithub.DeploymentsListOptions{
		Environment: environment,
		ListOptions: gogithub.ListOptions{PerPage: maxDeployments},
	})
	if err != nil {
		return nil, fmt.Errorf("listing deployments for %s: %w", environment, err)
	}

	var last *models.Deployment
	for _, d := range deployments {
		statuses, _, err := c.gh.Repositories.ListDeploymentStatuses(ctx, c.owner, c.repo, d.GetID(), &gogithub.ListOptions{
			PerPage: maxStatuses,
		})
		if err != nil {
			return nil, fmt.Errorf("listing statuses for deployment %d: %w", d.GetID(), err)
		}
		if !hasSuccessStatus(statuses) {
			continue
		}
		created := d.GetCreatedAt().Time
		if last == nil || created.After(last.CreatedAt) {
			last = &models.Deployment{
				ID:          d.GetID(),
				SHA:         d.GetSHA(),
				Environment: d.GetEnvironment(),
				CreatedAt:   created,
			}
		}
	}
	return last, nil
}

func hasSuccessStatus(statuses []*gogithub.DeploymentStatus) bool {
	for _, s := range statuses {
		if s.GetState() == "success" {
			return true
		}
	}
	return false
}
