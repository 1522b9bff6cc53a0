// Package correlate expands a deployed commit range into the pull requests
// and issue-tracker tickets that shipped with it.
package correlate

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/zuplo/github-action-slack-notify-build/internal/linear"
	"github.com/zuplo/github-action-slack-notify-build/models"
)

// SourceClient is the subset of the source-hosting client the correlator
// needs.
type SourceClient interface {
	PullRequestsForCommit(ctx context.Context, sha string) ([]models.PullRequest, error)
	PullRequest(ctx context.Context, number int) (*models.PullRequest, error)
	DisplayName(ctx context.Context, login string) (string, error)
}

// TicketClient resolves ticket identifiers against the issue tracker.
type TicketClient interface {
	Issue(ctx context.Context, identifier string) (*models.Ticket, error)
}

// releaseBranchPattern matches release and hotfix integration branches,
// which count as deployable bases alongside the default branch.
var releaseBranchPattern = regexp.MustCompile(`^(release|hotfix)[-/]`)

// backRefPattern matches a "(#N)" back-reference at the end of a pull
// request title, as left by squash-merging a stacked or reverted PR.
var backRefPattern = regexp.MustCompile(`\(#(\d+)\)\s*$`)

// lookupConcurrency bounds the fan-out for per-commit pull request lookups
// and author display-name resolution.
const lookupConcurrency = 4

// Result is the correlated output for one deployment.
type Result struct {
	// PullRequests is ordered by first appearance in the commit range,
	// deduplicated by pull request number.
	PullRequests []models.PullRequest
	// Authors maps author handles to display names. Handles whose lookup
	// failed are absent; consumers fall back to the handle.
	Authors map[string]string
	// Warnings records every lookup that failed softly. Correlation
	// continues past each of them with the data it has.
	Warnings []error
}

func (r *Result) warn(err error) {
	slog.Warn("Enrichment lookup failed", "error", err)
	r.Warnings = append(r.Warnings, err)
}

// Correlator links commits to pull requests to tickets.
type Correlator struct {
	source        SourceClient
	tickets       TicketClient
	defaultBranch string
}

// New creates a Correlator. Pull requests are retained only when their base
// branch is defaultBranch or a release/hotfix branch.
func New(source SourceClient, tickets TicketClient, defaultBranch string) *Correlator {
	return &Correlator{source: source, tickets: tickets, defaultBranch: defaultBranch}
}

// Correlate resolves the pull requests behind commits, their tickets, and
// the display names of their authors. Individual lookup failures are
// recorded on the result and never abort the batch.
func (c *Correlator) Correlate(ctx context.Context, commits []models.Commit) Result {
	res := Result{Authors: make(map[string]string)}

	// Per-commit PR lookups are independent; fan out with a bound, keeping
	// results in commit order so the message stays deterministic.
	prsByCommit := make([][]models.PullRequest, len(commits))
	warnByCommit := make([]error, len(commits))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	for i, commit := range commits {
		g.Go(func() error {
			prs, err := c.source.PullRequestsForCommit(gctx, commit.SHA)
			if err != nil {
				warnByCommit[i] = fmt.Errorf("pull requests for commit %s: %w", commit.SHA, err)
				return nil
			}
			prsByCommit[i] = prs
			return nil
		})
	}
	_ = g.Wait() // goroutines record soft failures instead of returning errors

	seen := make(map[int]bool)
	for i := range commits {
		if warnByCommit[i] != nil {
			res.warn(warnByCommit[i])
			continue
		}
		for _, pr := range prsByCommit[i] {
			if !c.deployableBase(pr.BaseBranch) || seen[pr.Number] {
				continue
			}
			seen[pr.Number] = true
			res.PullRequests = append(res.PullRequests, pr)
		}
	}

	for i := range res.PullRequests {
		c.resolveTickets(ctx, &res.PullRequests[i], &res)
	}

	c.resolveAuthors(ctx, &res)
	return res
}

func (c *Correlator) deployableBase(base string) bool {
	return base == c.defaultBranch || releaseBranchPattern.MatchString(base)
}

// resolveTickets attaches tickets from the head branch name, from the title
// and body text, and from a "(#N)" back-referenced pull request.
func (c *Correlator) resolveTickets(ctx context.Context, pr *models.PullRequest, res *Result) {
	if id := linear.BranchTicketID(pr.HeadBranch); id != "" {
		if t := c.lookupTicket(ctx, id, res); t != nil {
			pr.AddTicket(*t)
		}
	}
	for _, id := range linear.TicketIDs(pr.Title + " " + pr.Body) {
		if pr.HasTicket(id) {
			continue
		}
		if t := c.lookupTicket(ctx, id, res); t != nil {
			pr.AddTicket(*t)
		}
	}
	c.followBackReference(ctx, pr, res)
}

// followBackReference handles titles ending in "(#N)": the linked pull
// request carries the real author and ticket context, so its author
// replaces the displayed one and its tickets are unioned in.
func (c *Correlator) followBackReference(ctx context.Context, pr *models.PullRequest, res *Result) {
	m := backRefPattern.FindStringSubmatch(pr.Title)
	if m == nil {
		return
	}
	number, err := strconv.Atoi(m[1])
	if err != nil {
		return
	}
	linked, err := c.source.PullRequest(ctx, number)
	if err != nil {
		res.warn(fmt.Errorf("linked pull request #%d: %w", number, err))
		return
	}

	pr.Author = linked.Author
	if id := linear.BranchTicketID(linked.HeadBranch); id != "" && !pr.HasTicket(id) {
		if t := c.lookupTicket(ctx, id, res); t != nil {
			pr.AddTicket(*t)
		}
	}
	for _, id := range linear.TicketIDs(linked.Title + " " + linked.Body) {
		if pr.HasTicket(id) {
			continue
		}
		if t := c.lookupTicket(ctx, id, res); t != nil {
			pr.AddTicket(*t)
		}
	}
}

func (c *Correlator) lookupTicket(ctx context.Context, id string, res *Result) *models.Ticket {
	t, err := c.tickets.Issue(ctx, id)
	if err != nil {
		res.warn(fmt.Errorf("ticket %s: %w", id, err))
		return nil
	}
	return t
}

// resolveAuthors fills the identity map with one display-name lookup per
// unique handle. Lookups are independent and run concurrently.
func (c *Correlator) resolveAuthors(ctx context.Context, res *Result) {
	handles := uniqueAuthors(res.PullRequests)
	names := make([]string, len(handles))
	warns := make([]error, len(handles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	for i, handle := range handles {
		g.Go(func() error {
			name, err := c.source.DisplayName(gctx, handle)
			if err != nil {
				warns[i] = fmt.Errorf("display name for %s: %w", handle, err)
				return nil
			}
			names[i] = name
			return nil
		})
	}
	_ = g.Wait()

	for i, handle := range handles {
		if warns[i] != nil {
			res.warn(warns[i])
			continue
		}
		res.Authors[handle] = names[i]
	}
}

func uniqueAuthors(prs []models.PullRequest) []string {
	var handles []string
	seen := make(map[string]bool)
	for _, pr := range prs {
		if pr.Author == "" || seen[pr.Author] {
			continue
		}
		seen[pr.Author] = true
		handles = append(handles, pr.Author)
	}
	return handles
}
