// Package message renders correlated deployment data into the Slack
// attachment posted by the notifier.
package message

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/slack-go/slack"

	"github.com/zuplo/github-action-slack-notify-build/internal/correlate"
	"github.com/zuplo/github-action-slack-notify-build/models"
)

const (
	groupTitle    = "Pull Requests and Linear Tickets"
	linesPerField = 8
	footerIcon    = "https://github.githubassets.com/favicon.ico"
)

// Builder carries the per-invocation context shared by every field of the
// rendered attachment.
type Builder struct {
	ServiceName string
	Environment string
	// EnvLabel overrides the derived environment label when set, typically
	// from a rules file entry.
	EnvLabel  string
	Status    string
	Color     string
	ServerURL string
	Owner     string
	Repo      string

	now func() time.Time
}

// EnvLabel returns the display label for an environment name. QA and
// production environments get fixed labels, everything else is uppercased.
func EnvLabel(environment string) string {
	lower := strings.ToLower(environment)
	switch {
	case strings.Contains(lower, "qa"):
		return "QA"
	case strings.Contains(lower, "prod"):
		return ":warning: PROD :warning:"
	default:
		return strings.ToUpper(environment)
	}
}

// Build renders the single attachment describing a deployment.
func (b *Builder) Build(res correlate.Result) slack.Attachment {
	now := b.now
	if now == nil {
		now = time.Now
	}

	label := b.EnvLabel
	if label == "" {
		label = EnvLabel(b.Environment)
	}

	fields := []slack.AttachmentField{
		{Title: "Service", Value: b.ServiceName, Short: true},
		{Title: "Environment", Value: label, Short: true},
		{Title: "Status", Value: b.Status, Short: true},
	}
	fields = append(fields, b.pullRequestFields(res)...)

	repoPath := b.Owner + "/" + b.Repo
	return slack.Attachment{
		Color:      b.Color,
		Fields:     fields,
		Footer:     fmt.Sprintf("<%s/%s|%s>", b.ServerURL, repoPath, repoPath),
		FooterIcon: footerIcon,
		Ts:         json.Number(strconv.FormatInt(now().Unix(), 10)),
	}
}

func (b *Builder) pullRequestFields(res correlate.Result) []slack.AttachmentField {
	lines := pullRequestLines(res)
	if len(lines) == 0 {
		return []slack.AttachmentField{{
			Title: groupTitle,
			Value: "No pull requests found",
		}}
	}

	var fields []slack.AttachmentField
	for start := 0; start < len(lines); start += linesPerField {
		end := min(start+linesPerField, len(lines))
		title := groupTitle
		if start > 0 {
			title = fmt.Sprintf("%s %d", groupTitle, start/linesPerField+1)
		}
		fields = append(fields, slack.AttachmentField{
			Title: title,
			Value: strings.Join(lines[start:end], "\n"),
		})
	}
	return fields
}

// pullRequestLines emits one line per pull request and ticket pair, in the
// order the correlator produced them.
func pullRequestLines(res correlate.Result) []string {
	var lines []string
	for _, pr := range res.PullRequests {
		prefix := fmt.Sprintf("<%s|%s> by %s", pr.URL, pr.Title, authorName(res, pr))
		if len(pr.Tickets) == 0 {
			lines = append(lines, prefix+": no ticket")
			continue
		}
		for _, ticket := range pr.Tickets {
			lines = append(lines, fmt.Sprintf("%s: <%s|%s %s>", prefix, ticket.URL, ticket.Identifier, ticket.Title))
		}
	}
	return lines
}

func authorName(res correlate.Result, pr models.PullRequest) string {
	if name, ok := res.Authors[pr.Author]; ok && name != "" {
		return name
	}
	return pr.Author
}
