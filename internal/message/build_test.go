package message

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zuplo/github-action-slack-notify-build/internal/correlate"
	"github.com/zuplo/github-action-slack-notify-build/models"
)

func testBuilder() *Builder {
	return &Builder{
		ServiceName: "api",
		Environment: "staging",
		Status:      "Deploying",
		Color:       "#cccccc",
		ServerURL:   "https://github.com",
		Owner:       "zuplo",
		Repo:        "api",
		now:         func() time.Time { return time.Unix(1700000000, 0) },
	}
}

func TestEnvLabel(t *testing.T) {
	cases := []struct {
		name        string
		environment string
		want        string
	}{
		{"qa", "qa", "QA"},
		{"qa substring any case", "QA-East", "QA"},
		{"prod", "production", ":warning: PROD :warning:"},
		{"prod mixed case", "EU-Prod", ":warning: PROD :warning:"},
		{"other uppercased", "staging", "STAGING"},
		{"qa wins over prod", "qa-prod", "QA"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EnvLabel(tc.environment))
		})
	}
}

func TestBuildNoPullRequests(t *testing.T) {
	att := testBuilder().Build(correlate.Result{})

	require.Len(t, att.Fields, 4)
	assert.Equal(t, "Service", att.Fields[0].Title)
	assert.Equal(t, "api", att.Fields[0].Value)
	assert.True(t, att.Fields[0].Short)
	assert.Equal(t, "Environment", att.Fields[1].Title)
	assert.Equal(t, "STAGING", att.Fields[1].Value)
	assert.Equal(t, "Status", att.Fields[2].Title)
	assert.Equal(t, "Deploying", att.Fields[2].Value)

	assert.Equal(t, groupTitle, att.Fields[3].Title)
	assert.Equal(t, "No pull requests found", att.Fields[3].Value)
	assert.False(t, att.Fields[3].Short)

	assert.Equal(t, "#cccccc", att.Color)
	assert.Equal(t, "<https://github.com/zuplo/api|zuplo/api>", att.Footer)
	assert.Equal(t, footerIcon, att.FooterIcon)
	assert.Equal(t, json.Number("1700000000"), att.Ts)
}

func TestBuildOneLinePerTicketPair(t *testing.T) {
	res := correlate.Result{
		PullRequests: []models.PullRequest{
			{
				Number: 12,
				Title:  "Fix login",
				URL:    "https://github.com/zuplo/api/pull/12",
				Author: "jdoe",
				Tickets: []models.Ticket{
					{Identifier: "ZUP-1", Title: "Login breaks", URL: "https://linear.app/zuplo/issue/ZUP-1"},
					{Identifier: "ZUP-2", Title: "Session expiry", URL: "https://linear.app/zuplo/issue/ZUP-2"},
				},
			},
			{
				Number: 13,
				Title:  "Bump deps",
				URL:    "https://github.com/zuplo/api/pull/13",
				Author: "ghost",
			},
		},
		Authors: map[string]string{"jdoe": "Jane Doe"},
	}

	att := testBuilder().Build(res)

	require.Len(t, att.Fields, 4)
	group := att.Fields[3]
	assert.Equal(t, groupTitle, group.Title)
	want := strings.Join([]string{
		"<https://github.com/zuplo/api/pull/12|Fix login> by Jane Doe: <https://linear.app/zuplo/issue/ZUP-1|ZUP-1 Login breaks>",
		"<https://github.com/zuplo/api/pull/12|Fix login> by Jane Doe: <https://linear.app/zuplo/issue/ZUP-2|ZUP-2 Session expiry>",
		"<https://github.com/zuplo/api/pull/13|Bump deps> by ghost: no ticket",
	}, "\n")
	assert.Equal(t, want, group.Value)
}

func TestBuildChunksGroupsOfEight(t *testing.T) {
	var prs []models.PullRequest
	for i := 1; i <= 17; i++ {
		prs = append(prs, models.PullRequest{
			Number: i,
			Title:  fmt.Sprintf("Change %d", i),
			URL:    fmt.Sprintf("https://github.com/zuplo/api/pull/%d", i),
			Author: "jdoe",
			Tickets: []models.Ticket{{
				Identifier: fmt.Sprintf("ZUP-%d", i),
				Title:      "Ticket",
				URL:        fmt.Sprintf("https://linear.app/zuplo/issue/ZUP-%d", i),
			}},
		})
	}

	att := testBuilder().Build(correlate.Result{PullRequests: prs, Authors: map[string]string{}})

	require.Len(t, att.Fields, 6)
	assert.Equal(t, groupTitle, att.Fields[3].Title)
	assert.Equal(t, groupTitle+" 2", att.Fields[4].Title)
	assert.Equal(t, groupTitle+" 3", att.Fields[5].Title)
	assert.Equal(t, 8, strings.Count(att.Fields[3].Value, "\n")+1)
	assert.Equal(t, 8, strings.Count(att.Fields[4].Value, "\n")+1)
	assert.Equal(t, 1, strings.Count(att.Fields[5].Value, "\n")+1)
	assert.True(t, strings.HasPrefix(att.Fields[5].Value, "<https://github.com/zuplo/api/pull/17|Change 17>"))
}

func TestBuildUsesLabelOverride(t *testing.T) {
	b := testBuilder()
	b.EnvLabel = "Sandbox (EU)"

	att := b.Build(correlate.Result{})

	assert.Equal(t, "Sandbox (EU)", att.Fields[1].Value)
}
