package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/slack-go/slack"

	"github.com/zuplo/github-action-slack-notify-build/internal/correlate"
)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#7C3AED"))

var fieldStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#10B981"))

var warnStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#F59E0B"))

var dimStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#6B7280"))

// printPreview renders the attachment to the terminal for dry runs, in
// roughly the shape Slack would lay it out.
func printPreview(w io.Writer, channel string, att slack.Attachment, res correlate.Result) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("  Dry run — nothing posted"))
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("  Channel: %s · Color: %s", channel, att.Color)))
	fmt.Fprintln(w)

	for _, f := range att.Fields {
		fmt.Fprintln(w, fieldStyle.Render("  "+f.Title))
		for _, line := range strings.Split(f.Value, "\n") {
			fmt.Fprintln(w, "  "+line)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, dimStyle.Render("  "+att.Footer))
	if len(res.Warnings) > 0 {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("  Enrichment lookup failures: %d (see the log above)", len(res.Warnings))))
	}
}
