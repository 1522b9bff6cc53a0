// Package notify delivers the rendered attachment through the Slack Web API.
package notify

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/slack-go/slack"
)

// channelIDPattern matches Slack conversation IDs, which skip name lookup.
var channelIDPattern = regexp.MustCompile(`^[CGD][A-Z0-9]{8,}$`)

// conversationsPageSize is the page size used when resolving channel names.
const conversationsPageSize = 200

// Notifier posts deployment messages as a Slack bot.
type Notifier struct {
	client *slack.Client
}

// New creates a Notifier authenticated with the bot token.
func New(botToken string) *Notifier {
	return &Notifier{client: slack.New(botToken)}
}

func newNotifier(botToken, apiURL string) *Notifier {
	return &Notifier{client: slack.New(botToken, slack.OptionAPIURL(apiURL))}
}

// Send posts the attachment to the channel, or updates an existing message
// when messageID is set. It returns the timestamp identifying the message,
// which callers surface as the action output.
func (n *Notifier) Send(ctx context.Context, channel, messageID string, attachment slack.Attachment) (string, error) {
	channelID, err := n.resolveChannel(ctx, channel)
	if err != nil {
		return "", err
	}

	if messageID != "" {
		_, ts, _, err := n.client.UpdateMessageContext(ctx, channelID, messageID, slack.MsgOptionAttachments(attachment))
		if err != nil {
			return "", fmt.Errorf("updating slack message %s: %w", messageID, err)
		}
		return ts, nil
	}

	_, ts, err := n.client.PostMessageContext(ctx, channelID, slack.MsgOptionAttachments(attachment))
	if err != nil {
		return "", fmt.Errorf("posting slack message: %w", err)
	}
	return ts, nil
}

// resolveChannel maps a channel name to its conversation ID by paging
// through conversations.list. IDs pass through untouched. A name that no
// conversation carries is an error; the bot cannot post anywhere sensible
// without a real target.
func (n *Notifier) resolveChannel(ctx context.Context, channel string) (string, error) {
	if channelIDPattern.MatchString(channel) {
		return channel, nil
	}

	name := strings.TrimPrefix(channel, "#")
	params := &slack.GetConversationsParameters{
		ExcludeArchived: true,
		Limit:           conversationsPageSize,
		Types:           []string{"public_channel", "private_channel"},
	}
	for {
		channels, cursor, err := n.client.GetConversationsContext(ctx, params)
		if err != nil {
			return "", fmt.Errorf("listing slack channels: %w", err)
		}
		for _, ch := range channels {
			if ch.Name == name {
				return ch.ID, nil
			}
		}
		if cursor == "" {
			return "", fmt.Errorf("slack channel %q not found", channel)
		}
		params.Cursor = cursor
	}
}
