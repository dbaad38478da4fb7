package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/slack-go/slack"

	"github.com/cloudreaper/reap/internal/retry"
	"github.com/cloudreaper/reap/types"
)

// safeLimit keeps each message comfortably under Slack's 3000-char
// section text cap.
const safeLimit = 2800

const shortIDLen = 12

// SlackNotifier posts run summaries as Block Kit messages. Long
// resource lists are split across follow-up messages.
type SlackNotifier struct {
	client  *slack.Client
	channel string
	retry   retry.Policy
	logger  zerolog.Logger
}

// NewSlackNotifier builds a notifier for the given channel. A missing
// leading '#' is added.
func NewSlackNotifier(token, channel string, logger zerolog.Logger) *SlackNotifier {
	if !strings.HasPrefix(channel, "#") {
		channel = "#" + channel
	}
	return &SlackNotifier{
		client:  slack.New(token),
		channel: channel,
		retry:   retry.Policy{MaxAttempts: 3, Initial: time.Second, Step: time.Second},
		logger:  logger,
	}
}

// Notify posts the run summary. Each chunk is retried independently.
func (n *SlackNotifier) Notify(ctx context.Context, result types.RunResult) error {
	messages := buildMessages(result)
	n.logger.Debug().
		Str("channel", n.channel).
		Int("messages", len(messages)).
		Msg("posting run summary")
	for i, blocks := range messages {
		err := n.retry.Do(ctx, func() error {
			_, _, err := n.client.PostMessageContext(ctx, n.channel, slack.MsgOptionBlocks(blocks...))
			return err
		})
		if err != nil {
			return fmt.Errorf("post slack message %d: %w", i+1, err)
		}
	}
	return nil
}

// buildMessages renders the result into one or more block lists.
func buildMessages(result types.RunResult) [][]slack.Block {
	header := headerBlocks(result)

	var lines []string
	lines = append(lines, bucketLines("Reclaimed", acceptedLabel(result), result.Accepted)...)
	lines = append(lines, rejectionLines(result.Rejected)...)
	lines = append(lines, failureLines(result.Errored)...)
	if len(lines) == 0 {
		lines = []string{"_No candidates found._"}
	}

	var messages [][]slack.Block
	for i, chunk := range chunkLines(lines, safeLimit) {
		blocks := make([]slack.Block, 0, len(header)+2)
		if i == 0 {
			blocks = append(blocks, header...)
		} else {
			blocks = append(blocks, slack.NewContextBlock("",
				slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("continued (%d)", i+1), false, false)))
		}
		blocks = append(blocks, slack.NewDividerBlock())
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, strings.Join(chunk, "\n"), false, false), nil, nil))
		messages = append(messages, blocks)
	}
	return messages
}

func headerBlocks(result types.RunResult) []slack.Block {
	title := fmt.Sprintf("%s %s %s", strings.ToUpper(result.Provider), result.Kind, result.Operation)
	if result.DryRun {
		title += " (dry run)"
	}
	summary := fmt.Sprintf("%d reclaimed, %d kept, %d errored",
		len(result.Accepted), len(result.Rejected), len(result.Errored))

	return []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, title, false, false)),
		slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, summary, false, false)),
	}
}

func acceptedLabel(result types.RunResult) string {
	if result.DryRun {
		return "would reclaim"
	}
	return string(result.Operation) + "d"
}

func bucketLines(heading, verb string, resources []types.Resource) []string {
	if len(resources) == 0 {
		return nil
	}
	lines := []string{fmt.Sprintf("*%s (%s):*", heading, verb)}
	for _, r := range resources {
		lines = append(lines, fmt.Sprintf("• `%s` %s", shortID(r.ID), r.Name))
	}
	return lines
}

func rejectionLines(rejected []types.Rejection) []string {
	if len(rejected) == 0 {
		return nil
	}
	lines := []string{"*Kept:*"}
	for _, rej := range rejected {
		lines = append(lines, fmt.Sprintf("• `%s` %s (%s)", shortID(rej.Resource.ID), rej.Resource.Name, rej.Reason))
	}
	return lines
}

func failureLines(errored []types.Failure) []string {
	if len(errored) == 0 {
		return nil
	}
	lines := []string{"*Errors:*"}
	for _, f := range errored {
		lines = append(lines, fmt.Sprintf("• `%s` %s: %s", shortID(f.Resource.ID), f.Resource.Name, f.Error))
	}
	return lines
}

// chunkLines groups lines so each chunk's joined length stays under
// limit. A single oversized line still gets its own chunk.
func chunkLines(lines []string, limit int) [][]string {
	var (
		chunks  [][]string
		current []string
		size    int
	)
	for _, line := range lines {
		if len(current) > 0 && size+len(line)+1 > limit {
			chunks = append(chunks, current)
			current = nil
			size = 0
		}
		current = append(current, line)
		size += len(line) + 1
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}
