package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	githubactions "github.com/sethvargo/go-githubactions"
	"github.com/spf13/cobra"

	"github.com/zuplo/github-action-slack-notify-build/internal/config"
	"github.com/zuplo/github-action-slack-notify-build/internal/correlate"
	"github.com/zuplo/github-action-slack-notify-build/internal/linear"
	"github.com/zuplo/github-action-slack-notify-build/internal/message"
	"github.com/zuplo/github-action-slack-notify-build/internal/notify"
	"github.com/zuplo/github-action-slack-notify-build/internal/repository"
	"github.com/zuplo/github-action-slack-notify-build/internal/rules"
	"github.com/zuplo/github-action-slack-notify-build/models"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var verbose bool

// rootCmd is the only command; the action runs as a single invocation.
var rootCmd = &cobra.Command{
	Use:   "slack-notify-build",
	Short: "Post a deployment summary to Slack",
	Long: `Posts a Slack message summarising what a deployment ships: the pull
requests merged since the environment's last successful deployment, and the
Linear tickets they reference.

Designed to run as a GitHub Action step on deployment_status events, reading
inputs from the INPUT_* variables the runner exports. Every input doubles as
a flag for local runs.

Examples:
  slack-notify-build --status Deploying --environment production --channel deploys
  slack-notify-build --status Deployed --environment qa --channel C0DEPLOY11 --message-id 1724400000.000100
  slack-notify-build --status Deploying --environment staging --dry-run`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runNotify,
}

// Execute is the entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if os.Getenv("GITHUB_ACTIONS") == "true" {
			githubactions.Errorf("%v", err)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.Flags()
	flags.String("status", "", "Deployment status line shown in the message (required)")
	flags.String("color", "", "Attachment color (default: #cccccc)")
	flags.String("channel", "", "Target Slack channel, by name or ID (required)")
	flags.String("message-id", "", "Timestamp of an existing message to update instead of posting")
	flags.String("environment", "", "Deployment environment name (required)")
	flags.String("default-branch", "", "Base branch pull requests are filtered by (default: main)")
	flags.String("service-name", "", "Service field label (default: the repository name)")
	flags.String("rules-file", "", "Path to a YAML file with per-environment overrides")
	flags.Bool("dry-run", false, "Render the message to the terminal without posting it")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose/debug output")

	rootCmd.Version = Version
}

func runNotify(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
		slog.Debug("Verbose logging enabled")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ruleset, err := rules.Load(cfg.RulesFile)
	if err != nil {
		return err
	}

	source, err := repository.NewClient(cfg.GitHub)
	if err != nil {
		return fmt.Errorf("creating GitHub client: %w", err)
	}

	slog.Info("Correlating deployment",
		"repository", cfg.GitHub.Owner+"/"+cfg.GitHub.Repo,
		"environment", cfg.Environment,
		"sha", cfg.GitHub.SHA,
	)

	commits := commitRange(ctx, source, cfg)
	correlator := correlate.New(source, linear.NewClient(cfg.Linear.APIKey), cfg.DefaultBranch)
	result := correlator.Correlate(ctx, commits)

	builder := &message.Builder{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Status:      cfg.Status,
		Color:       cfg.Color,
		ServerURL:   cfg.GitHub.ServerURL,
		Owner:       cfg.GitHub.Owner,
		Repo:        cfg.GitHub.Repo,
	}
	channel := cfg.Channel
	if rule, ok := ruleset.ForEnvironment(cfg.Environment); ok {
		builder.EnvLabel = rule.Label
		if rule.Channel != "" {
			channel = rule.Channel
		}
	}
	attachment := builder.Build(result)

	if cfg.DryRun {
		printPreview(cmd.OutOrStdout(), channel, attachment, result)
		return nil
	}

	ts, err := notify.New(cfg.Slack.BotToken).Send(ctx, channel, cfg.MessageID, attachment)
	if err != nil {
		return err
	}

	slog.Info("Posted deployment message", "channel", channel, "ts", ts)
	if os.Getenv("GITHUB_OUTPUT") != "" {
		// Outside the runner there is no output file to append to.
		githubactions.SetOutput("message_id", ts)
	}
	return nil
}

// commitRange expands the revisions deployed since the environment's last
// successful deployment. A failed or missing deployment lookup falls back
// to a single-commit range at the current revision; a failed comparison
// yields an empty range.
func commitRange(ctx context.Context, source *repository.Client, cfg *config.Config) []models.Commit {
	fallback := []models.Commit{{SHA: cfg.GitHub.SHA, Parents: 1}}

	prev, err := source.LastSuccessfulDeployment(ctx, cfg.Environment)
	if err != nil {
		slog.Warn("Deployment lookup failed", "environment", cfg.Environment, "error", err)
		return fallback
	}
	if prev == nil {
		slog.Info("No successful prior deployment", "environment", cfg.Environment)
		return fallback
	}

	slog.Debug("Found prior deployment", "id", prev.ID, "sha", prev.SHA)
	commits, err := source.CommitsBetween(ctx, prev.SHA, cfg.GitHub.SHA)
	if err != nil {
		slog.Warn("Commit comparison failed", "base", prev.SHA, "head", cfg.GitHub.SHA, "error", err)
		return nil
	}
	return commits
}
