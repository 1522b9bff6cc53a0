// Package config assembles the action's inputs, secrets, and runner context.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// inputs lists the action inputs. Each one binds a dashed command-line flag
// and the INPUT_<NAME> variable the Actions runner exports.
var inputs = []string{
	"status", "color", "channel", "message_id",
	"environment", "default_branch", "service_name", "rules_file",
}

// Load assembles the configuration. Precedence: flags set on the command
// line, then INPUT_* variables, then plain environment variables, then
// defaults.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	for _, name := range inputs {
		bindFlag(v, flags, name)
		bindEnvs(v, name, "INPUT_"+strings.ToUpper(name))
	}
	bindFlag(v, flags, "dry_run")

	// Secrets accept the conventional variable and the input form.
	bindEnvs(v, "github.token", "INPUT_GITHUB_TOKEN", "GITHUB_TOKEN")
	bindEnvs(v, "linear.api_key", "INPUT_LINEAR_API_KEY", "LINEAR_API_KEY")
	bindEnvs(v, "slack.bot_token", "INPUT_SLACK_BOT_TOKEN", "SLACK_BOT_TOKEN")

	// Runner context.
	bindEnvs(v, "github.repository", "GITHUB_REPOSITORY")
	bindEnvs(v, "github.sha", "GITHUB_SHA")
	bindEnvs(v, "github.api_url", "GITHUB_API_URL")
	bindEnvs(v, "github.server_url", "GITHUB_SERVER_URL")

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	slug := v.GetString("github.repository")
	owner, repo, ok := strings.Cut(slug, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("GITHUB_REPOSITORY must be owner/name, got %q", slug)
	}
	cfg.GitHub.Owner = owner
	cfg.GitHub.Repo = repo

	if cfg.ServiceName == "" {
		cfg.ServiceName = repo
	}
	return &cfg, nil
}

// Validate reports the first hard configuration error. Enrichment lookups
// degrade softly at runtime, but a run missing these values cannot produce
// a message at all. Dry runs skip the Slack send, so the channel and bot
// token are not required for them.
func (c *Config) Validate() error {
	type input struct {
		name  string
		value string
	}
	required := []input{
		{"status", c.Status},
		{"environment", c.Environment},
		{"github_token", c.GitHub.Token},
		{"linear_api_key", c.Linear.APIKey},
	}
	if !c.DryRun {
		required = append(required,
			input{"channel", c.Channel},
			input{"slack_bot_token", c.Slack.BotToken},
		)
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("required input %s is not set", r.name)
		}
	}
	if c.GitHub.SHA == "" {
		return fmt.Errorf("GITHUB_SHA is not set")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("color", "#cccccc")
	v.SetDefault("default_branch", "main")
	v.SetDefault("github.server_url", "https://github.com")
}

// bindFlag maps a viper key to its dashed flag, when the flag set has one.
func bindFlag(v *viper.Viper, flags *pflag.FlagSet, name string) {
	if flags == nil {
		return
	}
	if f := flags.Lookup(strings.ReplaceAll(name, "_", "-")); f != nil {
		// BindPFlag only errors on a nil flag.
		_ = v.BindPFlag(name, f)
	}
}

func bindEnvs(v *viper.Viper, key string, envs ...string) {
	// BindEnv only errors on an empty key.
	_ = v.BindEnv(append([]string{key}, envs...)...)
}
