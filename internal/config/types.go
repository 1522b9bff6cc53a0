package config

// Config carries everything one invocation needs, assembled from flags, the
// INPUT_* variables the Actions runner exports, and the runner environment.
type Config struct {
	// Status is the deployment status line shown in the message.
	Status string `mapstructure:"status"`
	// Color is the attachment color.
	Color string `mapstructure:"color"`
	// Channel is the target Slack channel, by name or conversation ID.
	Channel string `mapstructure:"channel"`
	// MessageID updates an existing message instead of posting a new one.
	MessageID string `mapstructure:"message_id"`
	// Environment is the deployment environment name.
	Environment string `mapstructure:"environment"`
	// DefaultBranch filters correlated pull requests by base branch.
	DefaultBranch string `mapstructure:"default_branch"`
	// ServiceName labels the Service field. Defaults to the repository name.
	ServiceName string `mapstructure:"service_name"`
	// RulesFile points at an optional per-environment overrides file.
	RulesFile string `mapstructure:"rules_file"`
	// DryRun renders the attachment to the terminal instead of posting it.
	DryRun bool `mapstructure:"dry_run"`

	GitHub GitHub `mapstructure:"github"`
	Linear Linear `mapstructure:"linear"`
	Slack  Slack  `mapstructure:"slack"`
}

// GitHub holds the API token and the runner context identifying the
// repository and revision being deployed.
type GitHub struct {
	Token string `mapstructure:"token"`
	Owner string `mapstructure:"owner"`
	Repo  string `mapstructure:"repo"`
	// SHA is the deployed revision, from GITHUB_SHA.
	SHA string `mapstructure:"sha"`
	// APIURL overrides the API endpoint on GitHub Enterprise.
	APIURL string `mapstructure:"api_url"`
	// ServerURL is the web UI base, used for the repository footer link.
	ServerURL string `mapstructure:"server_url"`
}

// Linear holds the issue-tracker credentials.
type Linear struct {
	APIKey string `mapstructure:"api_key"`
}

// Slack holds the messaging credentials.
type Slack struct {
	BotToken string `mapstructure:"bot_token"`
}
