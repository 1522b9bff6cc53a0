package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRunnerEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GITHUB_REPOSITORY", "zuplo/api")
	t.Setenv("GITHUB_SHA", "head222")
	t.Setenv("GITHUB_API_URL", "https://api.github.com")
	t.Setenv("GITHUB_SERVER_URL", "https://github.com")
}

func TestLoadFromActionInputs(t *testing.T) {
	setRunnerEnv(t)
	t.Setenv("INPUT_STATUS", "Deploying")
	t.Setenv("INPUT_CHANNEL", "deploys")
	t.Setenv("INPUT_ENVIRONMENT", "production")
	t.Setenv("INPUT_GITHUB_TOKEN", "ghp_test")
	t.Setenv("LINEAR_API_KEY", "lin_api_test")
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "Deploying", cfg.Status)
	assert.Equal(t, "deploys", cfg.Channel)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "ghp_test", cfg.GitHub.Token)
	assert.Equal(t, "lin_api_test", cfg.Linear.APIKey)
	assert.Equal(t, "xoxb-test", cfg.Slack.BotToken)
	assert.Equal(t, "zuplo", cfg.GitHub.Owner)
	assert.Equal(t, "api", cfg.GitHub.Repo)
	assert.Equal(t, "head222", cfg.GitHub.SHA)

	// Defaults fill whatever the inputs left out.
	assert.Equal(t, "#cccccc", cfg.Color)
	assert.Equal(t, "main", cfg.DefaultBranch)
	assert.Equal(t, "api", cfg.ServiceName, "service name falls back to the repository name")

	require.NoError(t, cfg.Validate())
}

func TestLoadFlagBeatsInput(t *testing.T) {
	setRunnerEnv(t)
	t.Setenv("INPUT_DEFAULT_BRANCH", "main")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("default-branch", "", "")
	flags.String("message-id", "", "")
	require.NoError(t, flags.Parse([]string{"--default-branch=develop", "--message-id=1724400000.000100"}))

	cfg, err := Load(flags)
	require.NoError(t, err)

	assert.Equal(t, "develop", cfg.DefaultBranch)
	assert.Equal(t, "1724400000.000100", cfg.MessageID)
}

func TestLoadSecretInputAliasWins(t *testing.T) {
	setRunnerEnv(t)
	t.Setenv("INPUT_LINEAR_API_KEY", "lin_from_input")
	t.Setenv("LINEAR_API_KEY", "lin_plain")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "lin_from_input", cfg.Linear.APIKey)
}

func TestLoadExplicitServiceName(t *testing.T) {
	setRunnerEnv(t)
	t.Setenv("INPUT_SERVICE_NAME", "edge-gateway")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "edge-gateway", cfg.ServiceName)
}

func TestLoadRejectsBadRepository(t *testing.T) {
	for _, slug := range []string{"", "justname", "/api", "zuplo/"} {
		t.Run("slug "+slug, func(t *testing.T) {
			t.Setenv("GITHUB_REPOSITORY", slug)

			_, err := Load(nil)
			assert.ErrorContains(t, err, "GITHUB_REPOSITORY")
		})
	}
}

func validConfig() Config {
	return Config{
		Status:      "Deploying",
		Channel:     "deploys",
		Environment: "production",
		GitHub:      GitHub{Token: "ghp_test", SHA: "head222"},
		Linear:      Linear{APIKey: "lin_api_test"},
		Slack:       Slack{BotToken: "xoxb-test"},
	}
}

func TestValidate(t *testing.T) {
	t.Run("complete", func(t *testing.T) {
		cfg := validConfig()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing status", func(t *testing.T) {
		cfg := validConfig()
		cfg.Status = ""
		assert.ErrorContains(t, cfg.Validate(), "required input status")
	})

	t.Run("missing slack token", func(t *testing.T) {
		cfg := validConfig()
		cfg.Slack.BotToken = ""
		assert.ErrorContains(t, cfg.Validate(), "slack_bot_token")
	})

	t.Run("dry run lifts slack requirements", func(t *testing.T) {
		cfg := validConfig()
		cfg.DryRun = true
		cfg.Channel = ""
		cfg.Slack.BotToken = ""
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing sha", func(t *testing.T) {
		cfg := validConfig()
		cfg.GitHub.SHA = ""
		assert.ErrorContains(t, cfg.Validate(), "GITHUB_SHA")
	})
}
