package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmptyPath(t *testing.T) {
	r, err := Load("")
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestLoadAndMatchEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yml")
	content := `environments:
  production:
    label: "PROD (EU)"
    channel: deploys-prod
  qa:
    channel: deploys-qa
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	r, err := Load(path)
	require.NoError(t, err)

	rule, ok := r.ForEnvironment("Production")
	require.True(t, ok, "environment names match case-insensitively")
	assert.Equal(t, "PROD (EU)", rule.Label)
	assert.Equal(t, "deploys-prod", rule.Channel)

	rule, ok = r.ForEnvironment("qa")
	require.True(t, ok)
	assert.Empty(t, rule.Label)
	assert.Equal(t, "deploys-qa", rule.Channel)

	_, ok = r.ForEnvironment("staging")
	assert.False(t, ok)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.ErrorContains(t, err, "rules: reading")
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yml")
	require.NoError(t, os.WriteFile(path, []byte("environments: ["), 0o600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "rules: parsing")
}

func TestForEnvironmentNilRules(t *testing.T) {
	var r *Rules
	_, ok := r.ForEnvironment("production")
	assert.False(t, ok)
}
